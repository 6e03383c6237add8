package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	Gemini     Gemini
	Assessment Assessment
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Gemini struct {
	APIKey string
	Model  string
	// MaxPromptChars bounds the assembled analysis prompt; answers are
	// truncated to fit.
	MaxPromptChars int
}

type Assessment struct {
	// AllowRetake permits starting a new attempt for a candidate who already
	// has an assessment result.
	AllowRetake bool
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_MAX_PROMPT_CHARS", 12000)
	viper.SetDefault("ASSESSMENT_ALLOW_RETAKE", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")
	config.Gemini.MaxPromptChars = viper.GetInt("GEMINI_MAX_PROMPT_CHARS")

	config.Assessment.AllowRetake = viper.GetBool("ASSESSMENT_ALLOW_RETAKE")

	if config.Gemini.MaxPromptChars <= 0 {
		return nil, fmt.Errorf("GEMINI_MAX_PROMPT_CHARS must be positive, got %d", config.Gemini.MaxPromptChars)
	}

	log.Info().
		Str("serverPort", config.Server.Port).
		Str("geminiModel", config.Gemini.Model).
		Int("maxPromptChars", config.Gemini.MaxPromptChars).
		Bool("allowRetake", config.Assessment.AllowRetake).
		Msg("Config loaded")
	return &config, nil
}
