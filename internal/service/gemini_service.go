package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnguyen2107/talentpulse/config"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiService is the single point of contact with the model provider.
// One prompt in, one raw response out; callers parse and decide on retries.
type GeminiService interface {
	GenerateAnalysis(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
	ModelName() string
}

type geminiService struct {
	model     *genai.GenerativeModel
	modelName string
	cfg       *config.Config
}

func NewGeminiService(cfg *config.Config) (GeminiService, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiService will be non-functional.")
		return &geminiService{cfg: cfg, modelName: cfg.Gemini.Model}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	generativeModel := client.GenerativeModel(cfg.Gemini.Model)
	generativeModel.SetTemperature(0.4)
	generativeModel.SetTopP(0.95)
	generativeModel.SetTopK(40)
	generativeModel.SetMaxOutputTokens(4096)
	generativeModel.ResponseMIMEType = "application/json"

	return &geminiService{
		model:     generativeModel,
		modelName: cfg.Gemini.Model,
		cfg:       cfg,
	}, nil
}

func (s *geminiService) ModelName() string {
	return s.modelName
}

// GenerateAnalysis performs exactly one generation call. There is no retry
// here: a failed call is surfaced to the orchestrator and the caller decides
// whether to run the analysis again.
func (s *geminiService) GenerateAnalysis(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	if s.model == nil {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not configured", model.ErrConfiguration)
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			log.Error().Int("status", apiErr.Code).Str("model", s.modelName).Msg("Gemini API returned an error status")
			return nil, fmt.Errorf("%w: status %d: %s", model.ErrModelUnavailable, apiErr.Code, apiErr.Body)
		}
		log.Error().Err(err).Str("model", s.modelName).Msg("Gemini API call failed")
		return nil, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}
	return resp, nil
}
