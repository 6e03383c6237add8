package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dtnguyen2107/talentpulse/config"
	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/dtnguyen2107/talentpulse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AssessmentController exposes the attempt lifecycle, the AI analysis trigger
// and the state resolver over HTTP.
type AssessmentController struct {
	attemptSvc  service.AttemptService
	analysisSvc service.AnalysisService
	resolverSvc service.StateResolverService
	allowRetake bool
}

func NewAssessmentController(
	attemptSvc service.AttemptService,
	analysisSvc service.AnalysisService,
	resolverSvc service.StateResolverService,
	cfg *config.Config,
) *AssessmentController {
	return &AssessmentController{
		attemptSvc:  attemptSvc,
		analysisSvc: analysisSvc,
		resolverSvc: resolverSvc,
		allowRetake: cfg.Assessment.AllowRetake,
	}
}

func (c *AssessmentController) RegisterRoutes(router *gin.RouterGroup) {
	attempts := router.Group("/attempts")
	{
		attempts.POST("", c.StartAttempt)
		attempts.POST("/:attempt_id/answers", c.RecordAnswer)
		attempts.POST("/:attempt_id/submit", c.SubmitAttempt)
		attempts.POST("/:attempt_id/analyze", c.Analyze)
	}
	router.GET("/assessment-state", c.ResolveState)
}

// StartAttempt godoc
// @Summary Start or resume an assessment attempt
// @Description Creates a new attempt for the candidate and role, or resumes the newest non-completed one for the same pair.
// @Tags attempts
// @Accept json
// @Produce json
// @Param attempt body dto.StartAttemptRequest true "Candidate, role and question count"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Candidate profile or role not found"
// @Failure 409 {object} dto.ErrorResponse "Candidate already has a result and retakes are disabled"
// @Router /attempts [post]
func (c *AssessmentController) StartAttempt(ctx *gin.Context) {
	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptSvc.StartAttempt(req, c.allowRetake)
	if err != nil {
		respondError(ctx, err, "Failed to start attempt")
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// RecordAnswer godoc
// @Summary Record one answer on an attempt
// @Description Inserts or updates the answer for a question and refreshes the attempt's progress.
// @Tags attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param answer body dto.RecordAnswerRequest true "Answer payload"
// @Success 200 {object} dto.RecordAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid attempt ID or request body"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt no longer accepts answers"
// @Router /attempts/{attempt_id}/answers [post]
func (c *AssessmentController) RecordAnswer(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}
	var req dto.RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.attemptSvc.RecordAnswer(attemptID, req)
	if err != nil {
		respondError(ctx, err, "Failed to record answer")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary Submit an attempt for analysis
// @Description Freezes the attempt, records timing and violation metadata and marks it awaiting AI analysis.
// @Tags attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param submission body dto.SubmitAttemptRequest true "Timing and violation metadata"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid attempt ID or request body"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt cannot be submitted in its current status"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AssessmentController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}
	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.attemptSvc.SubmitAttempt(attemptID, req)
	if err != nil {
		respondError(ctx, err, "Failed to submit attempt")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Analyze godoc
// @Summary Run AI analysis for a submitted attempt
// @Description Builds the analysis prompt from the submitted answers, calls the model once, and persists the result while completing the attempt.
// @Tags attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param analysis body dto.AnalyzeRequest true "Candidate, answers and analysis options"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid attempt ID or request body"
// @Failure 404 {object} dto.ErrorResponse "Attempt or candidate profile not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt is not awaiting analysis or already has a result"
// @Failure 422 {object} dto.ErrorResponse "Model response was blocked or could not be parsed"
// @Failure 502 {object} dto.ErrorResponse "Model endpoint unavailable"
// @Failure 503 {object} dto.ErrorResponse "Analysis backend not configured"
// @Router /attempts/{attempt_id}/analyze [post]
func (c *AssessmentController) Analyze(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}
	var req dto.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Uint("attemptID", attemptID).Str("candidateID", req.CandidateID).Int("answerCount", len(req.Answers)).Msg("Received analysis request")

	resp, err := c.analysisSvc.Analyze(ctx.Request.Context(), attemptID, req)
	if err != nil {
		respondError(ctx, err, "Failed to analyze attempt")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ResolveState godoc
// @Summary Resolve where a candidate should land
// @Description Returns "result" with the latest result, "assessment" with the open attempt, or "role-selection".
// @Tags state
// @Produce json
// @Param candidate_id query string false "Candidate auth ID"
// @Success 200 {object} dto.AssessmentStateResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessment-state [get]
func (c *AssessmentController) ResolveState(ctx *gin.Context) {
	resp, err := c.resolverSvc.ResolveState(ctx.Query("candidate_id"))
	if err != nil {
		respondError(ctx, err, "Failed to resolve assessment state")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func attemptIDParam(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("attempt_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service sentinels onto HTTP statuses. The message stays
// generic per status; the sentinel chain ends up in Details for debugging.
func respondError(ctx *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrProfileNotFound), errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, model.ErrConfiguration):
		status = http.StatusServiceUnavailable
	case errors.Is(err, model.ErrModelUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, model.ErrModelBlocked), errors.Is(err, model.ErrModelMalformed):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)
	} else {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg(message)
	}
	ctx.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
}
