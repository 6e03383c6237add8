package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dtnguyen2107/talentpulse/internal/dto"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/dtnguyen2107/talentpulse/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService owns the assessment attempt lifecycle up to submission.
// Analysis and state resolution live in their own services.
type AttemptService interface {
	// StartAttempt reuses the candidate's active attempt for the role when one
	// exists; allowRetake is passed explicitly so the retake policy is a
	// configuration decision, not a compiled-in constant.
	StartAttempt(req dto.StartAttemptRequest, allowRetake bool) (*dto.AttemptResponse, error)
	SubmitAttempt(attemptID uint, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error)
	RecordAnswer(attemptID uint, req dto.RecordAnswerRequest) (*dto.RecordAnswerResponse, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	resultRepo  repository.ResultRepository
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	profileRepo repository.ProfileRepository,
	roleRepo repository.RoleRepository,
	resultRepo repository.ResultRepository,
) AttemptService {
	return &attemptService{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		resultRepo:  resultRepo,
	}
}

func (s *attemptService) StartAttempt(req dto.StartAttemptRequest, allowRetake bool) (*dto.AttemptResponse, error) {
	profile, err := s.profileRepo.FindByAuthID(req.CandidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: candidate %q", model.ErrProfileNotFound, req.CandidateID)
		}
		return nil, fmt.Errorf("%w: resolving candidate profile: %v", model.ErrPersistence, err)
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %d", model.ErrNotFound, req.RoleID)
		}
		return nil, fmt.Errorf("%w: loading role: %v", model.ErrPersistence, err)
	}

	if !allowRetake {
		hasResult, err := s.resultRepo.ExistsForProfile(profile.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: checking prior results: %v", model.ErrPersistence, err)
		}
		if hasResult {
			return nil, fmt.Errorf("%w: candidate already has a completed assessment and retakes are disabled", model.ErrConflict)
		}
	}

	now := time.Now()

	// At most one non-completed attempt exists per (candidate, role); start
	// mutates it instead of creating a duplicate.
	existing, err := s.attemptRepo.FindActiveByProfileAndRole(profile.ID, role.ID)
	if err == nil {
		existing.TotalQuestions = req.TotalQuestions
		existing.LastActivityAt = now
		if existing.Status == model.AttemptNotStarted {
			if trErr := existing.Transition(model.EventStart); trErr != nil {
				return nil, trErr
			}
		}
		if updErr := s.attemptRepo.Update(existing); updErr != nil {
			return nil, fmt.Errorf("%w: updating active attempt: %v", model.ErrPersistence, updErr)
		}
		log.Info().Uint("attemptID", existing.ID).Uint("profileID", profile.ID).Uint("roleID", role.ID).Msg("StartAttempt: reusing active attempt")
		resp := attemptToDTO(existing)
		return &resp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: looking up active attempt: %v", model.ErrPersistence, err)
	}

	attempt := &model.AssessmentAttempt{
		ProfileID:      profile.ID,
		RoleID:         role.ID,
		Status:         model.AttemptInProgress,
		AIStatus:       model.AIStatusIdle,
		TotalQuestions: req.TotalQuestions,
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, fmt.Errorf("%w: creating attempt: %v", model.ErrPersistence, err)
	}
	log.Info().Uint("attemptID", attempt.ID).Uint("profileID", profile.ID).Uint("roleID", role.ID).Msg("StartAttempt: created new attempt")
	resp := attemptToDTO(attempt)
	return &resp, nil
}

func (s *attemptService) SubmitAttempt(attemptID uint, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attempt %d", model.ErrNotFound, attemptID)
		}
		return nil, fmt.Errorf("%w: loading attempt: %v", model.ErrPersistence, err)
	}

	if err := attempt.Transition(model.EventSubmit); err != nil {
		return nil, err
	}

	now := time.Now()
	attempt.SubmittedAt = &now
	attempt.LastActivityAt = now
	attempt.AIStatus = model.AIStatusProcessing
	attempt.AIError = nil
	applyAttemptMeta(attempt, req.DurationSeconds, req.ViolationCount, req.ViolationEvents)

	if count, cntErr := s.answerRepo.CountByAttempt(attempt.ID); cntErr == nil {
		attempt.AnsweredCount = int(count)
	}

	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("%w: submitting attempt: %v", model.ErrPersistence, err)
	}
	log.Info().Uint("attemptID", attempt.ID).Int("answeredCount", attempt.AnsweredCount).Msg("SubmitAttempt: attempt is awaiting analysis")
	resp := attemptToDTO(attempt)
	return &resp, nil
}

func (s *attemptService) RecordAnswer(attemptID uint, req dto.RecordAnswerRequest) (*dto.RecordAnswerResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attempt %d", model.ErrNotFound, attemptID)
		}
		return nil, fmt.Errorf("%w: loading attempt: %v", model.ErrPersistence, err)
	}

	answer := &model.Answer{
		AttemptID:        attempt.ID,
		QuestionID:       req.QuestionID,
		AnswerText:       req.AnswerText,
		SelectedOptionID: req.SelectedOptionID,
	}
	if req.ExistingAnswerID != nil {
		answer.ID = *req.ExistingAnswerID
	} else if prior, findErr := s.answerRepo.FindByAttemptAndQuestion(attempt.ID, req.QuestionID); findErr == nil {
		// the caller did not know the prior row yet; reuse it so the
		// one-answer-per-question invariant holds
		answer.ID = prior.ID
	}

	if err := s.answerRepo.Upsert(answer); err != nil {
		return nil, fmt.Errorf("%w: saving answer: %v", model.ErrPersistence, err)
	}

	if count, cntErr := s.answerRepo.CountByAttempt(attempt.ID); cntErr == nil {
		attempt.AnsweredCount = int(count)
	}
	attempt.LastActivityAt = time.Now()
	if attempt.Status == model.AttemptNotStarted {
		if trErr := attempt.Transition(model.EventStart); trErr != nil {
			return nil, trErr
		}
	}
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("%w: updating attempt progress: %v", model.ErrPersistence, err)
	}

	return &dto.RecordAnswerResponse{
		AnswerID:        answer.ID,
		AnsweredCount:   attempt.AnsweredCount,
		ProgressPercent: attempt.ProgressPercent(),
	}, nil
}

// applyAttemptMeta folds optional client-side timing and violation metadata
// into the attempt, deriving duration and per-question average when absent.
func applyAttemptMeta(attempt *model.AssessmentAttempt, durationSeconds *int, violationCount *int, events []dto.ViolationEventPayload) {
	if durationSeconds != nil {
		attempt.DurationSeconds = durationSeconds
	} else if attempt.SubmittedAt != nil {
		derived := int(attempt.SubmittedAt.Sub(attempt.StartedAt).Seconds())
		if derived >= 0 {
			attempt.DurationSeconds = &derived
		}
	}
	if attempt.DurationSeconds != nil && attempt.TotalQuestions > 0 {
		avg := math.Round(float64(*attempt.DurationSeconds)/float64(attempt.TotalQuestions)*100) / 100
		attempt.AvgSecondsPerQuestion = &avg
	}
	if violationCount != nil {
		attempt.ViolationCount = *violationCount
	}
	for _, ev := range events {
		attempt.ViolationEvents = append(attempt.ViolationEvents, model.ViolationEvent{
			Type:       ev.Type,
			QuestionID: ev.QuestionID,
			Timestamp:  ev.Timestamp,
			Metadata:   ev.Metadata,
		})
	}
	if violationCount == nil && len(events) > 0 {
		attempt.ViolationCount = len(attempt.ViolationEvents)
	}
}
