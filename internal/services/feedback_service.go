package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prepmate/prepmate/internal/cache"
	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/providers/llm"
	mongorepo "github.com/prepmate/prepmate/internal/repositories/mongo"
	"github.com/prepmate/prepmate/internal/utils"
)

const feedbackCacheTTL = 24 * time.Hour

type FeedbackService interface {
	// Synthesize returns the interview's evaluation, generating and
	// persisting it on first use. Once stored, repeated calls return the
	// cached record without another generation call.
	Synthesize(ctx context.Context, userID, interviewID string) (*models.Evaluation, error)
}

type feedbackService struct {
	interviews mongorepo.InterviewRepository
	generator  llm.Provider
	cache      cache.Cache
	log        *logrus.Logger
}

func NewFeedbackService(interviews mongorepo.InterviewRepository, generator llm.Provider, c cache.Cache, log *logrus.Logger) FeedbackService {
	return &feedbackService{interviews: interviews, generator: generator, cache: c, log: log}
}

func (s *feedbackService) Synthesize(ctx context.Context, userID, interviewID string) (*models.Evaluation, error) {
	const op = "FeedbackService.Synthesize"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing user identity", nil)
	}
	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}

	iv, err := s.interviews.GetByInterviewID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	if iv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	// The cache is keyed by interview id alone, so it is consulted only
	// after ownership is established.
	key := feedbackCacheKey(interviewID)
	var cached models.Evaluation
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	if iv.Feedback != nil {
		s.cacheEvaluation(ctx, key, iv.Feedback)
		return iv.Feedback, nil
	}

	out, err := s.generator.Generate(ctx, llm.Request{
		Prompt:     evaluationPrompt(iv.JobRole, flattenTurns(iv.Transcript)),
		MaxTokens:  maxEvaluationTokens,
		JSONOutput: true,
	})
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "feedback generation failed", err)
	}

	ev, err := parseEvaluation(out)
	if err != nil {
		// Nothing is persisted on this path, so the caller can retry.
		return nil, utils.E(utils.CodeUnprocessable, op, "malformed evaluation", err)
	}

	won, err := s.interviews.SetFeedbackIfEmpty(ctx, interviewID, ev)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist feedback", err)
	}
	if !won {
		// A concurrent request stored its evaluation first; serve that one.
		stored, err := s.interviews.GetByInterviewID(ctx, interviewID)
		if err == nil && stored.Feedback != nil {
			ev = stored.Feedback
		}
	}

	s.cacheEvaluation(ctx, key, ev)
	return ev, nil
}

func (s *feedbackService) cacheEvaluation(ctx context.Context, key string, ev *models.Evaluation) {
	if err := s.cache.SetJSON(ctx, key, ev, feedbackCacheTTL); err != nil {
		s.log.WithError(err).Debug("feedback cache write failed")
	}
}

// parseEvaluation decodes the structured-output response and rejects
// anything that does not fit the evaluation contract. An unusable
// evaluation must never be silently accepted.
func parseEvaluation(raw string) (*models.Evaluation, error) {
	var ev models.Evaluation
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return nil, err
	}
	for _, score := range []int{ev.TechnicalScore, ev.CommunicationScore, ev.ProblemSolvingScore} {
		if score < 0 || score > 10 {
			return nil, errOutOfRangeScore
		}
	}
	return &ev, nil
}

var errOutOfRangeScore = errors.New("score outside 0..10")

func feedbackCacheKey(interviewID string) string { return "interviews:feedback:" + interviewID }
