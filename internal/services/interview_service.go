package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prepmate/prepmate/internal/cache"
	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/providers/llm"
	mongorepo "github.com/prepmate/prepmate/internal/repositories/mongo"
	"github.com/prepmate/prepmate/internal/utils"
)

const historyCacheTTL = 30 * time.Second

// TurnResult is what the turn controller reports back to the caller after
// each invocation.
type TurnResult struct {
	Text             string `json:"ai_text"`
	IsCodingQuestion bool   `json:"is_coding_question"`
	IsEnd            bool   `json:"is_end"`
}

type InterviewSummary struct {
	InterviewID    string    `json:"interview_id"`
	JobRole        string    `json:"job_role"`
	Skills         string    `json:"skills"`
	Experience     string    `json:"experience"`
	QuestionsAsked int       `json:"questions_asked"`
	HasFeedback    bool      `json:"has_feedback"`
	CreatedAt      time.Time `json:"created_at"`
}

type InterviewService interface {
	Create(ctx context.Context, userID, jobRole, skills, experience, resumeText string) (*models.Interview, error)
	OpeningTranscript(ctx context.Context, userID, interviewID string) ([]models.Turn, error)
	AdvanceTurn(ctx context.Context, userID, interviewID, lastAnswer string, conclude bool) (*TurnResult, error)
	ListByUser(ctx context.Context, userID string) ([]InterviewSummary, error)
}

type interviewService struct {
	interviews mongorepo.InterviewRepository
	generator  llm.Provider
	cache      cache.Cache
	log        *logrus.Logger

	// randInt behaves like rand.Intn; swapped in tests.
	randInt func(n int) int
}

func NewInterviewService(interviews mongorepo.InterviewRepository, generator llm.Provider, c cache.Cache, log *logrus.Logger) InterviewService {
	return &interviewService{
		interviews: interviews,
		generator:  generator,
		cache:      c,
		log:        log,
		randInt:    rand.Intn,
	}
}

// Create starts a new interview: it asks the generator for one opening
// question built from the role, skills, experience, and resume, and
// persists the aggregate with that question as the single first AI turn.
// Generation failure degrades to a fixed greeting; the interview always
// ends up with a valid first turn.
func (s *interviewService) Create(ctx context.Context, userID, jobRole, skills, experience, resumeText string) (*models.Interview, error) {
	const op = "InterviewService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing user identity", nil)
	}
	if jobRole == "" || skills == "" || experience == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_role, skills, and experience are required", nil)
	}

	now := time.Now().UTC()
	opening := fallbackOpening
	out, err := s.generator.Generate(ctx, llm.Request{
		Prompt:    openingPrompt(jobRole, skills, experience, resumeText),
		MaxTokens: maxQuestionTokens,
	})
	if err != nil {
		s.log.WithError(err).WithField("op", op).Warn("opening question generation failed, using fallback")
	} else if clean := sanitizeGenerated(out); clean != "" {
		opening = clean
	}

	iv := &models.Interview{
		InterviewID: uuid.NewString(),
		UserID:      userID,
		JobRole:     jobRole,
		Skills:      skills,
		Experience:  experience,
		ResumeText:  resumeText,
		Transcript: []models.Turn{
			{Speaker: models.SpeakerAI, Text: opening, Timestamp: now},
		},
		CodingPlan: []int{},
		ResumePlan: []int{},
		CreatedAt:  now,
	}

	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}

	if err := s.cache.Del(ctx, historyCacheKey(userID)); err != nil {
		s.log.WithError(err).Debug("history cache invalidation failed")
	}

	return iv, nil
}

// OpeningTranscript returns the conversation so far. An empty transcript
// is defensively re-seeded with a welcome turn so the client always has
// something to render.
func (s *interviewService) OpeningTranscript(ctx context.Context, userID, interviewID string) ([]models.Turn, error) {
	const op = "InterviewService.OpeningTranscript"

	iv, err := s.authorize(ctx, op, userID, interviewID)
	if err != nil {
		return nil, err
	}

	if len(iv.Transcript) == 0 {
		welcome := models.Turn{
			Speaker: models.SpeakerAI,
			Text: fmt.Sprintf("Hello! Welcome to your mock interview for the position of %s.\nLet's get started. Here's your first question:\n\n%s",
				iv.JobRole, defaultFirstQuestion),
			Timestamp: time.Now().UTC(),
		}
		if err := s.interviews.AppendTurns(ctx, interviewID, welcome); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to seed transcript", err)
		}
		iv.Transcript = []models.Turn{welcome}
	}

	return iv.Transcript, nil
}

// AdvanceTurn is the turn controller. It appends the candidate's answer,
// decides between terminating and asking the next question, classifies
// the next slot against the question plan, obtains generated text for the
// matching category, and appends the sanitized result as the next AI turn.
// The pending user turn and the AI turn are persisted in one append.
func (s *interviewService) AdvanceTurn(ctx context.Context, userID, interviewID, lastAnswer string, conclude bool) (*TurnResult, error) {
	const op = "InterviewService.AdvanceTurn"

	iv, err := s.authorize(ctx, op, userID, interviewID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transcript := iv.Transcript
	var pending []models.Turn

	if answer := strings.TrimSpace(lastAnswer); answer != "" {
		userTurn := models.Turn{Speaker: models.SpeakerUser, Text: answer, Timestamp: now}
		pending = append(pending, userTurn)
		transcript = append(transcript, userTurn)
	}

	asked := countQuestions(transcript)

	if iv.PlanMissing() {
		if err := s.ensurePlan(ctx, iv); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to plan questions", err)
		}
	}

	// Terminal path: no generation call is made here.
	if conclude || asked >= totalQuestions {
		pending = append(pending, models.Turn{Speaker: models.SpeakerAI, Text: closingText, Timestamp: now})
		if err := s.interviews.AppendTurns(ctx, interviewID, pending...); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to persist closing turn", err)
		}
		return &TurnResult{Text: closingText, IsCodingQuestion: false, IsEnd: true}, nil
	}

	nextSlot := asked + 1
	isCoding := containsSlot(iv.CodingPlan, nextSlot)
	isResume := containsSlot(iv.ResumePlan, nextSlot) && iv.HasResume()

	recent := recentContext(transcript)
	var prompt string
	if isResume {
		prompt = resumeQuestionPrompt(iv.ResumeText, recent)
	} else {
		prompt = technicalQuestionPrompt(iv.JobRole, iv.ResumeText, recent, isCoding)
	}

	text := fallbackQuestion
	out, err := s.generator.Generate(ctx, llm.Request{Prompt: prompt, MaxTokens: maxQuestionTokens})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":           op,
			"interview_id": interviewID,
			"slot":         nextSlot,
		}).Warn("question generation failed, using fallback")
	} else if clean := sanitizeGenerated(out); clean != "" {
		text = clean
	}

	pending = append(pending, models.Turn{Speaker: models.SpeakerAI, Text: text, Timestamp: now})
	if err := s.interviews.AppendTurns(ctx, interviewID, pending...); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist turn", err)
	}

	return &TurnResult{Text: text, IsCodingQuestion: isCoding, IsEnd: false}, nil
}

func (s *interviewService) ListByUser(ctx context.Context, userID string) ([]InterviewSummary, error) {
	const op = "InterviewService.ListByUser"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing user identity", nil)
	}

	key := historyCacheKey(userID)
	var cached []InterviewSummary
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := s.interviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}

	out := make([]InterviewSummary, 0, len(rows))
	for i := range rows {
		iv := &rows[i]
		out = append(out, InterviewSummary{
			InterviewID:    iv.InterviewID,
			JobRole:        iv.JobRole,
			Skills:         iv.Skills,
			Experience:     iv.Experience,
			QuestionsAsked: countQuestions(iv.Transcript),
			HasFeedback:    iv.Feedback != nil,
			CreatedAt:      iv.CreatedAt,
		})
	}

	if err := s.cache.SetJSON(ctx, key, out, historyCacheTTL); err != nil {
		s.log.WithError(err).Debug("history cache write failed")
	}
	return out, nil
}

// ensurePlan computes and persists the question plan through a conditional
// write. Losing the write race means another turn planned first; the
// winner's plan is re-read so both requests observe the same sets.
func (s *interviewService) ensurePlan(ctx context.Context, iv *models.Interview) error {
	plan := newQuestionPlan(s.randInt, iv.HasResume())

	won, err := s.interviews.SetPlanIfEmpty(ctx, iv.InterviewID, plan.Coding, plan.Resume)
	if err != nil {
		return err
	}
	if won {
		iv.CodingPlan = plan.Coding
		iv.ResumePlan = plan.Resume
		return nil
	}

	stored, err := s.interviews.GetByInterviewID(ctx, iv.InterviewID)
	if err != nil {
		return err
	}
	iv.CodingPlan = stored.CodingPlan
	iv.ResumePlan = stored.ResumePlan
	return nil
}

func (s *interviewService) authorize(ctx context.Context, op, userID, interviewID string) (*models.Interview, error) {
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
	return iv, nil
}

// countQuestions is the number of AI turns that are real questions, i.e.
// everything the AI said except the closing statement.
func countQuestions(turns []models.Turn) int {
	n := 0
	for _, t := range turns {
		if t.Speaker == models.SpeakerAI && !strings.Contains(t.Text, closingPhrase) {
			n++
		}
	}
	return n
}

func historyCacheKey(userID string) string { return "interviews:history:" + userID }
