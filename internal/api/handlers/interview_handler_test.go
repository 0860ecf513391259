package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/services"
)

type stubInterviewService struct {
	lastAnswer string
	conclude   bool
	result     *services.TurnResult
}

func (s *stubInterviewService) Create(_ context.Context, _, _, _, _, _ string) (*models.Interview, error) {
	return nil, nil
}

func (s *stubInterviewService) OpeningTranscript(_ context.Context, _, _ string) ([]models.Turn, error) {
	return nil, nil
}

func (s *stubInterviewService) AdvanceTurn(_ context.Context, _, _, lastAnswer string, conclude bool) (*services.TurnResult, error) {
	s.lastAnswer = lastAnswer
	s.conclude = conclude
	return s.result, nil
}

func (s *stubInterviewService) ListByUser(_ context.Context, _ string) ([]services.InterviewSummary, error) {
	return nil, nil
}

func newNextRouter(svc services.InterviewService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user-1") })
	h := NewInterviewHandler(svc, nil)
	r.POST("/interview/:interview_id/next", h.Next)
	return r
}

func TestNextAcceptsEmptyBody(t *testing.T) {
	svc := &stubInterviewService{result: &services.TurnResult{Text: "Next question?"}}
	r := newNextRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/interview/iv-1/next", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.lastAnswer != "" || svc.conclude {
		t.Fatalf("empty body should advance with defaults, got answer=%q conclude=%v", svc.lastAnswer, svc.conclude)
	}
}

func TestNextBindsAnswerAndConclude(t *testing.T) {
	svc := &stubInterviewService{result: &services.TurnResult{Text: "ok", IsEnd: true}}
	r := newNextRouter(svc)

	body := strings.NewReader(`{"last_answer": "my answer", "conclude": true}`)
	req := httptest.NewRequest(http.MethodPost, "/interview/iv-1/next", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.lastAnswer != "my answer" || !svc.conclude {
		t.Fatalf("fields not bound: answer=%q conclude=%v", svc.lastAnswer, svc.conclude)
	}
}

func TestNextRejectsMalformedBody(t *testing.T) {
	svc := &stubInterviewService{result: &services.TurnResult{}}
	r := newNextRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/interview/iv-1/next", strings.NewReader(`{"last_answer":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
