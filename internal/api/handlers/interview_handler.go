package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepmate/prepmate/internal/services"
	"github.com/prepmate/prepmate/internal/utils"
)

type InterviewHandler struct {
	interviews services.InterviewService
	feedback   services.FeedbackService
}

func NewInterviewHandler(interviews services.InterviewService, feedback services.FeedbackService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, feedback: feedback}
}

type StartInterviewRequest struct {
	JobRole    string `json:"job_role" binding:"required"`
	Skills     string `json:"skills" binding:"required"`
	Experience string `json:"experience" binding:"required"`
	ResumeText string `json:"resume_text"`
}

type StartInterviewResponse struct {
	InterviewID   string `json:"interview_id"`
	FirstQuestion string `json:"first_question"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}

	iv, err := h.interviews.Create(c.Request.Context(), userID, req.JobRole, req.Skills, req.Experience, req.ResumeText)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StartInterviewResponse{
		InterviewID:   iv.InterviewID,
		FirstQuestion: iv.Transcript[0].Text,
	})
}

func (h *InterviewHandler) Transcript(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	transcript, err := h.interviews.OpeningTranscript(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

type NextTurnRequest struct {
	LastAnswer string `json:"last_answer"`
	Conclude   bool   `json:"conclude"`
}

func (h *InterviewHandler) Next(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	// Both fields are optional, so a missing body means the same as {}.
	var req NextTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Next", "invalid request body", err))
		return
	}

	res, err := h.interviews.AdvanceTurn(c.Request.Context(), userID, c.Param("interview_id"), req.LastAnswer, req.Conclude)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) Feedback(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ev, err := h.feedback.Synthesize(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": ev})
}

func (h *InterviewHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.interviews.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
