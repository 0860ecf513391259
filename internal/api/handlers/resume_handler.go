package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prepmate/prepmate/internal/services"
	"github.com/prepmate/prepmate/internal/utils"
)

const maxResumeBytes = 10 << 20

type ResumeHandler struct {
	svc services.ResumeFileService
}

func NewResumeHandler(svc services.ResumeFileService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "missing multipart field 'file'", err))
		return
	}

	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > maxResumeBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ResumeHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ResumeHandler.Upload", "failed to read upload", err))
		return
	}
	if len(data) > maxResumeBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "file too large (max 10MB)", nil))
		return
	}

	if ct := http.DetectContentType(data); ct != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "invalid content type (must be pdf)", nil))
		return
	}

	out, err := h.svc.Upload(c.Request.Context(), userID, fh.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *ResumeHandler) Latest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.Latest(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
