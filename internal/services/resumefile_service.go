package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/prepmate/prepmate/internal/models"
	pgrepo "github.com/prepmate/prepmate/internal/repositories/postgres"
	"github.com/prepmate/prepmate/internal/storage"
	"github.com/prepmate/prepmate/internal/utils"
)

type ResumeUpload struct {
	File *models.ResumeFile `json:"file"`
	Text string             `json:"resume_text"`
}

type ResumeDownload struct {
	File *models.ResumeFile `json:"file"`
	URL  string             `json:"download_url"`
}

type ResumeFileService interface {
	// Upload extracts plain text from a resume PDF, stores the raw file,
	// and records its metadata. The extracted text is returned so the
	// client can pass it into interview creation.
	Upload(ctx context.Context, userID, fileName string, data []byte) (*ResumeUpload, error)
	// Latest returns the user's most recent resume with a short-lived
	// signed URL for the stored object.
	Latest(ctx context.Context, userID string) (*ResumeDownload, error)
}

// ResumeStore is the object-storage surface the service needs. GCS
// satisfies it; tests use an in-memory stand-in.
type ResumeStore interface {
	storage.Uploader
	storage.Signer
}

const resumeDownloadTTL = 15 * time.Minute

type resumeFileService struct {
	repo  pgrepo.ResumeFileRepository
	store ResumeStore
}

func NewResumeFileService(repo pgrepo.ResumeFileRepository, store ResumeStore) ResumeFileService {
	return &resumeFileService{repo: repo, store: store}
}

func (s *resumeFileService) Upload(ctx context.Context, userID, fileName string, data []byte) (*ResumeUpload, error) {
	const op = "ResumeFileService.Upload"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing user identity", nil)
	}
	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "empty file", nil)
	}

	text, err := extractPDFText(data)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "could not extract text from pdf", err)
	}

	objectName := "resumes/" + userID + "/" + uuid.NewString() + ".pdf"
	storedPath, err := s.store.Upload(ctx, objectName, "application/pdf", bytes.NewReader(data))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store resume file", err)
	}

	row := &models.ResumeFile{
		ID:        uuid.NewString(),
		UserID:    userID,
		FileName:  fileName,
		FilePath:  storedPath,
		FileSize:  len(data),
		TextChars: len(text),
		MimeType:  "application/pdf",
		UploadAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}

	return &ResumeUpload{File: row, Text: text}, nil
}

func (s *resumeFileService) Latest(ctx context.Context, userID string) (*ResumeDownload, error) {
	const op = "ResumeFileService.Latest"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing user identity", nil)
	}

	row, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no resume on file", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to look up resume", err)
	}

	url, err := s.store.SignedGetURL(ctx, row.FilePath, resumeDownloadTTL)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}

	return &ResumeDownload{File: row, URL: url}, nil
}

// extractPDFText pulls plain text out of every readable page. A file that
// yields no text is rejected; a resume the planner cannot read is useless
// for resume questions.
func extractPDFText(data []byte) (_ string, err error) {
	// The pdf package panics on some malformed files instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := normalizeResumeText(b.String())
	if text == "" {
		return "", errNoResumeText
	}
	return text, nil
}

var errNoResumeText = errors.New("no extractable text found in pdf")

func normalizeResumeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	empty := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			empty++
			if empty > 1 {
				continue
			}
			b.WriteString("\n")
			continue
		}
		empty = 0
		b.WriteString(trimmed)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
