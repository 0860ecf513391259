package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/utils"
)

type memResumeRepo struct {
	rows []*models.ResumeFile
}

func (r *memResumeRepo) Insert(_ context.Context, f *models.ResumeFile) error {
	r.rows = append(r.rows, f)
	return nil
}

func (r *memResumeRepo) LatestByUser(_ context.Context, userID string) (*models.ResumeFile, error) {
	var latest *models.ResumeFile
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if latest == nil || row.UploadAt.After(latest.UploadAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, utils.ErrNotFound
	}
	return latest, nil
}

type memStore struct {
	objects map[string][]byte
	signErr error
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[objectName] = data
	return objectName, nil
}

func (s *memStore) SignedGetURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.example.com/" + objectName + "?sig=test", nil
}

func TestUploadRejectsMissingIdentity(t *testing.T) {
	svc := NewResumeFileService(&memResumeRepo{}, newMemStore())

	_, err := svc.Upload(context.Background(), "", "cv.pdf", []byte("%PDF-1.4"))
	if !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := NewResumeFileService(&memResumeRepo{}, newMemStore())

	_, err := svc.Upload(context.Background(), "user-1", "cv.pdf", nil)
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestUploadRejectsUnreadablePDF(t *testing.T) {
	repo := &memResumeRepo{}
	store := newMemStore()
	svc := NewResumeFileService(repo, store)

	_, err := svc.Upload(context.Background(), "user-1", "cv.pdf", []byte("not a pdf at all"))
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if len(repo.rows) != 0 || len(store.objects) != 0 {
		t.Fatalf("rejected upload must not leave metadata or objects behind")
	}
}

func TestLatestReturnsSignedURL(t *testing.T) {
	repo := &memResumeRepo{rows: []*models.ResumeFile{
		{ID: "old", UserID: "user-1", FilePath: "resumes/user-1/old.pdf", UploadAt: time.Now().Add(-time.Hour)},
		{ID: "new", UserID: "user-1", FilePath: "resumes/user-1/new.pdf", UploadAt: time.Now()},
		{ID: "other", UserID: "user-2", FilePath: "resumes/user-2/x.pdf", UploadAt: time.Now()},
	}}
	svc := NewResumeFileService(repo, newMemStore())

	out, err := svc.Latest(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.File.ID != "new" {
		t.Fatalf("expected the newest row, got %q", out.File.ID)
	}
	if !strings.Contains(out.URL, "resumes/user-1/new.pdf") {
		t.Fatalf("signed url does not reference the stored object: %q", out.URL)
	}
}

func TestLatestNoResumeOnFile(t *testing.T) {
	svc := NewResumeFileService(&memResumeRepo{}, newMemStore())

	_, err := svc.Latest(context.Background(), "user-1")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestNormalizeResumeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims edge whitespace", "  hello  \n", "hello"},
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"normalizes crlf", "a\r\nb\rc", "a\nb\nc"},
		{"trims each line", "  a  \n  b  ", "a\nb"},
		{"empty input", "   \n\n  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeResumeText(tc.in); got != tc.want {
				t.Fatalf("normalizeResumeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
