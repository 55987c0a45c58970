package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen/internal/model"
	"docgen/internal/repository"
	"docgen/internal/storage"
)

var (
	// ErrInvalidUpload rejects a template upload before any storage
	// mutation: wrong extension or empty payload.
	ErrInvalidUpload = errors.New("invalid template upload")

	// ErrNoTemplate means no slot is configured for the requested document
	// kind. Fully recoverable by uploading a template; distinct from a
	// structural failure.
	ErrNoTemplate = errors.New("no template configured")

	// ErrMalformedTemplate means the stored template's package structure is
	// invalid or it references an unknown field name.
	ErrMalformedTemplate = errors.New("malformed template")

	ErrReaderNil = errors.New("reader is nil")
)

const templateExt = ".docx"

// TemplateService manages the single template slot per document kind.
type TemplateService interface {
	// Upload validates and stores a new template, atomically replacing the
	// previous slot for that kind (last-write-wins, no versioning).
	Upload(ctx context.Context, kind model.DocumentKind, r io.Reader, originalFilename string, size int64) (*model.Template, error)

	// List returns the configured slots (metadata only).
	List(ctx context.Context) ([]model.Template, error)

	// Clear removes the slot for a kind; clearing a vacant slot is a no-op.
	Clear(ctx context.Context, kind model.DocumentKind) error
}

type templateService struct {
	store storage.Storage
	repo  repository.TemplateRepository
}

// NewTemplateService constructs a new TemplateService.
func NewTemplateService(store storage.Storage, repo repository.TemplateRepository) TemplateService {
	return &templateService{store: store, repo: repo}
}

func (s *templateService) Upload(ctx context.Context, kind model.DocumentKind, r io.Reader, originalFilename string, size int64) (*model.Template, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidUpload)
	}
	if ext := strings.ToLower(filepath.Ext(originalFilename)); ext != templateExt {
		return nil, fmt.Errorf("%w: expected %s file, got %q", ErrInvalidUpload, templateExt, ext)
	}

	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("templates", string(kind), id+templateExt))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: model.FormatDocx.ContentType(),
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	tmpl := &model.Template{
		ID:           id,
		DocumentKind: kind,
		Filename:     originalFilename,
		StoragePath:  objInfo.Key,
		Size:         objInfo.Size,
		UploadedAt:   time.Now().UTC(),
	}
	stored, displaced, err := s.repo.Replace(ctx, tmpl)
	if err != nil {
		// Rollback: delete the freshly stored object
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// Best-effort cleanup of the displaced binary; the slot row is already
	// replaced, so a stale object only wastes space.
	if displaced != "" {
		_ = s.store.Delete(ctx, displaced)
	}
	return stored, nil
}

func (s *templateService) List(ctx context.Context) ([]model.Template, error) {
	return s.repo.List(ctx)
}

func (s *templateService) Clear(ctx context.Context, kind model.DocumentKind) error {
	displaced, err := s.repo.DeleteByKind(ctx, kind)
	if err != nil {
		return err
	}
	if displaced == "" {
		return nil
	}
	if err := s.store.Delete(ctx, displaced); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return nil
}
