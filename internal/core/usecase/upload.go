package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
)

type UploadConfig struct {
	MaxFileSizeMB  int
	AllowedFormats []string
	DefaultQuery   string
}

type UploadDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	cfg     UploadConfig
	allowed map[string]struct{}
}

func NewUploadDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	cfg UploadConfig,
) *UploadDocumentUseCase {
	allowed := make(map[string]struct{}, len(cfg.AllowedFormats))
	for _, format := range cfg.AllowedFormats {
		allowed[strings.ToLower(strings.TrimPrefix(format, "."))] = struct{}{}
	}
	return &UploadDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		cfg:     cfg,
		allowed: allowed,
	}
}

// Upload validates the file before any collaborator is touched, stores the
// bytes, registers the document in `uploading` state and dispatches the
// initial analysis job. At-most-once: no implicit retry on failure.
func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	actor domain.Actor,
	fileName string,
	sizeBytes int64,
	body io.Reader,
) (*domain.Document, error) {
	if actor.UserID == "" {
		return nil, domain.WrapError(domain.ErrUnauthorized, "upload document", fmt.Errorf("missing caller identity"))
	}

	format := fileFormat(fileName)
	if _, ok := uc.allowed[format]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("invalid file type %q", filepath.Ext(fileName)))
	}

	maxBytes := int64(uc.cfg.MaxFileSizeMB) * 1024 * 1024
	if sizeBytes > maxBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("file exceeds %dMB limit", uc.cfg.MaxFileSizeMB))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(fileName))
	now := time.Now().UTC()

	hasher := sha256.New()
	written, err := uc.storage.Save(ctx, storageKey, io.TeeReader(body, hasher))
	if err != nil {
		return nil, domain.WrapError(domain.ErrStore, "save document bytes", err)
	}
	if written > maxBytes {
		// Declared size lied; undo the write and reject.
		_ = uc.storage.Delete(ctx, storageKey)
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("file exceeds %dMB limit", uc.cfg.MaxFileSizeMB))
	}

	doc := &domain.Document{
		ID:          id,
		OwnerID:     actor.UserID,
		FileName:    fileName,
		FileFormat:  format,
		SizeBytes:   written,
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
		StoragePath: storageKey,
		Status:      domain.StatusUploading,
		AnalysisIDs: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		_ = uc.storage.Delete(ctx, storageKey)
		return nil, domain.WrapError(domain.ErrStore, "create document metadata", err)
	}

	job := domain.AnalysisJob{
		DocumentID:  doc.ID,
		OwnerID:     doc.OwnerID,
		Query:       uc.cfg.DefaultQuery,
		RequestedAt: now,
	}
	if err := uc.queue.PublishAnalysisRequested(ctx, job); err != nil {
		// The document stays in `uploading`; an explicit analyze command
		// can still move it forward.
		slog.Warn("publish analysis job failed", "document_id", doc.ID, "error", err)
	}

	return doc, nil
}

func fileFormat(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
