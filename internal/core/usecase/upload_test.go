package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

type uploadRepoFake struct {
	created *domain.Document
	err     error
}

func (f *uploadRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *uploadRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}
func (f *uploadRepoFake) ListByOwner(context.Context, string) ([]domain.Document, error) {
	return nil, errors.New("not implemented")
}
func (f *uploadRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, int, string) error {
	return errors.New("not implemented")
}
func (f *uploadRepoFake) SetProcessingDuration(context.Context, string, int) error {
	return errors.New("not implemented")
}
func (f *uploadRepoFake) AppendAnalysisID(context.Context, string, string) error {
	return errors.New("not implemented")
}
func (f *uploadRepoFake) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

type uploadStorageFake struct {
	savedKey   string
	savedBody  string
	deletedKey string
	err        error
}

func (f *uploadStorageFake) Save(_ context.Context, key string, data io.Reader) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return int64(len(raw)), nil
}

func (f *uploadStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *uploadStorageFake) Delete(_ context.Context, key string) error {
	f.deletedKey = key
	return nil
}

type uploadQueueFake struct {
	job *domain.AnalysisJob
	err error
}

func (f *uploadQueueFake) PublishAnalysisRequested(_ context.Context, job domain.AnalysisJob) error {
	if f.err != nil {
		return f.err
	}
	f.job = &job
	return nil
}

func (f *uploadQueueFake) SubscribeAnalysisRequested(context.Context, func(context.Context, domain.AnalysisJob) error) error {
	return errors.New("not implemented")
}

func newUploadUC(repo *uploadRepoFake, storage *uploadStorageFake, queue *uploadQueueFake) *UploadDocumentUseCase {
	return NewUploadDocumentUseCase(repo, storage, queue, UploadConfig{
		MaxFileSizeMB:  1,
		AllowedFormats: []string{"pdf", "txt", "csv"},
		DefaultQuery:   "analyze this document",
	})
}

func TestUploadSuccess(t *testing.T) {
	repo := &uploadRepoFake{}
	storage := &uploadStorageFake{}
	queue := &uploadQueueFake{}
	uc := newUploadUC(repo, storage, queue)

	actor := domain.Actor{UserID: "user-1", Role: domain.RoleViewer}
	doc, err := uc.Upload(context.Background(), actor, "q3 report.txt", 5, bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Status != domain.StatusUploading {
		t.Fatalf("expected status uploading, got %s", doc.Status)
	}
	if doc.OwnerID != "user-1" {
		t.Fatalf("expected owner user-1, got %s", doc.OwnerID)
	}
	if doc.SizeBytes != 5 {
		t.Fatalf("expected 5 stored bytes, got %d", doc.SizeBytes)
	}
	if doc.Checksum == "" {
		t.Fatalf("expected checksum")
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if !strings.HasSuffix(storage.savedKey, "_q3_report.txt") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "hello" {
		t.Fatalf("expected saved body hello, got %s", storage.savedBody)
	}
	if queue.job == nil {
		t.Fatalf("expected published analysis job")
	}
	if queue.job.DocumentID != doc.ID {
		t.Fatalf("expected queued doc id %s, got %s", doc.ID, queue.job.DocumentID)
	}
	if queue.job.Query != "analyze this document" {
		t.Fatalf("expected default query in job, got %q", queue.job.Query)
	}
}

func TestUploadRejectsUnknownFormat(t *testing.T) {
	uc := newUploadUC(&uploadRepoFake{}, &uploadStorageFake{}, &uploadQueueFake{})

	actor := domain.Actor{UserID: "user-1"}
	_, err := uc.Upload(context.Background(), actor, "report.exe", 5, bytes.NewBufferString("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestUploadRejectsDeclaredOversize(t *testing.T) {
	storage := &uploadStorageFake{}
	uc := newUploadUC(&uploadRepoFake{}, storage, &uploadQueueFake{})

	actor := domain.Actor{UserID: "user-1"}
	_, err := uc.Upload(context.Background(), actor, "report.txt", 2*1024*1024, bytes.NewBufferString("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if storage.savedKey != "" {
		t.Fatalf("expected no storage write for oversize file")
	}
}

func TestUploadRejectsActualOversize(t *testing.T) {
	storage := &uploadStorageFake{}
	uc := newUploadUC(&uploadRepoFake{}, storage, &uploadQueueFake{})

	body := bytes.NewBuffer(make([]byte, 1024*1024+1))
	actor := domain.Actor{UserID: "user-1"}
	_, err := uc.Upload(context.Background(), actor, "report.txt", 10, body)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if storage.deletedKey != storage.savedKey {
		t.Fatalf("expected stored bytes removed, saved %q deleted %q", storage.savedKey, storage.deletedKey)
	}
}

func TestUploadRequiresIdentity(t *testing.T) {
	uc := newUploadUC(&uploadRepoFake{}, &uploadStorageFake{}, &uploadQueueFake{})

	_, err := uc.Upload(context.Background(), domain.Actor{}, "report.txt", 5, bytes.NewBufferString("x"))
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestUploadRepoErrorRemovesStoredBytes(t *testing.T) {
	repo := &uploadRepoFake{err: errors.New("db down")}
	storage := &uploadStorageFake{}
	uc := newUploadUC(repo, storage, &uploadQueueFake{})

	actor := domain.Actor{UserID: "user-1"}
	_, err := uc.Upload(context.Background(), actor, "report.txt", 5, bytes.NewBufferString("hello"))
	if !domain.IsKind(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if storage.deletedKey != storage.savedKey {
		t.Fatalf("expected stored bytes removed after repo failure")
	}
}

func TestUploadPublishFailureIsNonFatal(t *testing.T) {
	repo := &uploadRepoFake{}
	queue := &uploadQueueFake{err: errors.New("queue down")}
	uc := newUploadUC(repo, &uploadStorageFake{}, queue)

	actor := domain.Actor{UserID: "user-1"}
	doc, err := uc.Upload(context.Background(), actor, "report.txt", 5, bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != domain.StatusUploading {
		t.Fatalf("expected document kept in uploading, got %s", doc.Status)
	}
}
