package ports

import (
	"context"
	"io"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, progress int, errMessage string) error
	SetProcessingDuration(ctx context.Context, id string, durationSec int) error
	AppendAnalysisID(ctx context.Context, id string, analysisID string) error
	Delete(ctx context.Context, id string) error
}

// AnalysisRepository persists immutable analysis results.
type AnalysisRepository interface {
	Create(ctx context.Context, result *domain.AnalysisResult) error
	GetByID(ctx context.Context, id string) (*domain.AnalysisResult, error)
	ListByDocument(ctx context.Context, documentID string) ([]domain.AnalysisResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.AnalysisResult, error)
	DeleteByDocument(ctx context.Context, documentID string) (int, error)
}

// ObjectStorage stores source document bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue dispatches/consumes analysis jobs.
type MessageQueue interface {
	PublishAnalysisRequested(ctx context.Context, job domain.AnalysisJob) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, domain.AnalysisJob) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// AnalysisEngine runs one analysis over extracted document text.
// Treated as an opaque, slow, potentially failing remote call.
type AnalysisEngine interface {
	Analyze(ctx context.Context, text, query string) (domain.EngineReport, error)
}
