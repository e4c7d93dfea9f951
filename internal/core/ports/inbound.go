package ports

import (
	"context"
	"io"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

// DocumentUploader is the inbound contract for document registration.
type DocumentUploader interface {
	Upload(ctx context.Context, actor domain.Actor, fileName string, sizeBytes int64, body io.Reader) (*domain.Document, error)
}

// DocumentAnalyzer runs (or re-runs) an analysis against a document.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, actor domain.Actor, documentID, query string) (*domain.AnalysisResult, error)
}

// DocumentDeleter fans out a bulk delete and settles all outcomes.
type DocumentDeleter interface {
	Delete(ctx context.Context, actor domain.Actor, documentIDs []string) (*domain.BulkDeleteReport, error)
}

// DocumentViews is the inbound read model: pure reads, no side effects
// besides resetting the in-memory selection on list refetch.
type DocumentViews interface {
	ListForOwner(ctx context.Context, actor domain.Actor, ownerID string) ([]domain.Document, error)
	GetDocument(ctx context.Context, actor domain.Actor, documentID string) (*domain.Document, error)
	ResultsForDocument(ctx context.Context, actor domain.Actor, documentID string) ([]domain.AnalysisResult, error)
	AggregateForDocument(ctx context.Context, actor domain.Actor, documentID string) (*domain.AggregatedView, error)
	AggregateForOwner(ctx context.Context, actor domain.Actor, ownerID string) (*domain.AggregatedView, error)
	StatsForOwner(ctx context.Context, actor domain.Actor, ownerID string) (*domain.OwnerStats, error)
}

// SelectionTracker keeps UI-facing bulk-operation selection state.
type SelectionTracker interface {
	Toggle(ownerID, documentID string) bool
	SelectAll(ownerID string, documentIDs []string)
	Clear(ownerID string)
	Selected(ownerID string) []string
	Reset(ownerID string)
}
