package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
)

// DocumentViewsUseCase is the single source of truth for every derived
// read model; no view duplicates this computation.
type DocumentViewsUseCase struct {
	docs      ports.DocumentRepository
	results   ports.AnalysisRepository
	selection ports.SelectionTracker
}

func NewDocumentViewsUseCase(
	docs ports.DocumentRepository,
	results ports.AnalysisRepository,
	selection ports.SelectionTracker,
) *DocumentViewsUseCase {
	return &DocumentViewsUseCase{
		docs:      docs,
		results:   results,
		selection: selection,
	}
}

// ListForOwner refetches the owner's documents and therefore resets the
// in-memory selection.
func (uc *DocumentViewsUseCase) ListForOwner(ctx context.Context, actor domain.Actor, ownerID string) ([]domain.Document, error) {
	if err := authorizeOwner(actor, ownerID); err != nil {
		return nil, err
	}
	docs, err := uc.docs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	uc.selection.Reset(ownerID)
	return docs, nil
}

func (uc *DocumentViewsUseCase) GetDocument(ctx context.Context, actor domain.Actor, documentID string) (*domain.Document, error) {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(doc.OwnerID) {
		return nil, domain.WrapError(domain.ErrUnauthorized, "get document",
			fmt.Errorf("caller %s may not read document %s", actor.UserID, documentID))
	}
	return doc, nil
}

// ResultsForDocument returns the document's analysis results newest-first.
func (uc *DocumentViewsUseCase) ResultsForDocument(ctx context.Context, actor domain.Actor, documentID string) ([]domain.AnalysisResult, error) {
	if _, err := uc.GetDocument(ctx, actor, documentID); err != nil {
		return nil, err
	}
	return uc.results.ListByDocument(ctx, documentID)
}

func (uc *DocumentViewsUseCase) AggregateForDocument(ctx context.Context, actor domain.Actor, documentID string) (*domain.AggregatedView, error) {
	results, err := uc.ResultsForDocument(ctx, actor, documentID)
	if err != nil {
		return nil, err
	}
	view := domain.AggregateResults(results)
	return &view, nil
}

func (uc *DocumentViewsUseCase) AggregateForOwner(ctx context.Context, actor domain.Actor, ownerID string) (*domain.AggregatedView, error) {
	if err := authorizeOwner(actor, ownerID); err != nil {
		return nil, err
	}
	results, err := uc.results.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	view := domain.AggregateResults(results)
	return &view, nil
}

// StatsForOwner computes dashboard counters from the owner's documents and
// results. Analyses are bucketed by the state of their document.
func (uc *DocumentViewsUseCase) StatsForOwner(ctx context.Context, actor domain.Actor, ownerID string) (*domain.OwnerStats, error) {
	if err := authorizeOwner(actor, ownerID); err != nil {
		return nil, err
	}

	docs, err := uc.docs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	results, err := uc.results.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &domain.OwnerStats{
		TotalDocuments: len(docs),
		TotalAnalyses:  len(results),
	}
	for _, doc := range docs {
		stats.TotalStorageMB += doc.SizeMB()
		count := len(doc.AnalysisIDs)
		switch doc.Status {
		case domain.StatusCompleted:
			stats.CompletedAnalyses += count
		case domain.StatusProcessing:
			stats.ProcessingAnalyses += count
		case domain.StatusFailed:
			stats.FailedAnalyses += count
		}
	}

	if len(results) > 0 {
		var sumConfidence, sumDuration float64
		for _, result := range results {
			sumConfidence += domain.ClampScore(result.ConfidenceScore)
			sumDuration += float64(result.ProcessingTimeSec)
		}
		stats.AverageConfidenceScore = round2(sumConfidence / float64(len(results)))
		stats.AverageProcessingTimeSec = round2(sumDuration / float64(len(results)))
	}
	stats.TotalStorageMB = round2(stats.TotalStorageMB)
	return stats, nil
}

func authorizeOwner(actor domain.Actor, ownerID string) error {
	if actor.CanAccess(ownerID) {
		return nil
	}
	return domain.WrapError(domain.ErrUnauthorized, "read owner data",
		fmt.Errorf("caller %s may not read data of owner %s", actor.UserID, ownerID))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
