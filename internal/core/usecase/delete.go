package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
)

type DeleteDocumentsUseCase struct {
	docs        ports.DocumentRepository
	results     ports.AnalysisRepository
	storage     ports.ObjectStorage
	concurrency int
}

func NewDeleteDocumentsUseCase(
	docs ports.DocumentRepository,
	results ports.AnalysisRepository,
	storage ports.ObjectStorage,
	concurrency int,
) *DeleteDocumentsUseCase {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &DeleteDocumentsUseCase{
		docs:        docs,
		results:     results,
		storage:     storage,
		concurrency: concurrency,
	}
}

type deleteOutcome struct {
	documentID string
	err        error
}

// Delete fans out per-document deletes concurrently and waits for every
// outcome before reporting (settle-all, never fail-fast).
func (uc *DeleteDocumentsUseCase) Delete(
	ctx context.Context,
	actor domain.Actor,
	documentIDs []string,
) (*domain.BulkDeleteReport, error) {
	ids := dedupe(documentIDs)
	if len(ids) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "bulk delete", fmt.Errorf("no document ids"))
	}

	outcomes := make([]deleteOutcome, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.concurrency)
	for i, id := range ids {
		group.Go(func() error {
			outcomes[i] = deleteOutcome{
				documentID: id,
				err:        uc.deleteOne(groupCtx, actor, id),
			}
			// Failures land in the report, never abort the group.
			return nil
		})
	}
	_ = group.Wait()

	report := &domain.BulkDeleteReport{
		Deleted: []string{},
		Failed:  []domain.DeleteFailure{},
	}
	for _, outcome := range outcomes {
		if outcome.err != nil {
			report.Failed = append(report.Failed, domain.DeleteFailure{
				DocumentID: outcome.documentID,
				Reason:     outcome.err.Error(),
			})
			continue
		}
		report.Deleted = append(report.Deleted, outcome.documentID)
	}
	return report, nil
}

// deleteOne cascades: analysis results first, then the document row, then
// the stored bytes (best effort).
func (uc *DeleteDocumentsUseCase) deleteOne(ctx context.Context, actor domain.Actor, documentID string) error {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if !actor.CanAccess(doc.OwnerID) {
		return domain.WrapError(domain.ErrUnauthorized, "delete document",
			fmt.Errorf("caller %s may not delete document %s", actor.UserID, documentID))
	}

	if _, err := uc.results.DeleteByDocument(ctx, documentID); err != nil {
		return domain.WrapError(domain.ErrStore, "delete analysis results", err)
	}
	if err := uc.docs.Delete(ctx, documentID); err != nil {
		return domain.WrapError(domain.ErrStore, "delete document", err)
	}
	if err := uc.storage.Delete(ctx, doc.StoragePath); err != nil {
		slog.Warn("delete stored bytes failed", "document_id", documentID, "storage_path", doc.StoragePath, "error", err)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
