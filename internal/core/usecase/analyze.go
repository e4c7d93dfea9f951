package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
)

type AnalyzeConfig struct {
	AnalysisType      string
	EngineTimeout     time.Duration
	AcceptConfidence  float64
	AcceptDataQuality float64
}

type AnalyzeDocumentUseCase struct {
	docs      ports.DocumentRepository
	results   ports.AnalysisRepository
	extractor ports.TextExtractor
	engine    ports.AnalysisEngine
	cfg       AnalyzeConfig
}

func NewAnalyzeDocumentUseCase(
	docs ports.DocumentRepository,
	results ports.AnalysisRepository,
	extractor ports.TextExtractor,
	engine ports.AnalysisEngine,
	cfg AnalyzeConfig,
) *AnalyzeDocumentUseCase {
	return &AnalyzeDocumentUseCase{
		docs:      docs,
		results:   results,
		extractor: extractor,
		engine:    engine,
		cfg:       cfg,
	}
}

// Analyze runs one engine invocation against a document. Every attempt
// terminates in an observable document state: `completed` on success,
// `failed` on a hard engine failure. The heavy work runs on a context
// detached from the caller so a disconnected client never strands the
// document in `processing`.
func (uc *AnalyzeDocumentUseCase) Analyze(
	ctx context.Context,
	actor domain.Actor,
	documentID, query string,
) (*domain.AnalysisResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze document", fmt.Errorf("query is required"))
	}

	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(doc.OwnerID) {
		return nil, domain.WrapError(domain.ErrUnauthorized, "analyze document",
			fmt.Errorf("caller %s may not analyze document %s", actor.UserID, documentID))
	}

	detached := context.WithoutCancel(ctx)
	if err := uc.docs.UpdateStatus(detached, doc.ID, domain.StatusProcessing, 50, ""); err != nil {
		return nil, domain.WrapError(domain.ErrStore, "set status=processing", err)
	}

	engineCtx, cancel := context.WithTimeout(detached, uc.cfg.EngineTimeout)
	defer cancel()

	start := time.Now()
	report, err := uc.runEngine(engineCtx, doc, query)
	if err != nil {
		if failErr := uc.markFailed(detached, doc.ID, err); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return nil, err
	}
	durationSec := int(time.Since(start).Seconds())

	result := uc.buildResult(doc, query, report, durationSec)
	if err := uc.results.Create(detached, result); err != nil {
		storeErr := domain.WrapError(domain.ErrStore, "persist analysis result", err)
		if failErr := uc.markFailed(detached, doc.ID, storeErr); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", storeErr, failErr)
		}
		return nil, storeErr
	}

	if err := uc.markCompleted(detached, doc.ID, result.ID, durationSec); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *AnalyzeDocumentUseCase) runEngine(ctx context.Context, doc *domain.Document, query string) (domain.EngineReport, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return domain.EngineReport{}, domain.WrapError(domain.ErrEngine, "extract document text", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.EngineReport{}, domain.WrapError(domain.ErrEngine, "extract document text",
			fmt.Errorf("empty extracted text"))
	}

	report, err := uc.engine.Analyze(ctx, text, query)
	if err != nil {
		return domain.EngineReport{}, domain.WrapError(domain.ErrEngine, "invoke analysis engine", err)
	}
	return report, nil
}

func (uc *AnalyzeDocumentUseCase) buildResult(
	doc *domain.Document,
	query string,
	report domain.EngineReport,
	durationSec int,
) *domain.AnalysisResult {
	confidence := domain.ClampScore(report.ConfidenceScore)
	dataQuality := domain.ClampScore(report.DataQualityScore)
	report.Output.ExtractionQualityScore = domain.ClampScore(report.Output.ExtractionQualityScore)

	return &domain.AnalysisResult{
		ID:                uuid.NewString(),
		DocumentID:        doc.ID,
		OwnerID:           doc.OwnerID,
		AnalysisType:      uc.cfg.AnalysisType,
		Query:             query,
		Output:            report.Output,
		ConfidenceScore:   confidence,
		DataQualityScore:  dataQuality,
		ValidationStatus:  uc.validationStatus(confidence, dataQuality),
		ErrorLogs:         []string{},
		ProcessingTimeSec: durationSec,
		CreatedAt:         time.Now().UTC(),
	}
}

// validationStatus gates a single result on the configured acceptance
// thresholds. A result that falls short stays `pending`; `failed` is
// reserved for hard engine failures, which never produce a result at all.
func (uc *AnalyzeDocumentUseCase) validationStatus(confidence, dataQuality float64) domain.ValidationStatus {
	if confidence > uc.cfg.AcceptConfidence && dataQuality > uc.cfg.AcceptDataQuality {
		return domain.ValidationPassed
	}
	return domain.ValidationPending
}

func (uc *AnalyzeDocumentUseCase) markCompleted(ctx context.Context, documentID, analysisID string, durationSec int) error {
	if err := uc.docs.AppendAnalysisID(ctx, documentID, analysisID); err != nil {
		return domain.WrapError(domain.ErrStore, "append analysis id", err)
	}
	if err := uc.docs.SetProcessingDuration(ctx, documentID, durationSec); err != nil {
		return domain.WrapError(domain.ErrStore, "set processing duration", err)
	}
	if err := uc.docs.UpdateStatus(ctx, documentID, domain.StatusCompleted, 100, ""); err != nil {
		return domain.WrapError(domain.ErrStore, "set status=completed", err)
	}
	return nil
}

func (uc *AnalyzeDocumentUseCase) markFailed(ctx context.Context, documentID string, cause error) error {
	if cause == nil {
		return nil
	}
	return uc.docs.UpdateStatus(ctx, documentID, domain.StatusFailed, 0, cause.Error())
}
