package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dkoval/findoc-scanner/internal/config"
	"github.com/dkoval/findoc-scanner/internal/core/ports"
	"github.com/dkoval/findoc-scanner/internal/core/usecase"
	openaiengine "github.com/dkoval/findoc-scanner/internal/infrastructure/engine/openai"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/extractor"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/queue/nats"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/repository/postgres"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/resilience"
	"github.com/dkoval/findoc-scanner/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	UploadUC  ports.DocumentUploader
	AnalyzeUC ports.DocumentAnalyzer
	DeleteUC  ports.DocumentDeleter
	ViewsUC   ports.DocumentViews
	Selection ports.SelectionTracker

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	results := postgres.NewAnalysisRepository(db)
	if err := results.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure analyses schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	engine := openaiengine.NewWithOptions(cfg.OpenAIAPIKey, cfg.OpenAIModel, openaiengine.Options{
		BaseURL:            cfg.OpenAIBaseURL,
		ResilienceExecutor: executor,
	})
	extract := extractor.NewRouter(storage)
	selection := usecase.NewSelection()

	uploadUC := usecase.NewUploadDocumentUseCase(docs, storage, queue, usecase.UploadConfig{
		MaxFileSizeMB:  cfg.MaxFileSizeMB,
		AllowedFormats: cfg.AllowedFileTypes,
		DefaultQuery:   cfg.DefaultAnalysisQuery,
	})
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(docs, results, extract, engine, usecase.AnalyzeConfig{
		AnalysisType:      cfg.AnalysisType,
		EngineTimeout:     time.Duration(cfg.EngineTimeoutSeconds) * time.Second,
		AcceptConfidence:  cfg.AcceptConfidence,
		AcceptDataQuality: cfg.AcceptDataQuality,
	})
	deleteUC := usecase.NewDeleteDocumentsUseCase(docs, results, storage, cfg.DeleteConcurrency)
	viewsUC := usecase.NewDocumentViewsUseCase(docs, results, selection)

	return &App{
		Config: cfg,

		Queue:     queue,
		UploadUC:  uploadUC,
		AnalyzeUC: analyzeUC,
		DeleteUC:  deleteUC,
		ViewsUC:   viewsUC,
		Selection: selection,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
