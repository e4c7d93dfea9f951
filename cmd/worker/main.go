package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkoval/findoc-scanner/internal/bootstrap"
	"github.com/dkoval/findoc-scanner/internal/config"
	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/observability/logging"
	"github.com/dkoval/findoc-scanner/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:        ":" + cfg.WorkerMetricsPort,
		Handler:     metricsMux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	jobTimeout := time.Duration(cfg.EngineTimeoutSeconds+60) * time.Second
	system := domain.Actor{UserID: "system", Role: domain.RoleAdmin}

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeAnalysisRequested(ctx, func(handlerCtx context.Context, job domain.AnalysisJob) error {
		workerMetrics.ObserveQueueLag(serviceName, time.Since(job.RequestedAt))
		workerMetrics.StartJob()

		jobCtx, cancel := context.WithTimeout(handlerCtx, jobTimeout)
		defer cancel()

		start := time.Now()
		_, runErr := app.AnalyzeUC.Analyze(jobCtx, system, job.DocumentID, job.Query)
		workerMetrics.FinishJob(serviceName, time.Since(start), runErr)
		return runErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
