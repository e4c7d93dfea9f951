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

	httpadapter "github.com/dkoval/findoc-scanner/internal/adapters/http"
	"github.com/dkoval/findoc-scanner/internal/bootstrap"
	"github.com/dkoval/findoc-scanner/internal/config"
	"github.com/dkoval/findoc-scanner/internal/observability/logging"
	"github.com/dkoval/findoc-scanner/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(
		app.UploadUC,
		app.AnalyzeUC,
		app.DeleteUC,
		app.ViewsUC,
		app.Selection,
		httpMetrics,
		httpadapter.RouterConfig{
			DefaultQuery:      cfg.DefaultAnalysisQuery,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
			MaxInFlight:       256,
			BackpressureWait:  2 * time.Second,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
