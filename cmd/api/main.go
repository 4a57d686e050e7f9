package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkvc/AutumSem-OR/internal/api"
	"github.com/dkvc/AutumSem-OR/internal/config"
	"github.com/dkvc/AutumSem-OR/internal/metrics"
)

func main() {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	metrics.RegisterDefault()

	srv, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	mux := http.NewServeMux()

	// Optimization
	mux.HandleFunc("/v1/optimize", api.Instrument("/v1/optimize", srv.OptimizeHandler))
	mux.HandleFunc("/v1/optimize/stream", srv.OptimizeStreamHandler)

	// Datasets
	mux.HandleFunc("/v1/datasets", api.Instrument("/v1/datasets", srv.DatasetsHandler))
	mux.HandleFunc("/v1/datasets/", api.Instrument("/v1/datasets/{name}", srv.DatasetByNameHandler))

	// Health
	mux.HandleFunc("/healthz", srv.HealthHandler)
	mux.HandleFunc("/readyz", srv.ReadyHandler)

	// Metrics
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(start)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
	})
}
