package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MargianaLogistics/CargoBot/config"
	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/registry"
	"github.com/MargianaLogistics/CargoBot/internal/services/dispatcher"
)

type opsServerOpts struct {
	httpAddr string
	onListen func(httpAddr string)

	disp   *dispatcher.Dispatcher
	subs   *registry.Registry
	client backend.Client
	cfg    *config.Config
}

func runOpsServer(ctx context.Context, opts opsServerOpts) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8082"
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.client == nil {
			_, _ = w.Write([]byte(`{"error":"backend not wired"}`))
			return
		}
		if err := opts.client.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"backend unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.disp == nil {
			_, _ = w.Write([]byte(`{"error":"dispatcher not wired"}`))
			return
		}
		out := map[string]any{
			"dispatcher": opts.disp.Stats(),
		}
		if opts.subs != nil {
			out["subscribers"] = opts.subs.Len()
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.cfg == nil {
			_, _ = w.Write([]byte(`{"error":"config not wired"}`))
			return
		}
		// Avoid dumping secrets; show only operational bot settings.
		out := map[string]any{
			"timezone":            opts.cfg.CargoBot.Timezone,
			"concurrency":         opts.cfg.CargoBot.DeliveryConcurrency,
			"intervalSeconds":     opts.cfg.CargoBot.DispatchIntervalSeconds,
			"sendDelayMillis":     opts.cfg.CargoBot.DeliveryDelayMillis,
			"reportTTLSeconds":    opts.cfg.CargoBot.ReportCacheTTLSeconds,
			"rateLimitPerMinute":  opts.cfg.CargoBot.DeliveryRateLimitPerMinute,
			"initialDelaySeconds": opts.cfg.CargoBot.DispatchInitialDelaySeconds,
			"urgentDaysThreshold": opts.cfg.CargoBot.UrgentDaysThreshold,
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Post("/trigger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.disp == nil {
			_, _ = w.Write([]byte(`{"error":"dispatcher not wired"}`))
			return
		}
		opts.disp.Trigger()
		_, _ = w.Write([]byte(`{"triggered":true}`))
	})

	srv := &http.Server{Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	slog.Info("ops server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
