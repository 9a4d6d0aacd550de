package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/topicserve/internal/api"
	"github.com/dgallion1/topicserve/internal/config"
	"github.com/dgallion1/topicserve/internal/mcp"
	"github.com/dgallion1/topicserve/internal/metrics"
	"github.com/dgallion1/topicserve/internal/stats"
	"github.com/dgallion1/topicserve/internal/store"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize store.
	st := store.New(cfg.DataPath, log)
	if err := st.Bootstrap(); err != nil {
		log.Error("failed to create data file", "path", cfg.DataPath, "error", err)
	}
	metrics.RecordReload(st.Reload())

	searchStats := stats.NewLatencyStats(cfg.StatsWindow)

	var mcpHandler http.Handler
	if cfg.MCPEnabled {
		mcpHandler = mcp.NewHTTPHandler(mcp.NewServer(st, searchStats), "/mcp")
	}

	// Initialize HTTP server.
	srv := api.NewServer(st, searchStats, mcpHandler, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		log.Error("listen failed", "addr", httpServer.Addr, "error", err)
		os.Exit(1)
	}

	log.Info("starting topicserve",
		"port", cfg.Port,
		"data_path", cfg.DataPath,
		"writes", cfg.WritesEnabled(),
		"mcp", cfg.MCPEnabled,
	)
	reload := func() { metrics.RecordReload(st.Reload()) }
	if err := serve(httpServer, ln, sigCh, cfg.ShutdownTimeout, reload, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// serve runs srv on ln until SIGINT or SIGTERM arrives on sigCh, then shuts
// down gracefully. SIGHUP calls reload. It returns only after Shutdown has
// finished, so in-flight requests complete or hit the timeout.
func serve(srv *http.Server, ln net.Listener, sigCh <-chan os.Signal, timeout time.Duration, reload func(), log *slog.Logger) error {
	shutdownDone := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		for {
			select {
			case <-stop:
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					reload()
					continue
				}
				log.Info("shutting down...", "signal", sig.String())

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error("shutdown error", "error", err)
				}
				shutdownCancel()
				return
			}
		}
	}()

	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		close(stop)
		<-shutdownDone
		return err
	}

	<-shutdownDone
	return nil
}
