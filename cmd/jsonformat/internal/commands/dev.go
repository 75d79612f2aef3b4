package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/json-format/internal/assets"
	httpmiddleware "github.com/wolfeidau/json-format/internal/http"
	"github.com/wolfeidau/json-format/internal/logger"
	"github.com/wolfeidau/json-format/internal/telemetry"
)

type DevCmd struct {
	Listen      string         `help:"HTTP server listen address" default:"localhost:5173" env:"JSONFORMAT_LISTEN"`
	CORSOrigins []string       `help:"allowed CORS origins for assets" default:"http://localhost:5173" env:"JSONFORMAT_CORS_ORIGINS"`
	Template    string         `help:"page template, relative to the project root" default:"index.html" env:"JSONFORMAT_TEMPLATE"`
	Entry       string         `help:"entry point rendered by the index page" default:"src/main.tsx" env:"JSONFORMAT_ENTRY"`
	Title       string         `help:"page title" default:"JSON Format"`
	BindTimeout time.Duration  `help:"how long to retry binding the listen address while it is in use" default:"10s"`
	Telemetry   TelemetryFlags `embed:"" prefix:"telemetry-"`
}

func (c *DevCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	shutdown := setupTelemetry(ctx, log, c.Telemetry, globals.Version)
	defer shutdown()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, err := produceConfiguration()
	if err != nil {
		return err
	}

	cfg := assets.DevelopmentConfig()
	cfg.EntryPointGlob = c.Entry

	pipeline, err := assets.NewWithTemplate(cfg, conf, c.Template)
	if err != nil {
		return fmt.Errorf("failed to load page template: %w", err)
	}

	index, err := pipeline.Handler(filepath.Base(c.Template), c.Title, c.Entry, nil)
	if err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- pipeline.Watch(ctx)
	}()

	outDir := filepath.Join(conf.Root(), cfg.OutputDir)
	handler := c.handler(log, index, outDir)

	ln, err := listen(ctx, c.Listen, c.BindTimeout)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Listen, err)
	}

	srv := configureHTTPServer(c.Listen, handler)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	log.Info().Str("addr", ln.Addr().String()).Str("root", conf.Root()).Msg("Development server started")

	select {
	case <-ctx.Done():
	case err := <-watchErr:
		if err != nil {
			_ = srv.Close()
			return err
		}
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info().Msg("Shutting down development server")
	return srv.Shutdown(shutdownCtx)
}

func (c *DevCmd) handler(log zerolog.Logger, index http.Handler, outDir string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir(outDir))))
	mux.Handle("/", index)

	count := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telemetry.GetMetrics().RequestsTotal.Add(r.Context(), 1)
			next.ServeHTTP(w, r)
		})
	}

	return httpmiddleware.Chain(mux,
		logger.Requests(log),
		count,
		httpmiddleware.NoCache(),
		httpmiddleware.CORS(c.CORSOrigins),
		httpmiddleware.Compress(),
	)
}

// listen binds addr, retrying while it is still held by a previous dev server.
func listen(ctx context.Context, addr string, timeout time.Duration) (net.Listener, error) {
	return backoff.Retry(ctx, func() (net.Listener, error) {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return ln, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(timeout),
	)
}
