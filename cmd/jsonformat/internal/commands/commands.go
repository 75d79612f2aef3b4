package commands

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	jsonformat "github.com/wolfeidau/json-format"
	"github.com/wolfeidau/json-format/internal/telemetry"
)

type Globals struct {
	Debug   bool
	Version string
}

// TelemetryFlags enable OTLP export of build metrics.
type TelemetryFlags struct {
	Enabled bool `help:"export build metrics and traces over OTLP" default:"false" env:"JSONFORMAT_TELEMETRY"`
}

// produceConfiguration is replaced in tests to build fixture projects.
var produceConfiguration = jsonformat.ProduceConfiguration

func setupTelemetry(ctx context.Context, log zerolog.Logger, flags TelemetryFlags, version string) func() {
	if !flags.Enabled {
		return func() {}
	}

	shutdown, err := telemetry.InitTelemetry(ctx, "jsonformat", version)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown telemetry")
		}
	}
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
