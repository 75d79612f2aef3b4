// Package devtools provides build inspection for development: it enables the framework
// devtools hook in unminified builds and reports every build through zerolog.
package devtools

import (
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/json-format/internal/buildconfig"
	"github.com/wolfeidau/json-format/internal/plugins/framework"
)

const Name = "devtools"

// Report summarises the most recent build seen by the plugin.
type Report struct {
	Started     time.Time
	Duration    time.Duration
	Errors      int
	Warnings    int
	OutputFiles int
	Development bool
}

type Plugin struct {
	logger zerolog.Logger

	mu      sync.Mutex
	started time.Time
	last    Report
}

// New returns the devtools plugin logging through the global logger.
func New() buildconfig.Plugin {
	return NewWithLogger(log.Logger)
}

func NewWithLogger(logger zerolog.Logger) *Plugin {
	return &Plugin{logger: logger.With().Str("plugin", Name).Logger()}
}

func (p *Plugin) Name() string {
	return Name
}

// Last returns the report of the most recent completed build.
func (p *Plugin) Last() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Plugin) ESBuild() api.Plugin {
	return api.Plugin{
		Name:  Name,
		Setup: p.setup,
	}
}

func (p *Plugin) setup(build api.PluginBuild) {
	opts := build.InitialOptions
	development := isDevelopment(opts)

	if development {
		if opts.Define == nil {
			opts.Define = map[string]string{}
		}
		opts.Define[framework.FlagProdDevtools] = "true"
	}

	build.OnStart(func() (api.OnStartResult, error) {
		p.mu.Lock()
		p.started = time.Now()
		p.mu.Unlock()

		p.logger.Debug().Bool("development", development).Msg("Build started")
		return api.OnStartResult{}, nil
	})

	build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
		p.mu.Lock()
		report := Report{
			Started:     p.started,
			Duration:    time.Since(p.started),
			Errors:      len(result.Errors),
			Warnings:    len(result.Warnings),
			OutputFiles: len(result.OutputFiles),
			Development: development,
		}
		p.last = report
		p.mu.Unlock()

		for _, msg := range result.Warnings {
			p.logger.Warn().Str("warning", msg.Text).Str("file", location(msg)).Msg("Build warning")
		}
		for _, msg := range result.Errors {
			p.logger.Error().Str("error", msg.Text).Str("file", location(msg)).Msg("Build error")
		}

		p.logger.Info().
			Dur("duration", report.Duration).
			Int("errors", report.Errors).
			Int("warnings", report.Warnings).
			Msg("Build finished")

		if result.Metafile != "" && p.logger.GetLevel() <= zerolog.DebugLevel {
			p.logger.Debug().Msg(api.AnalyzeMetafile(result.Metafile, api.AnalyzeMetafileOptions{}))
		}

		return api.OnEndResult{}, nil
	})
}

func isDevelopment(opts *api.BuildOptions) bool {
	return !opts.MinifyWhitespace && !opts.MinifyIdentifiers && !opts.MinifySyntax
}

func location(msg api.Message) string {
	if msg.Location == nil {
		return ""
	}
	return msg.Location.File
}
