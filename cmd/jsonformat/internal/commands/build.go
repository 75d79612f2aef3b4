package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wolfeidau/json-format/internal/assets"
	"github.com/wolfeidau/json-format/internal/logger"
)

type BuildCmd struct {
	Mode      string         `help:"build mode" default:"production" env:"JSONFORMAT_MODE" enum:"development,production"`
	Entry     string         `help:"entry point glob, relative to the project root" default:"src/main.tsx" env:"JSONFORMAT_ENTRY"`
	OutDir    string         `help:"output directory, relative to the project root" default:"public" env:"JSONFORMAT_OUT_DIR"`
	SourceMap bool           `help:"emit linked source maps" default:"true" negatable:""`
	Telemetry TelemetryFlags `embed:"" prefix:"telemetry-"`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	shutdown := setupTelemetry(ctx, log, c.Telemetry, globals.Version)
	defer shutdown()

	conf, err := produceConfiguration()
	if err != nil {
		return err
	}

	log.Info().
		Str("version", globals.Version).
		Str("root", conf.Root()).
		Str("mode", c.Mode).
		Msg("Starting build")

	pipeline := assets.New(c.assetsConfig(), conf)
	if err := pipeline.Build(ctx); err != nil {
		return fmt.Errorf("failed to build assets: %w", err)
	}

	return nil
}

func (c *BuildCmd) assetsConfig() assets.Config {
	cfg := assets.ConfigFor(assets.Mode(c.Mode))
	cfg.EntryPointGlob = c.Entry
	cfg.OutputDir = c.OutDir
	cfg.MetafilePath = filepath.Join(c.OutDir, "meta.json")
	cfg.SourceMap = c.SourceMap
	return cfg
}
