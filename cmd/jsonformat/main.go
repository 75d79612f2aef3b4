package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/json-format/cmd/jsonformat/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Build   commands.BuildCmd  `cmd:"" help:"Build the application assets"`
		Dev     commands.DevCmd    `cmd:"" help:"Build in watch mode and serve the application"`
		Config  commands.ConfigCmd `cmd:"" help:"Print the resolved build configuration"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
