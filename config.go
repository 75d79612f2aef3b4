// Package jsonformat holds the build configuration for the json-format web application.
//
// This file is the configuration file: module resolution aliases are resolved relative to
// the directory it lives in, never the working directory of the process.
package jsonformat

import (
	"github.com/wolfeidau/json-format/internal/buildconfig"
	"github.com/wolfeidau/json-format/internal/plugins/devtools"
	"github.com/wolfeidau/json-format/internal/plugins/framework"
	"github.com/wolfeidau/json-format/internal/plugins/utilitycss"
)

const (
	// AliasPrefix is the import prefix mapped to SourceDir
	AliasPrefix = buildconfig.AliasKey
	// SourceDir is the application source directory, relative to this file
	SourceDir = "src"
)

// ProduceConfiguration returns the build configuration: the framework, devtools and utility
// CSS plugins in that order, and "@" aliased to the src directory next to this file.
func ProduceConfiguration() (*buildconfig.Configuration, error) {
	return produceConfiguration(buildconfig.Caller(0))
}

func produceConfiguration(loc buildconfig.Locator) (*buildconfig.Configuration, error) {
	return buildconfig.New(loc, SourceDir,
		framework.New,
		devtools.New,
		utilitycss.New,
	)
}
