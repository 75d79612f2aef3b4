// Package framework integrates the UI framework with the bundler: automatic JSX runtime and
// the compile-time feature flags the framework runtime reads.
package framework

import (
	"slices"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/json-format/internal/buildconfig"
)

const (
	// Name of the plugin as reported to the bundler
	Name = "framework"

	// DefaultImportSource is the package providing the JSX runtime
	DefaultImportSource = "vue"
)

// Feature flags consumed by the framework runtime.
const (
	FlagOptionsAPI                   = "__VUE_OPTIONS_API__"
	FlagProdDevtools                 = "__VUE_PROD_DEVTOOLS__"
	FlagProdHydrationMismatchDetails = "__VUE_PROD_HYDRATION_MISMATCH_DETAILS__"
)

var resolveExtensions = []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".css", ".json"}

type Options struct {
	ImportSource string
	OptionsAPI   bool
}

type Plugin struct {
	opts Options
}

// New returns the framework plugin with default options.
func New() buildconfig.Plugin {
	return NewWithOptions(Options{ImportSource: DefaultImportSource, OptionsAPI: true})
}

func NewWithOptions(opts Options) *Plugin {
	if opts.ImportSource == "" {
		opts.ImportSource = DefaultImportSource
	}
	return &Plugin{opts: opts}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) ESBuild() api.Plugin {
	return api.Plugin{
		Name:  Name,
		Setup: p.setup,
	}
}

func (p *Plugin) setup(build api.PluginBuild) {
	opts := build.InitialOptions

	opts.JSX = api.JSXAutomatic
	opts.JSXImportSource = p.opts.ImportSource

	for _, ext := range resolveExtensions {
		if !slices.Contains(opts.ResolveExtensions, ext) {
			opts.ResolveExtensions = append(opts.ResolveExtensions, ext)
		}
	}

	if opts.Define == nil {
		opts.Define = map[string]string{}
	}

	// explicit defines from the caller win
	setDefault(opts.Define, FlagOptionsAPI, boolString(p.opts.OptionsAPI))
	setDefault(opts.Define, FlagProdDevtools, "false")
	setDefault(opts.Define, FlagProdHydrationMismatchDetails, "false")
}

func setDefault(m map[string]string, key, value string) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
