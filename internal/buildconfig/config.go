package buildconfig

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/evanw/esbuild/pkg/api"
)

// AliasKey is the symbolic prefix mapped to the source directory.
const AliasKey = "@"

// Plugin participates in the build pipeline. Implementations are treated as opaque.
type Plugin interface {
	Name() string
	ESBuild() api.Plugin
}

// Factory creates a plugin descriptor.
type Factory func() Plugin

// Configuration describes the plugins to activate and the module resolution aliases.
type Configuration struct {
	file    string
	plugins []Plugin
	aliases map[string]string
}

// New produces a Configuration rooted at the directory of the file reported by loc. The
// alias target is aliasDir joined to that directory, without checking it exists. Factories
// are invoked in the order given.
func New(loc Locator, aliasDir string, factories ...Factory) (*Configuration, error) {
	if loc == nil {
		return nil, &ConfigurationError{Op: "locate", Err: ErrSelfLocation}
	}

	file, err := loc()
	if err != nil {
		return nil, &ConfigurationError{Op: "locate", Err: err}
	}

	plugins := make([]Plugin, 0, len(factories))
	for i, factory := range factories {
		p := factory()
		if p == nil {
			return nil, &ConfigurationError{Op: "plugins", Err: fmt.Errorf("%w: index %d", ErrNilPlugin, i)}
		}
		plugins = append(plugins, p)
	}

	return &Configuration{
		file:    file,
		plugins: plugins,
		aliases: map[string]string{
			AliasKey: filepath.Join(filepath.Dir(file), aliasDir),
		},
	}, nil
}

// File returns the absolute path of the configuration file.
func (c *Configuration) File() string {
	return c.file
}

// Root returns the directory containing the configuration file.
func (c *Configuration) Root() string {
	return filepath.Dir(c.file)
}

// Plugins returns the plugins in activation order.
func (c *Configuration) Plugins() []Plugin {
	return slices.Clone(c.plugins)
}

// Aliases returns a copy of the alias mapping.
func (c *Configuration) Aliases() map[string]string {
	return maps.Clone(c.aliases)
}

// Alias returns the target for the given alias key.
func (c *Configuration) Alias(key string) (string, bool) {
	target, ok := c.aliases[key]
	return target, ok
}

// Summary is a serializable view of a Configuration.
type Summary struct {
	File    string            `yaml:"file" json:"file"`
	Root    string            `yaml:"root" json:"root"`
	Plugins []string          `yaml:"plugins" json:"plugins"`
	Aliases map[string]string `yaml:"aliases" json:"aliases"`
}

// Describe returns a summary of the configuration.
func (c *Configuration) Describe() Summary {
	names := make([]string, 0, len(c.plugins))
	for _, p := range c.plugins {
		names = append(names, p.Name())
	}

	return Summary{
		File:    c.file,
		Root:    c.Root(),
		Plugins: names,
		Aliases: c.Aliases(),
	}
}
