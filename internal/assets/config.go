package assets

type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Config paths are relative to the configuration root unless absolute.
type Config struct {
	// Entry point glob pattern (e.g., "src/main.tsx")
	EntryPointGlob string
	// Output directory for built files
	OutputDir string
	// Path to metafile
	MetafilePath string
	// Whether to minify output
	Minify bool
	// Whether to enable source maps
	SourceMap bool
	Mode      Mode
}

// DefaultConfig returns the production configuration
func DefaultConfig() Config {
	return Config{
		EntryPointGlob: "src/main.tsx",
		OutputDir:      "public",
		MetafilePath:   "public/meta.json",
		Minify:         true,
		SourceMap:      true,
		Mode:           ModeProduction,
	}
}

// DevelopmentConfig returns an unminified configuration with source maps
func DevelopmentConfig() Config {
	cfg := DefaultConfig()
	cfg.Minify = false
	cfg.Mode = ModeDevelopment
	return cfg
}

// ConfigFor returns the default configuration for the given mode.
func ConfigFor(mode Mode) Config {
	if mode == ModeDevelopment {
		return DevelopmentConfig()
	}
	return DefaultConfig()
}
