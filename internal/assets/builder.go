package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/json-format/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNoEntryPoints indicates the entry point glob matched nothing
	ErrNoEntryPoints = errors.New("no entry points found")
	// ErrBuildFailed indicates esbuild reported errors
	ErrBuildFailed = errors.New("esbuild failed with errors")
	// ErrNotBuilt indicates scripts were requested before the first successful build
	ErrNotBuilt = errors.New("assets not built yet, call Build() first")
	// ErrEntryPointNotFound indicates the metafile has no output for the entry point
	ErrEntryPointNotFound = errors.New("entrypoint not found in metadata")
)

const recorderPluginName = "assets-metadata"

// Options returns the esbuild options for the pipeline: the configured plugins in order,
// followed by the alias resolver.
func (p *Pipeline) Options() (api.BuildOptions, error) {
	entryPoints, err := filepath.Glob(p.path(p.config.EntryPointGlob))
	if err != nil {
		return api.BuildOptions{}, err
	}

	if len(entryPoints) == 0 {
		return api.BuildOptions{}, fmt.Errorf("%w: %s", ErrNoEntryPoints, p.config.EntryPointGlob)
	}

	plugins := make([]api.Plugin, 0, len(p.conf.Plugins())+1)
	for _, plugin := range p.conf.Plugins() {
		plugins = append(plugins, plugin.ESBuild())
	}
	plugins = append(plugins, AliasResolver(p.conf.Aliases()))

	return api.BuildOptions{
		EntryPoints:       entryPoints,
		AbsWorkingDir:     p.conf.Root(),
		Bundle:            true,
		Splitting:         true,
		Write:             true,
		Outdir:            p.path(p.config.OutputDir),
		Format:            api.FormatESModule,
		MinifyWhitespace:  p.config.Minify,
		MinifyIdentifiers: p.config.Minify,
		MinifySyntax:      p.config.Minify,
		TreeShaking:       api.TreeShakingTrue,
		Sourcemap:         cond(p.config.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Metafile:          true,
		LogLevel:          api.LogLevelSilent,
		Loader: map[string]api.Loader{
			".svg":   api.LoaderFile,
			".png":   api.LoaderFile,
			".woff2": api.LoaderFile,
		},
		Plugins: plugins,
	}, nil
}

// Build runs esbuild with the configured settings and loads metadata
func (p *Pipeline) Build(ctx context.Context) error {
	opts, err := p.Options()
	if err != nil {
		return err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "assets.Build")
	defer span.End()

	log.Info().Strs("entrypoints", opts.EntryPoints).Str("mode", string(p.config.Mode)).Msg("Building assets")

	started := time.Now()
	result := api.Build(opts)

	return p.record(ctx, &result, time.Since(started))
}

// Watch builds the assets and rebuilds them whenever an input changes, until ctx is done.
// Metadata is refreshed after every successful rebuild.
func (p *Pipeline) Watch(ctx context.Context) error {
	opts, err := p.Options()
	if err != nil {
		return err
	}

	opts.Plugins = append(opts.Plugins, p.recorder(ctx))

	buildCtx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return fmt.Errorf("failed to create build context: %s", messages(ctxErr.Errors))
	}
	defer buildCtx.Dispose()

	log.Info().Strs("entrypoints", opts.EntryPoints).Msg("Watching assets")

	if err := buildCtx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}

	<-ctx.Done()
	return nil
}

// recorder captures the result of every watch mode rebuild.
func (p *Pipeline) recorder(ctx context.Context) api.Plugin {
	return api.Plugin{
		Name: recorderPluginName,
		Setup: func(build api.PluginBuild) {
			var started time.Time
			build.OnStart(func() (api.OnStartResult, error) {
				started = time.Now()
				return api.OnStartResult{}, nil
			})
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if err := p.record(ctx, result, time.Since(started)); err != nil {
					log.Error().Err(err).Msg("Rebuild failed")
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

func (p *Pipeline) record(ctx context.Context, result *api.BuildResult, elapsed time.Duration) error {
	buildID := uuid.NewString()

	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(attribute.String("mode", string(p.config.Mode)))
	m.BuildsTotal.Add(ctx, 1, attrs)
	m.BuildDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)

	if len(result.Errors) > 0 {
		m.BuildErrorsTotal.Add(ctx, int64(len(result.Errors)), attrs)
		for _, msg := range result.Errors {
			log.Error().Str("build", buildID).Str("error", msg.Text).Msg("Build error")
		}
		return fmt.Errorf("%w: %s", ErrBuildFailed, messages(result.Errors))
	}

	m.OutputFilesTotal.Add(ctx, int64(len(result.OutputFiles)), attrs)
	for _, file := range result.OutputFiles {
		log.Debug().Str("build", buildID).Str("file", file.Path).Msg("Built file")
	}

	metafilePath := p.path(p.config.MetafilePath)
	if err := os.MkdirAll(filepath.Dir(metafilePath), 0o750); err != nil {
		return err
	}
	if err := os.WriteFile(metafilePath, []byte(result.Metafile), 0600); err != nil {
		return err
	}

	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return err
	}

	p.mu.Lock()
	p.metadata = &metadata
	p.buildID = buildID
	p.mu.Unlock()

	log.Info().
		Str("build", buildID).
		Int("outputs", len(result.OutputFiles)).
		Dur("duration", elapsed).
		Msg("Assets built")

	return nil
}

// BuildID returns the identifier of the last successful build.
func (p *Pipeline) BuildID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buildID
}

// LoadScripts returns the ordered list of script paths needed for the given entrypoint
// and the main entrypoint file path
func (p *Pipeline) LoadScripts(entryPointPath string) ([]string, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, "", ErrNotBuilt
	}

	scripts := []string{}
	visited := make(map[string]bool)

	for outputPath, info := range p.metadata.Outputs {
		if info.EntryPoint == entryPointPath && strings.HasSuffix(outputPath, ".js") {
			entrypoint := "/" + outputPath
			scripts = append(scripts, entrypoint)
			visited[outputPath] = true
			p.addDependencies(info, &scripts, visited)
			return scripts, entrypoint, nil
		}
	}

	return nil, "", ErrEntryPointNotFound
}

// LoadStyles returns the stylesheet bundled for the given entrypoint, if any.
func (p *Pipeline) LoadStyles(entryPointPath string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, ErrNotBuilt
	}

	for _, info := range p.metadata.Outputs {
		if info.EntryPoint == entryPointPath && info.CSSBundle != "" {
			return []string{"/" + info.CSSBundle}, nil
		}
	}

	return []string{}, nil
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if imp.Kind == "dynamic-import" || !strings.HasSuffix(imp.Path, ".js") {
			continue
		}
		if !visited[imp.Path] {
			visited[imp.Path] = true
			*scripts = append(*scripts, "/"+imp.Path)

			if chunkInfo, exists := p.metadata.Outputs[imp.Path]; exists {
				p.addDependencies(chunkInfo, scripts, visited)
			}
		}
	}
}

// Handler returns an http.HandlerFunc that renders the given template and entrypoint with its scripts
func (p *Pipeline) Handler(templateName, title, entryPointPath string, contextFn func(ctx context.Context) any) (http.HandlerFunc, error) {
	if p.tmpl == nil {
		return nil, errors.New("template not loaded, use NewWithTemplate")
	}

	if contextFn == nil {
		contextFn = func(ctx context.Context) any {
			return nil
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		scripts, _, err := p.LoadScripts(entryPointPath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load scripts")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		styles, err := p.LoadStyles(entryPointPath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load styles")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		data := map[string]any{
			"Title":   title,
			"Scripts": scripts,
			"Styles":  styles,
			"BuildID": p.BuildID(),
			"Context": contextFn(r.Context()),
		}

		if err := p.tmpl.ExecuteTemplate(w, templateName, data); err != nil {
			log.Error().Err(err).Msg("Failed to render template")
		}
	}, nil
}

// path resolves a configured path against the configuration root.
func (p *Pipeline) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.conf.Root(), name)
}

func messages(msgs []api.Message) string {
	texts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		texts = append(texts, msg.Text)
	}
	return strings.Join(texts, "; ")
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
