// Package utilitycss generates utility class stylesheets. Importing "tailwindcss" from CSS or
// script resolves to a virtual stylesheet containing only the utilities used by the source
// files next to the importer.
package utilitycss

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/json-format/internal/buildconfig"
)

const (
	Name      = "utility-css"
	Namespace = "utility-css"
)

var (
	importFilter = `^tailwindcss$`

	classPatterns = []*regexp.Regexp{
		regexp.MustCompile("(?:class|className)\\s*=\\s*[\"'`{]+([^\"'`}]*)[\"'`}]"),
		regexp.MustCompile("classList\\.(?:add|remove|toggle)\\(\\s*[\"'`]([^\"'`]*)[\"'`]"),
	}

	scannedExtensions = []string{".html", ".tsx", ".ts", ".jsx", ".js", ".vue"}
)

type Plugin struct{}

// New returns the utility CSS plugin.
func New() buildconfig.Plugin {
	return &Plugin{}
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
	build.OnResolve(api.OnResolveOptions{Filter: importFilter},
		func(args api.OnResolveArgs) (api.OnResolveResult, error) {
			return api.OnResolveResult{
				Path:      args.ResolveDir,
				Namespace: Namespace,
			}, nil
		})

	build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: Namespace},
		func(args api.OnLoadArgs) (api.OnLoadResult, error) {
			scan, err := Scan(args.Path)
			if err != nil {
				return api.OnLoadResult{}, err
			}

			contents := Generate(scan.Classes)
			return api.OnLoadResult{
				Contents:   &contents,
				Loader:     api.LoaderCSS,
				ResolveDir: args.Path,
				WatchFiles: scan.Files,
				WatchDirs:  scan.Dirs,
			}, nil
		})
}

// ScanResult lists the class tokens found under a directory and the paths that were read.
type ScanResult struct {
	Classes []string
	Files   []string
	Dirs    []string
}

// Scan walks dir collecting class tokens from markup and script sources. Hidden directories
// and node_modules are skipped.
func Scan(dir string) (*ScanResult, error) {
	result := &ScanResult{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != dir && (name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			result.Dirs = append(result.Dirs, path)
			return nil
		}

		if !slices.Contains(scannedExtensions, filepath.Ext(path)) {
			return nil
		}

		data, err := os.ReadFile(path) // #nosec G304 - paths come from walking the source tree
		if err != nil {
			return err
		}

		result.Files = append(result.Files, path)
		result.Classes = append(result.Classes, extractClasses(string(data))...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(result.Classes)
	result.Classes = slices.Compact(result.Classes)

	return result, nil
}

func extractClasses(src string) []string {
	var classes []string
	for _, pattern := range classPatterns {
		for _, match := range pattern.FindAllStringSubmatch(src, -1) {
			classes = append(classes, strings.Fields(match[1])...)
		}
	}
	return classes
}
