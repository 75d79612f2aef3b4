package assets

import (
	"cmp"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

const aliasPluginName = "alias"

// AliasResolver returns an esbuild plugin rewriting imports that start with an alias key
// followed by "/" (or equal to it) onto the alias target, then resolving them with esbuild's
// own resolver. Scoped packages such as "@vue/shared" do not match the "@" alias.
func AliasResolver(aliases map[string]string) api.Plugin {
	keys := slices.Collect(maps.Keys(aliases))
	// longest prefix first so nested aliases take precedence
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	})

	return api.Plugin{
		Name: aliasPluginName,
		Setup: func(build api.PluginBuild) {
			for _, key := range keys {
				target := aliases[key]
				build.OnResolve(api.OnResolveOptions{Filter: "^" + regexp.QuoteMeta(key) + "(/|$)"},
					func(args api.OnResolveArgs) (api.OnResolveResult, error) {
						rest := strings.TrimPrefix(strings.TrimPrefix(args.Path, key), "/")
						path := filepath.Join(target, filepath.FromSlash(rest))

						res := build.Resolve(path, api.ResolveOptions{
							PluginName: aliasPluginName,
							Importer:   args.Importer,
							ResolveDir: args.ResolveDir,
							Kind:       args.Kind,
							PluginData: args.PluginData,
						})
						if len(res.Errors) > 0 {
							return api.OnResolveResult{Errors: res.Errors, Warnings: res.Warnings}, nil
						}

						return api.OnResolveResult{
							Path:       res.Path,
							External:   res.External,
							Namespace:  res.Namespace,
							Suffix:     res.Suffix,
							PluginData: res.PluginData,
							Warnings:   res.Warnings,
						}, nil
					})
			}
		},
	}
}
