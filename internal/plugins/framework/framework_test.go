package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestSetup_Defaults(t *testing.T) {
	opts := api.BuildOptions{}
	New().ESBuild().Setup(api.PluginBuild{InitialOptions: &opts})

	require.Equal(t, api.JSXAutomatic, opts.JSX)
	require.Equal(t, DefaultImportSource, opts.JSXImportSource)
	require.Equal(t, "true", opts.Define[FlagOptionsAPI])
	require.Equal(t, "false", opts.Define[FlagProdDevtools])
	require.Equal(t, "false", opts.Define[FlagProdHydrationMismatchDetails])
	require.Contains(t, opts.ResolveExtensions, ".tsx")
}

func TestSetup_ExplicitDefinesWin(t *testing.T) {
	opts := api.BuildOptions{
		Define:            map[string]string{FlagProdDevtools: "true"},
		ResolveExtensions: []string{".ts"},
	}
	NewWithOptions(Options{OptionsAPI: false}).ESBuild().Setup(api.PluginBuild{InitialOptions: &opts})

	require.Equal(t, "true", opts.Define[FlagProdDevtools])
	require.Equal(t, "false", opts.Define[FlagOptionsAPI])
	require.Equal(t, DefaultImportSource, opts.JSXImportSource)
	require.Equal(t, ".ts", opts.ResolveExtensions[0])
	require.Len(t, opts.ResolveExtensions, len(resolveExtensions))
}

func TestBuild_AppliesFlagsAndJSX(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.tsx")
	src := "console.log(__VUE_OPTIONS_API__, __VUE_PROD_DEVTOOLS__)\nexport const App = () => <div class=\"flex\" />\n"
	require.NoError(t, os.WriteFile(entry, []byte(src), 0600))

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{entry},
		Bundle:      true,
		Format:      api.FormatESModule,
		External:    []string{"vue", "vue/*"},
		Outdir:      filepath.Join(dir, "out"),
		Plugins:     []api.Plugin{New().ESBuild()},
	})
	require.Empty(t, result.Errors)
	require.Len(t, result.OutputFiles, 1)

	out := string(result.OutputFiles[0].Contents)
	require.Contains(t, out, "console.log(true, false)")
	require.Contains(t, out, "vue/jsx-runtime")
}
