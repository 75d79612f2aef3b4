package utilitycss

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule(t *testing.T) {
	tests := []struct {
		token    string
		expected string
		ok       bool
	}{
		{token: "flex", expected: ".flex { display: flex; }\n", ok: true},
		{token: "p-4", expected: ".p-4 { padding: 1rem; }\n", ok: true},
		{token: "px-2", expected: ".px-2 { padding-left: 0.5rem; padding-right: 0.5rem; }\n", ok: true},
		{token: "m-0", expected: ".m-0 { margin: 0px; }\n", ok: true},
		{token: "text-sm", expected: ".text-sm { font-size: 0.875rem; line-height: 1.25rem; }\n", ok: true},
		{token: "text-gray-700", expected: ".text-gray-700 { color: #374151; }\n", ok: true},
		{token: "bg-white", expected: ".bg-white { background-color: #ffffff; }\n", ok: true},
		{token: "hover:bg-blue-700", expected: ".hover\\:bg-blue-700:hover { background-color: #1d4ed8; }\n", ok: true},
		{token: "p-97", ok: false},
		{token: "text-purple-500", ok: false},
		{token: "active:flex", ok: false},
		{token: "my-component", ok: false},
		{token: "Flex", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			r, ok := rule(tt.token)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, r)
		})
	}
}

func TestGenerate_SortedAndDeduplicated(t *testing.T) {
	css := Generate([]string{"p-4", "hover:bg-blue-700", "flex", "p-4", "unknown"})

	require.Contains(t, css, "box-sizing: border-box")
	flex := indexOf(t, css, ".flex ")
	padding := indexOf(t, css, ".p-4 ")
	hover := indexOf(t, css, ".hover\\:bg-blue-700")
	assert.Less(t, flex, padding)
	assert.Less(t, padding, hover)
	assert.NotContains(t, css, "unknown")
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "App.tsx"), `export const App = () => <div className="flex p-4">{"x"}</div>`)
	writeFile(t, filepath.Join(dir, "components", "Panel.tsx"), `<pre className={"font-mono text-sm"} />`)
	writeFile(t, filepath.Join(dir, "index.html"), `<body class='bg-gray-100 flex'></body>`)
	writeFile(t, filepath.Join(dir, "node_modules", "lib", "index.js"), `<div class="hidden" />`)
	writeFile(t, filepath.Join(dir, "notes.md"), `class="italic"`)
	writeFile(t, filepath.Join(dir, "toggle.ts"), `el.classList.toggle("grid")`)

	scan, err := Scan(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"bg-gray-100", "flex", "font-mono", "grid", "p-4", "text-sm"}, scan.Classes)
	require.Len(t, scan.Files, 4)
	require.Contains(t, scan.Dirs, filepath.Join(dir, "components"))
	require.NotContains(t, scan.Dirs, filepath.Join(dir, "node_modules"))
}

func TestBuild_VirtualStylesheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "style.css"), "@import \"tailwindcss\";\nbody { margin: 0; }\n")
	writeFile(t, filepath.Join(dir, "App.tsx"), `export const App = () => <main className="flex items-center">json</main>`)

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{filepath.Join(dir, "style.css")},
		Bundle:      true,
		Outdir:      filepath.Join(dir, "out"),
		Plugins:     []api.Plugin{New().ESBuild()},
	})
	require.Empty(t, result.Errors)
	require.Len(t, result.OutputFiles, 1)

	out := string(result.OutputFiles[0].Contents)
	require.Contains(t, out, ".items-center")
	require.Contains(t, out, "display: flex")
	require.NotContains(t, out, ".grid")
}

func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	i := strings.Index(s, substr)
	require.GreaterOrEqual(t, i, 0, "%q not found", substr)
	return i
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}
