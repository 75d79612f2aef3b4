package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/json-format/internal/buildconfig"
	"github.com/wolfeidau/json-format/internal/plugins/devtools"
	"github.com/wolfeidau/json-format/internal/plugins/framework"
	"github.com/wolfeidau/json-format/internal/plugins/utilitycss"
	"gopkg.in/yaml.v3"
)

func useProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.tsx"), `import { indent } from "@/indent"
document.body.className = "flex"
console.log(indent)
`)
	writeFile(t, filepath.Join(root, "src", "indent.ts"), "export const indent = 2\n")

	previous := produceConfiguration
	produceConfiguration = func() (*buildconfig.Configuration, error) {
		return buildconfig.New(buildconfig.Static(filepath.Join(root, "config.go")), "src",
			framework.New, devtools.New, utilitycss.New)
	}
	t.Cleanup(func() { produceConfiguration = previous })

	return root
}

func TestBuildCmd_Run(t *testing.T) {
	root := useProject(t)

	cmd := &BuildCmd{
		Mode:      "production",
		Entry:     "src/main.tsx",
		OutDir:    "dist",
		SourceMap: false,
	}

	err := cmd.Run(context.Background(), &Globals{Version: "test"})
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(root, "dist", "main.js"))
	require.FileExists(t, filepath.Join(root, "dist", "meta.json"))
	require.NoFileExists(t, filepath.Join(root, "dist", "main.js.map"))
}

func TestBuildCmd_ConfigurationError(t *testing.T) {
	previous := produceConfiguration
	produceConfiguration = func() (*buildconfig.Configuration, error) {
		return buildconfig.New(buildconfig.Static("relative/config.go"), "src")
	}
	t.Cleanup(func() { produceConfiguration = previous })

	err := (&BuildCmd{Mode: "production", Entry: "src/main.tsx", OutDir: "public"}).Run(context.Background(), &Globals{})

	var confErr *buildconfig.ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestBuildCmd_AssetsConfig(t *testing.T) {
	cfg := (&BuildCmd{Mode: "development", Entry: "src/*.tsx", OutDir: "out", SourceMap: true}).assetsConfig()

	assert.False(t, cfg.Minify)
	assert.True(t, cfg.SourceMap)
	assert.Equal(t, "src/*.tsx", cfg.EntryPointGlob)
	assert.Equal(t, filepath.Join("out", "meta.json"), cfg.MetafilePath)
}

func TestConfigCmd_Run(t *testing.T) {
	root := useProject(t)

	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{format: "yaml", unmarshal: yaml.Unmarshal},
		{format: "json", unmarshal: json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd := &ConfigCmd{Format: tt.format, out: buf}
			require.NoError(t, cmd.Run(&Globals{}))

			var summary buildconfig.Summary
			require.NoError(t, tt.unmarshal(buf.Bytes(), &summary))
			require.Equal(t, root, summary.Root)
			require.Equal(t, []string{framework.Name, devtools.Name, utilitycss.Name}, summary.Plugins)
			require.Equal(t, filepath.Join(root, "src"), summary.Aliases["@"])
		})
	}
}

func TestDevCmd_Handler(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "public", "main.js"), "console.log('json-format')\n")

	cmd := &DevCmd{CORSOrigins: []string{"http://localhost:3000"}}
	index := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("index"))
	})
	h := cmd.handler(zerolog.Nop(), index, filepath.Join(root, "public"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/main.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "json-format")
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "index", rec.Body.String())
}

func TestListen_RetriesWhileInUse(t *testing.T) {
	held, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := held.Addr().String()

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = held.Close()
	}()

	ln, err := listen(context.Background(), addr, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, ln.Close())
}

func TestListen_PermanentError(t *testing.T) {
	_, err := listen(context.Background(), "not-an-address", time.Second)
	require.Error(t, err)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}
