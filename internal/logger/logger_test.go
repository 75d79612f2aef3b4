package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequests(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{
			name:   "ok",
			status: http.StatusOK,
			level:  "info",
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			level:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)

			handler := Requests(zerolog.New(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NotNil(t, zerolog.Ctx(r.Context()))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/public/main.js", nil)
			req.Header.Set("X-Real-IP", "192.168.1.100")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.Equal(t, tt.level, entry["level"])
			require.Equal(t, "/public/main.js", entry["path"])
			require.Equal(t, "192.168.1.100", entry["addr"])
			require.InDelta(t, float64(tt.status), entry["status"], 0)
			require.InDelta(t, 5, entry["bytes"], 0)
		})
	}
}
