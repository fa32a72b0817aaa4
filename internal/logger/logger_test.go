package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = zerolog.New(&buf)
	t.Cleanup(func() { globalLogger = prev })
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestWithLogger(t *testing.T) {
	buf := captureGlobal(t)

	ctx := WithLogger(context.Background(), map[string]interface{}{"node": "org-1"})
	InfoLog(ctx, "moved %s", "org-1")

	entry := lastLine(t, buf)
	assert.Equal(t, "org-1", entry["node"])
	assert.Equal(t, "moved org-1", entry["message"])
}

func TestErrorLog_AttachesError(t *testing.T) {
	buf := captureGlobal(t)

	ErrorLog(context.Background(), "fetch failed: %v", errors.New("boom"))
	entry := lastLine(t, buf)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestRequestContext(t *testing.T) {
	testCases := map[string]struct {
		header string
		wantID string
	}{
		"incoming request id":  {header: "req-42", wantID: "req-42"},
		"generated request id": {},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			buf := captureGlobal(t)

			e := echo.New()
			e.Use(RequestContext())
			e.GET("/chart/nodes/:id", func(c echo.Context) error {
				WarnLog(c.Request().Context(), "refused")
				return c.NoContent(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/chart/nodes/org-1", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderXRequestID, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			entry := lastLine(t, buf)
			assert.Equal(t, "/chart/nodes/:id", entry["route"])
			assert.Equal(t, http.MethodGet, entry["method"])
			id, _ := entry["request_id"].(string)
			assert.NotEmpty(t, id)
			if tc.wantID != "" {
				assert.Equal(t, tc.wantID, id)
			} else {
				assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), id)
			}
		})
	}
}
