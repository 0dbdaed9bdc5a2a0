package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"listify/internal/logging"
)

func TestSanitizeLogField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "/healthz", want: "/healthz"},
		{name: "newline forging", input: "/a\nINFO fake", want: "/a INFO fake"},
		{name: "carriage return", input: "a\rb", want: "a b"},
		{name: "ansi escape", input: "\x1b[31mred", want: "[31mred"},
		{name: "null and bell", input: "a\x00b\x07c", want: "abc"},
		{name: "tab kept", input: "a\tb", want: "a\tb"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizeLogField(tt.input))
		})
	}
}

func TestShouldSkip(t *testing.T) {
	t.Parallel()

	cfg := DefaultLoggingConfig()
	assert.True(t, shouldSkip("/metrics", cfg))
	assert.False(t, shouldSkip("/healthz", cfg))

	cfg.LogHealthChecks = false
	assert.True(t, shouldSkip("/healthz", cfg))
	assert.True(t, shouldSkip("/livez", cfg))
	assert.False(t, shouldSkip("/version", cfg))
}

// Not parallel: swaps the global log output and level.
func TestLoggerWritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	prev := logging.GetLevel()
	logging.SetLevel(logging.LevelDebug)
	t.Cleanup(func() {
		logging.SetLevel(prev)
		logging.SetOutput(nil)
	})

	h := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "http 10.0.0.1 GET /version 418 15B")

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Empty(t, buf.String())
}
