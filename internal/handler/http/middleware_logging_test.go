package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedHandler(buf *bytes.Buffer) *Handler {
	return &Handler{logger: &logger.Logger{Logger: zerolog.New(buf)}}
}

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = w.Write([]byte("de"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, "abcde", rr.Body.String())
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{name: "list", method: http.MethodGet, path: "/api/recordings", status: http.StatusOK, body: "[]"},
		{name: "upload rejected", method: http.MethodPost, path: "/api/recordings", status: http.StatusBadRequest, body: "bad"},
		{name: "no body", method: http.MethodDelete, path: "/api/admin/recordings?confirm=true", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := bufferedHandler(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
			rr := httptest.NewRecorder()

			h.withLogging(next).ServeHTTP(rr, req)

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tt.method, line["method"])
			assert.Equal(t, tt.path, line["uri"])
			assert.EqualValues(t, tt.status, line["status"])
			assert.EqualValues(t, len(tt.body), line["size"])
			assert.Contains(t, line, "duration")
		})
	}
}

func TestWithTraceID(t *testing.T) {
	t.Run("generates id", func(t *testing.T) {
		var buf bytes.Buffer
		h := bufferedHandler(&buf)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.FromRequest(r).Info().Msg("inside")
		})

		rr := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

		traceID := rr.Header().Get(traceIDHeader)
		require.NotEmpty(t, traceID)
		assert.Contains(t, buf.String(), `"trace_id":"`+traceID+`"`)
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		var buf bytes.Buffer
		h := bufferedHandler(&buf)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Info().Msg("inside")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		req.Header.Set(traceIDHeader, "trace-42")
		rr := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(rr, req)

		assert.Equal(t, "trace-42", rr.Header().Get(traceIDHeader))
		assert.Contains(t, buf.String(), `"trace_id":"trace-42"`)
	})
}
