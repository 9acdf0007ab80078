package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/yorlect/internal/service"
	"github.com/MKhiriev/yorlect/models"
)

// newRoutedServer serves Init() with a token parser that knows two bearer
// tokens: "user-token" for ada and "admin-token" for the admin.
func newRoutedServer(t *testing.T) *httptest.Server {
	t.Helper()
	auth := &mockAuthService{
		parseTokenFn: func(_ context.Context, token string) (models.Token, error) {
			switch token {
			case "user-token":
				return models.Token{Identity: models.Identity{Owner: "ada"}}, nil
			case "admin-token":
				return models.Token{Identity: models.Identity{Owner: "admin", IsAdmin: true}}, nil
			default:
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			}
		},
	}
	recordings := &mockRecordingService{
		progressFn: func(_ context.Context, owner string) (models.Progress, error) {
			return models.Progress{Owner: owner, Target: 10}, nil
		},
		listForOwnerFn: func(context.Context, string) ([]models.Recording, error) {
			return nil, nil
		},
		listOwnersFn: func(context.Context) ([]string, error) {
			return []string{"ada"}, nil
		},
	}

	srv := httptest.NewServer(newTestHandler(t, auth, recordings, nil).Init())
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes_AccessControl(t *testing.T) {
	srv := newRoutedServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"version is public", http.MethodGet, "/api/version", "", http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"recordings need a token", http.MethodGet, "/api/recordings", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/recordings", "forged", http.StatusUnauthorized},
		{"own recordings", http.MethodGet, "/api/recordings", "user-token", http.StatusOK},
		{"progress is not an audio id", http.MethodGet, "/api/recordings/progress", "user-token", http.StatusOK},
		{"admin route for a user", http.MethodGet, "/api/admin/owners", "user-token", http.StatusForbidden},
		{"admin route for the admin", http.MethodGet, "/api/admin/owners", "admin-token", http.StatusOK},
		{"admin route without token", http.MethodGet, "/api/admin/owners", "", http.StatusUnauthorized},
		{"unregistered method", http.MethodPut, "/api/version", "", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRoutes_Version(t *testing.T) {
	srv := newRoutedServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/version", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestRoutes_TraceIDIsEchoed(t *testing.T) {
	srv := newRoutedServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/version", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-42")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-42", resp.Header.Get(traceIDHeader))
	assert.NotEmpty(t, doRequest(t, srv, http.MethodGet, "/api/version", "").Header.Get(traceIDHeader))
}

func TestRoutes_MetricsUseRoutePatterns(t *testing.T) {
	srv := newRoutedServer(t)

	doRequest(t, srv, http.MethodGet, "/api/recordings/progress", "user-token")

	resp := doRequest(t, srv, http.MethodGet, "/metrics", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `yorlect_http_requests_total{method="GET",route="/api/recordings/progress",status="200"} 1`)
}
