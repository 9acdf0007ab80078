package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// session is the body of the login endpoints.
type session struct {
	models.Identity
	Token string `json:"token"`
}

// NewHTTPServerAdapter builds the REST implementation of [ServerAdapter]
// against cfg.ServerAddress. A bare "host:port" is treated as http.
func NewHTTPServerAdapter(cfg config.Client, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, credentials models.Credentials) (models.Identity, error) {
	return h.openSession(ctx, "/api/user/register", credentials)
}

func (h *httpServerAdapter) Login(ctx context.Context, credentials models.Credentials) (models.Identity, error) {
	return h.openSession(ctx, "/api/user/login", credentials)
}

func (h *httpServerAdapter) AdminLogin(ctx context.Context, secret string) (models.Identity, error) {
	return h.openSession(ctx, "/api/admin/login", models.AdminCredentials{Secret: secret})
}

// openSession posts body to a login endpoint and keeps the issued token.
// The Authorization header wins over the token in the body.
func (h *httpServerAdapter) openSession(ctx context.Context, path string, body any) (models.Identity, error) {
	var result session

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		if result.Token == "" {
			return models.Identity{}, fmt.Errorf("%s parse bearer token: %w", path, err)
		}
		token = result.Token
	}

	h.SetToken(token)
	h.logger.Debug().Str("owner", result.Owner).Bool("admin", result.IsAdmin).Msg("session opened")
	return result.Identity, nil
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}

func (h *httpServerAdapter) Upload(ctx context.Context, filename string, audio io.Reader, metadata models.Metadata) (models.Recording, error) {
	var rec models.Recording

	resp, err := h.authedRequest(ctx).
		SetFileReader("audio", filename, audio).
		SetMultipartFormData(metadataFields(metadata)).
		SetResult(&rec).
		Post("/api/recordings")
	if err != nil {
		return models.Recording{}, fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Recording{}, err
	}

	return rec, nil
}

// metadataFields flattens the set metadata fields into form values.
func metadataFields(m models.Metadata) map[string]string {
	fields := make(map[string]string)
	set := func(key string, value *string) {
		if value != nil {
			fields[key] = *value
		}
	}

	set("name", m.Name)
	set("gender", m.Gender)
	set("locale", m.Locale)
	set("notes", m.Notes)
	set("prompt", m.Prompt)
	if m.Age != nil {
		fields["age"] = strconv.Itoa(*m.Age)
	}

	return fields
}

func (h *httpServerAdapter) ListRecordings(ctx context.Context) ([]models.Recording, error) {
	var recordings []models.Recording
	if err := h.getJSON(ctx, "/api/recordings", nil, &recordings); err != nil {
		return nil, err
	}
	return recordings, nil
}

func (h *httpServerAdapter) Progress(ctx context.Context) (models.Progress, error) {
	var progress models.Progress
	if err := h.getJSON(ctx, "/api/recordings/progress", nil, &progress); err != nil {
		return models.Progress{}, err
	}
	return progress, nil
}

func (h *httpServerAdapter) DownloadAudio(ctx context.Context, id string) ([]byte, error) {
	return h.getBytes(ctx, "/api/recordings/"+url.PathEscape(id)+"/audio", nil)
}

func (h *httpServerAdapter) ExportCSV(ctx context.Context, admin bool, owner string) ([]byte, error) {
	if !admin {
		return h.getBytes(ctx, "/api/recordings/export.csv", nil)
	}
	return h.getBytes(ctx, "/api/admin/export.csv", ownerQuery(owner))
}

func (h *httpServerAdapter) ExportZip(ctx context.Context, admin bool, owner string) ([]byte, int, error) {
	path, query := "/api/recordings/export.zip", url.Values(nil)
	if admin {
		path, query = "/api/admin/export.zip", ownerQuery(owner)
	}

	resp, err := h.authedRequest(ctx).SetQueryParamsFromValues(query).Get(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, 0, err
	}

	skipped, _ := strconv.Atoi(resp.Header().Get("X-Export-Skipped"))
	return resp.Body(), skipped, nil
}

func (h *httpServerAdapter) AdminRecordings(ctx context.Context) ([]models.Recording, error) {
	var recordings []models.Recording
	if err := h.getJSON(ctx, "/api/admin/recordings", nil, &recordings); err != nil {
		return nil, err
	}
	return recordings, nil
}

func (h *httpServerAdapter) AdminOwners(ctx context.Context) ([]string, error) {
	var owners []string
	if err := h.getJSON(ctx, "/api/admin/owners", nil, &owners); err != nil {
		return nil, err
	}
	return owners, nil
}

func (h *httpServerAdapter) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := h.getJSON(ctx, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (h *httpServerAdapter) AdminPublish(ctx context.Context, owner string) (models.PublishResult, error) {
	var result models.PublishResult

	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(ownerQuery(owner)).
		SetResult(&result).
		Post("/api/admin/export/publish")
	if err != nil {
		return models.PublishResult{}, fmt.Errorf("publish request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PublishResult{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) AdminDeleteAll(ctx context.Context) (models.DeleteReport, error) {
	var report models.DeleteReport

	resp, err := h.authedRequest(ctx).
		SetQueryParam("confirm", "true").
		SetResult(&report).
		Delete("/api/admin/recordings")
	if err != nil {
		return models.DeleteReport{}, fmt.Errorf("delete request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DeleteReport{}, err
	}

	return report, nil
}

func (h *httpServerAdapter) getJSON(ctx context.Context, path string, query url.Values, result any) error {
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(query).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) getBytes(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func ownerQuery(owner string) url.Values {
	if owner == "" {
		return nil
	}
	return url.Values{"owner": []string{owner}}
}
