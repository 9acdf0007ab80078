package http

import (
	"context"
	"testing"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/metrics"
	"github.com/MKhiriev/yorlect/internal/service"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn          func(ctx context.Context, credentials models.Credentials) (models.Identity, error)
	authenticateFn      func(ctx context.Context, credentials models.Credentials) (models.Identity, error)
	authenticateAdminFn func(ctx context.Context, secret string) (models.Identity, error)
	createTokenFn       func(ctx context.Context, identity models.Identity) (models.Token, error)
	parseTokenFn        func(ctx context.Context, tokenString string) (models.Token, error)
	normalizeOwnerFn    func(raw string) (string, error)
	listUsersFn         func(ctx context.Context) ([]models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, credentials models.Credentials) (models.Identity, error) {
	return m.registerFn(ctx, credentials)
}

func (m *mockAuthService) Authenticate(ctx context.Context, credentials models.Credentials) (models.Identity, error) {
	return m.authenticateFn(ctx, credentials)
}

func (m *mockAuthService) AuthenticateAdmin(ctx context.Context, secret string) (models.Identity, error) {
	return m.authenticateAdminFn(ctx, secret)
}

func (m *mockAuthService) BootstrapAdmin(context.Context) error { return nil }

func (m *mockAuthService) CreateToken(ctx context.Context, identity models.Identity) (models.Token, error) {
	if m.createTokenFn == nil {
		return models.Token{SignedString: "signed." + identity.Owner}, nil
	}
	return m.createTokenFn(ctx, identity)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

func (m *mockAuthService) NormalizeOwner(raw string) (string, error) {
	return m.normalizeOwnerFn(raw)
}

func (m *mockAuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.listUsersFn(ctx)
}

// mockRecordingService implements service.RecordingService.
type mockRecordingService struct {
	ingestFn       func(ctx context.Context, owner string, audio []byte, originalFilename string, metadata models.Metadata) (models.Recording, error)
	listForOwnerFn func(ctx context.Context, owner string) ([]models.Recording, error)
	listAllFn      func(ctx context.Context) ([]models.Recording, error)
	listOwnersFn   func(ctx context.Context) ([]string, error)
	getRecordingFn func(ctx context.Context, owner, id string) (models.Recording, error)
	openAudioFn    func(ctx context.Context, rec models.Recording) ([]byte, error)
	progressFn     func(ctx context.Context, owner string) (models.Progress, error)
	deleteAllFn    func(ctx context.Context) (models.DeleteReport, error)
}

func (m *mockRecordingService) Ingest(ctx context.Context, owner string, audio []byte, originalFilename string, metadata models.Metadata) (models.Recording, error) {
	return m.ingestFn(ctx, owner, audio, originalFilename, metadata)
}

func (m *mockRecordingService) ListForOwner(ctx context.Context, owner string) ([]models.Recording, error) {
	return m.listForOwnerFn(ctx, owner)
}

func (m *mockRecordingService) ListAll(ctx context.Context) ([]models.Recording, error) {
	return m.listAllFn(ctx)
}

func (m *mockRecordingService) ListOwners(ctx context.Context) ([]string, error) {
	return m.listOwnersFn(ctx)
}

func (m *mockRecordingService) GetRecording(ctx context.Context, owner, id string) (models.Recording, error) {
	return m.getRecordingFn(ctx, owner, id)
}

func (m *mockRecordingService) OpenAudio(ctx context.Context, rec models.Recording) ([]byte, error) {
	return m.openAudioFn(ctx, rec)
}

func (m *mockRecordingService) Progress(ctx context.Context, owner string) (models.Progress, error) {
	return m.progressFn(ctx, owner)
}

func (m *mockRecordingService) DeleteAll(ctx context.Context) (models.DeleteReport, error) {
	return m.deleteAllFn(ctx)
}

// mockExportService implements service.ExportService.
type mockExportService struct {
	csvFn     func(ctx context.Context, scope models.ExportScope) ([]byte, error)
	zipFn     func(ctx context.Context, scope models.ExportScope) (models.ZipExport, error)
	publishFn func(ctx context.Context, scope models.ExportScope) (models.PublishResult, error)
}

func (m *mockExportService) ExportMetadataCSV(ctx context.Context, scope models.ExportScope) ([]byte, error) {
	return m.csvFn(ctx, scope)
}

func (m *mockExportService) ExportZip(ctx context.Context, scope models.ExportScope) (models.ZipExport, error) {
	return m.zipFn(ctx, scope)
}

func (m *mockExportService) PublishZip(ctx context.Context, scope models.ExportScope) (models.PublishResult, error) {
	return m.publishFn(ctx, scope)
}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(context.Context) string {
	return m.version
}

// newTestHandler builds a Handler over the given mocks. Nil services are
// replaced with empty mocks.
func newTestHandler(t *testing.T, auth *mockAuthService, recordings *mockRecordingService, export *mockExportService) *Handler {
	t.Helper()
	if auth == nil {
		auth = &mockAuthService{}
	}
	if recordings == nil {
		recordings = &mockRecordingService{}
	}
	if export == nil {
		export = &mockExportService{}
	}

	svcs := &service.Services{
		AuthService:      auth,
		RecordingService: recordings,
		ExportService:    export,
		AppInfoService:   &mockAppInfoService{version: "1.2.3"},
	}
	return NewHandler(svcs, config.Server{MaxUploadBytes: 1 << 20}, metrics.New(), logger.Nop())
}

// withActor returns ctx carrying identity, as the auth middleware would.
func withActor(ctx context.Context, owner string, admin bool) context.Context {
	return utils.WithIdentity(ctx, models.Identity{Owner: owner, IsAdmin: admin})
}
