package http

import (
	"net/http"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

func (h *Handler) adminRecordings(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.services.RecordingService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "error listing recordings")
		return
	}

	utils.WriteJSON(w, nonNil(recordings), http.StatusOK)
}

func (h *Handler) adminOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.services.RecordingService.ListOwners(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "error listing owners")
		return
	}

	utils.WriteJSON(w, nonNil(owners), http.StatusOK)
}

func (h *Handler) adminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.AuthService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "error listing users")
		return
	}

	utils.WriteJSON(w, nonNil(users), http.StatusOK)
}

func (h *Handler) adminCSV(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err, "invalid export scope")
		return
	}
	h.writeCSV(w, r, scope)
}

func (h *Handler) adminZip(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err, "invalid export scope")
		return
	}
	h.writeZip(w, r, scope)
}

func (h *Handler) adminPublish(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err, "invalid export scope")
		return
	}

	result, err := h.services.ExportService.PublishZip(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, err, "error publishing export")
		return
	}

	logger.FromRequest(r).Info().Str("bucket", result.Bucket).Str("key", result.Key).Int("entries", result.Entries).Msg("export published")
	utils.WriteJSON(w, result, http.StatusCreated)
}

// adminDeleteAll wipes the dataset. The request must carry confirm=true.
func (h *Handler) adminDeleteAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeServiceError(w, r, errConfirmRequired, "bulk delete not confirmed")
		return
	}

	report, err := h.services.RecordingService.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "bulk delete failed")
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}

// scopeFromQuery reads the optional ?owner= filter. The owner is normalized
// the same way usernames are.
func (h *Handler) scopeFromQuery(r *http.Request) (models.ExportScope, error) {
	raw := r.URL.Query().Get("owner")
	if raw == "" {
		return models.ExportScope{}, nil
	}

	owner, err := h.services.AuthService.NormalizeOwner(raw)
	if err != nil {
		return models.ExportScope{}, err
	}
	return models.ExportScope{Owner: owner}, nil
}
