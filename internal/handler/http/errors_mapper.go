package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/service"
	"github.com/MKhiriev/yorlect/internal/store"
	"github.com/MKhiriev/yorlect/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:              http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrForbidden:               http.StatusForbidden,
	service.ErrStorageWrite:            http.StatusInternalServerError,
	service.ErrPublishDisabled:         http.StatusNotFound,

	store.ErrUserAlreadyExists: http.StatusConflict,
	store.ErrRecordingNotFound: http.StatusNotFound,
	store.ErrInvalidOwner:      http.StatusBadRequest,

	errMissingAudio:     http.StatusBadRequest,
	errInvalidAge:       http.StatusBadRequest,
	errConfirmRequired:  http.StatusBadRequest,
	errMalformedPayload: http.StatusBadRequest,
	errUploadTooLarge:   http.StatusRequestEntityTooLarge,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and answers with its mapped status. Messages of
// server-side failures are not exposed to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		log.Err(err).Msg(msg)
		utils.WriteError(w, http.StatusText(status), status)
		return
	}

	log.Debug().Err(err).Int("status", status).Msg(msg)
	utils.WriteError(w, err.Error(), status)
}
