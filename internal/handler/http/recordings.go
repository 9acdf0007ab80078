package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/yorlect/internal/audio"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

// multipartMemory is the part of a multipart form kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

const (
	csvContentType = "text/csv; charset=utf-8"
	zipContentType = "application/zip"
)

func (h *Handler) uploadRecording(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, fmt.Errorf("%w: %d bytes", errUploadTooLarge, tooLarge.Limit), "upload rejected")
			return
		}
		writeServiceError(w, r, fmt.Errorf("%w: %w", errMalformedPayload, err), "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = errMissingAudio
		}
		writeServiceError(w, r, err, "audio part is missing")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: %w", errMalformedPayload, err), "error reading audio part")
		return
	}

	metadata, err := metadataFromForm(r)
	if err != nil {
		writeServiceError(w, r, err, "invalid metadata")
		return
	}

	rec, err := h.services.RecordingService.Ingest(r.Context(), identity.Owner, data, header.Filename, metadata)
	if err != nil {
		writeServiceError(w, r, err, "recording ingestion failed")
		return
	}

	logger.FromRequest(r).Info().Str("owner", rec.Owner).Str("id", rec.ID).Int("bytes", len(data)).Msg("recording stored")
	utils.WriteJSON(w, rec, http.StatusCreated)
}

// metadataFromForm reads the optional speaker fields. Blank fields stay nil.
func metadataFromForm(r *http.Request) (models.Metadata, error) {
	var metadata models.Metadata

	metadata.Name = formValue(r, "name")
	metadata.Gender = formValue(r, "gender")
	metadata.Locale = formValue(r, "locale")
	metadata.Notes = formValue(r, "notes")
	metadata.Prompt = formValue(r, "prompt")

	if raw := formValue(r, "age"); raw != nil {
		age, err := strconv.Atoi(*raw)
		if err != nil {
			return models.Metadata{}, fmt.Errorf("%w: %q", errInvalidAge, *raw)
		}
		metadata.Age = &age
	}

	return metadata, nil
}

func formValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}

func (h *Handler) listRecordings(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	recordings, err := h.services.RecordingService.ListForOwner(r.Context(), identity.Owner)
	if err != nil {
		writeServiceError(w, r, err, "error listing recordings")
		return
	}

	utils.WriteJSON(w, nonNil(recordings), http.StatusOK)
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	progress, err := h.services.RecordingService.Progress(r.Context(), identity.Owner)
	if err != nil {
		writeServiceError(w, r, err, "error computing progress")
		return
	}

	utils.WriteJSON(w, progress, http.StatusOK)
}

// recordingAudio serves the caller's own audio file. Recordings of other
// owners are reported as not found.
func (h *Handler) recordingAudio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := utils.GetIdentityFromContext(ctx)

	rec, err := h.services.RecordingService.GetRecording(ctx, identity.Owner, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "error looking up recording")
		return
	}

	data, err := h.services.RecordingService.OpenAudio(ctx, rec)
	if err != nil {
		writeServiceError(w, r, err, "error reading audio")
		return
	}

	utils.WriteAttachment(w, audio.ContentType(rec.StoredFilename), rec.StoredFilename, data)
}

func (h *Handler) ownCSV(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())
	h.writeCSV(w, r, models.ExportScope{Owner: identity.Owner})
}

func (h *Handler) ownZip(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())
	h.writeZip(w, r, models.ExportScope{Owner: identity.Owner})
}

func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, scope models.ExportScope) {
	data, err := h.services.ExportService.ExportMetadataCSV(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, err, "error exporting metadata")
		return
	}

	utils.WriteAttachment(w, csvContentType, scope.String()+"-metadata.csv", data)
}

// writeZip sends the audio bundle; the number of files left out is
// reported in X-Export-Skipped.
func (h *Handler) writeZip(w http.ResponseWriter, r *http.Request, scope models.ExportScope) {
	export, err := h.services.ExportService.ExportZip(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, err, "error exporting audio")
		return
	}

	w.Header().Set("X-Export-Skipped", strconv.Itoa(len(export.Skipped)))
	utils.WriteAttachment(w, zipContentType, scope.String()+"-audio.zip", export.Data)
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
