package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/yorlect/internal/service"
	"github.com/MKhiriev/yorlect/internal/store"
	"github.com/MKhiriev/yorlect/models"
)

// uploadRequest builds a multipart upload. A nil audio omits the file part.
func uploadRequest(t *testing.T, audio []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if audio != nil {
		part, err := mw.CreateFormFile("audio", "take-1.WAV")
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recordings", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(withActor(req.Context(), "ada", false))
}

func TestUploadRecording_Success(t *testing.T) {
	var gotMetadata models.Metadata
	recordings := &mockRecordingService{
		ingestFn: func(_ context.Context, owner string, audio []byte, name string, metadata models.Metadata) (models.Recording, error) {
			assert.Equal(t, "ada", owner)
			assert.Equal(t, []byte("RIFF"), audio)
			assert.Equal(t, "take-1.WAV", name)
			gotMetadata = metadata
			return models.Recording{ID: "rec-1", Owner: owner, StoredFilename: "rec-1.wav", Metadata: metadata}, nil
		},
	}
	h := newTestHandler(t, nil, recordings, nil)

	req := uploadRequest(t, []byte("RIFF"), map[string]string{
		"name":   "Ada",
		"age":    " 34 ",
		"prompt": "Ẹ kú àárọ̀",
		"notes":  "   ",
	})
	rec := httptest.NewRecorder()

	h.uploadRecording(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, gotMetadata.Name)
	assert.Equal(t, "Ada", *gotMetadata.Name)
	require.NotNil(t, gotMetadata.Age)
	assert.Equal(t, 34, *gotMetadata.Age)
	assert.Equal(t, "Ẹ kú àárọ̀", *gotMetadata.Prompt)
	assert.Nil(t, gotMetadata.Notes)
	assert.Nil(t, gotMetadata.Gender)

	var body models.Recording
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rec-1", body.ID)
	assert.Equal(t, "rec-1.wav", body.StoredFilename)
}

func TestUploadRecording_MissingAudio(t *testing.T) {
	h := newTestHandler(t, nil, &mockRecordingService{}, nil)

	rec := httptest.NewRecorder()
	h.uploadRecording(rec, uploadRequest(t, nil, map[string]string{"name": "Ada"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errMissingAudio.Error(), decodeError(t, rec))
}

func TestUploadRecording_InvalidAge(t *testing.T) {
	h := newTestHandler(t, nil, &mockRecordingService{}, nil)

	rec := httptest.NewRecorder()
	h.uploadRecording(rec, uploadRequest(t, []byte("RIFF"), map[string]string{"age": "thirty"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRecording_TooLarge(t *testing.T) {
	h := newTestHandler(t, nil, &mockRecordingService{}, nil)
	h.maxUploadBytes = 64

	rec := httptest.NewRecorder()
	h.uploadRecording(rec, uploadRequest(t, bytes.Repeat([]byte{1}, 1024), nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadRecording_StorageFailure(t *testing.T) {
	recordings := &mockRecordingService{
		ingestFn: func(context.Context, string, []byte, string, models.Metadata) (models.Recording, error) {
			return models.Recording{}, service.ErrStorageWrite
		},
	}
	h := newTestHandler(t, nil, recordings, nil)

	rec := httptest.NewRecorder()
	h.uploadRecording(rec, uploadRequest(t, []byte("RIFF"), nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListRecordings_EmptyIsArray(t *testing.T) {
	recordings := &mockRecordingService{
		listForOwnerFn: func(_ context.Context, owner string) ([]models.Recording, error) {
			assert.Equal(t, "ada", owner)
			return nil, nil
		},
	}
	h := newTestHandler(t, nil, recordings, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/recordings", nil)
	req = req.WithContext(withActor(req.Context(), "ada", false))
	rec := httptest.NewRecorder()

	h.listRecordings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProgress(t *testing.T) {
	recordings := &mockRecordingService{
		progressFn: func(_ context.Context, owner string) (models.Progress, error) {
			return models.Progress{Owner: owner, Completed: 3, Target: 4, Ratio: 0.75}, nil
		},
	}
	h := newTestHandler(t, nil, recordings, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/recordings/progress", nil)
	req = req.WithContext(withActor(req.Context(), "ada", false))
	rec := httptest.NewRecorder()

	h.progress(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0.75, body.Ratio)
	assert.Equal(t, "ada", body.Owner)
}

// audioRequest routes the id URL parameter the way chi would.
func audioRequest(owner, id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/recordings/"+id+"/audio", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(withActor(ctx, owner, false))
}

func TestRecordingAudio_Success(t *testing.T) {
	recordings := &mockRecordingService{
		getRecordingFn: func(_ context.Context, owner, id string) (models.Recording, error) {
			assert.Equal(t, "ada", owner)
			assert.Equal(t, "rec-1", id)
			return models.Recording{ID: id, Owner: owner, StoredFilename: "rec-1.wav"}, nil
		},
		openAudioFn: func(context.Context, models.Recording) ([]byte, error) {
			return []byte("RIFFdata"), nil
		},
	}
	h := newTestHandler(t, nil, recordings, nil)

	rec := httptest.NewRecorder()
	h.recordingAudio(rec, audioRequest("ada", "rec-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "rec-1.wav")
	assert.Equal(t, "RIFFdata", rec.Body.String())
}

func TestRecordingAudio_OtherOwnersAreNotFound(t *testing.T) {
	recordings := &mockRecordingService{
		getRecordingFn: func(context.Context, string, string) (models.Recording, error) {
			return models.Recording{}, store.ErrRecordingNotFound
		},
	}
	h := newTestHandler(t, nil, recordings, nil)

	rec := httptest.NewRecorder()
	h.recordingAudio(rec, audioRequest("joy", "rec-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnExports(t *testing.T) {
	export := &mockExportService{
		csvFn: func(_ context.Context, scope models.ExportScope) ([]byte, error) {
			assert.Equal(t, "ada", scope.Owner)
			return []byte("filename,timestamp,prompt\n"), nil
		},
		zipFn: func(_ context.Context, scope models.ExportScope) (models.ZipExport, error) {
			assert.Equal(t, "ada", scope.Owner)
			return models.ZipExport{Data: []byte("PK"), Entries: 1, Skipped: []models.SkippedEntry{{Path: "x", Reason: "gone"}}}, nil
		},
	}
	h := newTestHandler(t, nil, nil, export)

	t.Run("csv", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/recordings/export.csv", nil)
		req = req.WithContext(withActor(req.Context(), "ada", false))
		rec := httptest.NewRecorder()

		h.ownCSV(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, csvContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "ada-metadata.csv")
	})

	t.Run("zip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/recordings/export.zip", nil)
		req = req.WithContext(withActor(req.Context(), "ada", false))
		rec := httptest.NewRecorder()

		h.ownZip(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, zipContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, "1", rec.Header().Get("X-Export-Skipped"))
		assert.Equal(t, "PK", rec.Body.String())
	})
}
