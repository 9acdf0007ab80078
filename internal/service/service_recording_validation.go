package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/yorlect/internal/validators"
	"github.com/MKhiriev/yorlect/models"
)

// RecordingValidationService normalizes owners and rejects bad input before
// anything reaches the inner RecordingService.
type RecordingValidationService struct {
	inner     RecordingService
	validator validators.Validator
}

func NewRecordingValidationService() RecordingServiceWrapper {
	return &RecordingValidationService{
		validator: validators.NewDatasetValidator(),
	}
}

func (v *RecordingValidationService) Ingest(ctx context.Context, owner string, audio []byte, originalFilename string, metadata models.Metadata) (models.Recording, error) {
	owner, err := normalizeOwner(owner)
	if err != nil {
		return models.Recording{}, err
	}
	if len(audio) == 0 {
		return models.Recording{}, fmt.Errorf("%w: audio is empty", ErrValidation)
	}
	if err = v.validator.Validate(ctx, metadata); err != nil {
		return models.Recording{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.Ingest(ctx, owner, audio, originalFilename, metadata)
}

func (v *RecordingValidationService) ListForOwner(ctx context.Context, owner string) ([]models.Recording, error) {
	owner, err := normalizeOwner(owner)
	if err != nil {
		return nil, err
	}
	return v.inner.ListForOwner(ctx, owner)
}

func (v *RecordingValidationService) ListAll(ctx context.Context) ([]models.Recording, error) {
	return v.inner.ListAll(ctx)
}

func (v *RecordingValidationService) ListOwners(ctx context.Context) ([]string, error) {
	return v.inner.ListOwners(ctx)
}

func (v *RecordingValidationService) GetRecording(ctx context.Context, owner, id string) (models.Recording, error) {
	owner, err := normalizeOwner(owner)
	if err != nil {
		return models.Recording{}, err
	}
	if id == "" {
		return models.Recording{}, fmt.Errorf("%w: empty recording id", ErrValidation)
	}
	return v.inner.GetRecording(ctx, owner, id)
}

func (v *RecordingValidationService) OpenAudio(ctx context.Context, rec models.Recording) ([]byte, error) {
	return v.inner.OpenAudio(ctx, rec)
}

func (v *RecordingValidationService) Progress(ctx context.Context, owner string) (models.Progress, error) {
	owner, err := normalizeOwner(owner)
	if err != nil {
		return models.Progress{}, err
	}
	return v.inner.Progress(ctx, owner)
}

func (v *RecordingValidationService) DeleteAll(ctx context.Context) (models.DeleteReport, error) {
	return v.inner.DeleteAll(ctx)
}

func (v *RecordingValidationService) Wrap(wrapper RecordingService) RecordingService {
	v.inner = wrapper
	return v
}
