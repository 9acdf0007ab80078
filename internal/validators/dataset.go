// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/MKhiriev/yorlect/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldName targets the speaker name of recording metadata.
	FieldName = "name"

	// FieldAge targets the speaker age of recording metadata.
	FieldAge = "age"

	// FieldGender targets the free-text gender of recording metadata.
	FieldGender = "gender"

	// FieldLocale targets the locale or dialect of recording metadata.
	FieldLocale = "locale"

	// FieldNotes targets the recording notes.
	FieldNotes = "notes"

	// FieldPrompt targets the prompt the speaker read.
	FieldPrompt = "prompt"

	// FieldUsername targets the raw username of credentials.
	FieldUsername = "username"

	// FieldPassword targets the password of credentials.
	FieldPassword = "password"

	// FieldConfirmPassword enforces that a supplied confirmation matches
	// the password.
	FieldConfirmPassword = "confirm_password"

	// FieldSecret targets the shared admin secret.
	FieldSecret = "secret"
)

const (
	minAge = 0
	maxAge = 120

	// maxShortText bounds name, gender, locale and username.
	maxShortText = 256
	// maxLongText bounds notes and prompt.
	maxLongText = 4096
)

// DatasetValidator implements the Validator interface for the inputs of
// the dataset API: recording metadata, user credentials and admin
// credentials.
type DatasetValidator struct {
}

// NewDatasetValidator constructs a new DatasetValidator
// and returns it as the Validator interface.
func NewDatasetValidator() Validator {
	return &DatasetValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.Metadata / *models.Metadata
//   - models.Credentials / *models.Credentials
//   - models.AdminCredentials / *models.AdminCredentials
//
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *DatasetValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Metadata:
		return v.validateMetadata(ctx, value, fields...)
	case *models.Metadata:
		return v.validateMetadata(ctx, *value, fields...)

	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	case models.AdminCredentials:
		return v.validateAdminCredentials(ctx, value, fields...)
	case *models.AdminCredentials:
		return v.validateAdminCredentials(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateMetadata checks optional recording metadata. Absent (nil) fields
// are always valid.
//
// Default validated fields: every metadata field.
func (v *DatasetValidator) validateMetadata(ctx context.Context, meta models.Metadata, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldAge, FieldGender, FieldLocale, FieldNotes, FieldPrompt}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := checkLength(FieldName, meta.Name, maxShortText); err != nil {
				return err
			}
		case FieldAge:
			if meta.Age != nil && (*meta.Age < minAge || *meta.Age > maxAge) {
				return ErrInvalidAge
			}
		case FieldGender:
			if err := checkLength(FieldGender, meta.Gender, maxShortText); err != nil {
				return err
			}
		case FieldLocale:
			if err := checkLength(FieldLocale, meta.Locale, maxShortText); err != nil {
				return err
			}
		case FieldNotes:
			if err := checkLength(FieldNotes, meta.Notes, maxLongText); err != nil {
				return err
			}
		case FieldPrompt:
			if err := checkLength(FieldPrompt, meta.Prompt, maxLongText); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateCredentials checks a register or login payload.
//
// Default validated fields: Username, Password, ConfirmPassword. The
// confirmation is only compared when it is supplied. Username mode logins
// pass FieldUsername alone.
func (v *DatasetValidator) validateCredentials(ctx context.Context, creds models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword, FieldConfirmPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if creds.Username == "" {
				return ErrEmptyUsername
			}
			if utf8.RuneCountInString(creds.Username) > maxShortText {
				return fmt.Errorf("%w: %s", ErrFieldTooLong, FieldUsername)
			}
		case FieldPassword:
			if creds.Password == "" {
				return ErrEmptyPassword
			}
		case FieldConfirmPassword:
			if creds.ConfirmPassword != "" && creds.ConfirmPassword != creds.Password {
				return ErrPasswordMismatch
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DatasetValidator) validateAdminCredentials(ctx context.Context, creds models.AdminCredentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSecret}
	}

	for _, f := range fields {
		switch f {
		case FieldSecret:
			if creds.Secret == "" {
				return ErrEmptySecret
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func checkLength(field string, value *string, limit int) error {
	if value != nil && utf8.RuneCountInString(*value) > limit {
		return fmt.Errorf("%w: %s", ErrFieldTooLong, field)
	}
	return nil
}
