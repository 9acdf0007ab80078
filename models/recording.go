// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Recording is one stored audio file together with its index entry.
//
// StoredFilename and StoragePath are always derived from ID and the
// recognized extension, never from the name supplied by the uploader.
type Recording struct {
	// ID is a UUIDv7 generated at ingestion.
	ID string `json:"id" db:"id"`

	// Owner is the normalized username the recording belongs to.
	Owner string `json:"owner" db:"username"`

	// StoredFilename is "{ID}{ext}".
	StoredFilename string `json:"filename" db:"filename"`

	// StoragePath is "{data dir}/{Owner}/{StoredFilename}".
	StoragePath string `json:"filepath" db:"filepath"`

	Metadata

	// DurationSeconds is best-effort and nil when it cannot be computed.
	DurationSeconds *float64 `json:"duration_seconds" db:"duration_seconds"`

	// CreatedAt is the UTC ingestion time.
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}

// TableName returns the name of the database table
// associated with the Recording model.
func (r Recording) TableName() string {
	return "recordings"
}
