// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Metadata holds the speaker-supplied attributes attached to a recording.
// Every field is optional; an absent field stays nil and is exported as an
// empty value, never treated as an error.
type Metadata struct {
	// Name is the full name or speaker ID.
	Name *string `json:"name,omitempty" db:"name"`

	// Age is the speaker age in years.
	Age *int `json:"age,omitempty" db:"age"`

	// Gender is free text (e.g. "Female", "Prefer not to say").
	Gender *string `json:"gender,omitempty" db:"gender"`

	// Locale is the locale or dialect of the recording (e.g. "Oyo").
	Locale *string `json:"locale,omitempty" db:"locale"`

	// Notes describes recording conditions, microphone, context.
	Notes *string `json:"notes,omitempty" db:"notes"`

	// Prompt is the text the speaker was asked to read.
	Prompt *string `json:"prompt,omitempty" db:"prompt"`
}
