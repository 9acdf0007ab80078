// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ExportScope selects which recordings an export covers.
// The zero value covers the whole dataset.
type ExportScope struct {
	// Owner restricts the export to a single owner when non-empty.
	Owner string
}

// All reports whether the scope covers every owner.
func (s ExportScope) All() bool {
	return s.Owner == ""
}

// String returns "all" or the owner name.
func (s ExportScope) String() string {
	if s.All() {
		return "all"
	}
	return s.Owner
}

// SkippedEntry records a file that could not be processed during an
// export or a bulk delete.
type SkippedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ZipExport is an in-memory zip archive of audio files.
type ZipExport struct {
	Data    []byte         `json:"-"`
	Entries int            `json:"entries"`
	Skipped []SkippedEntry `json:"skipped,omitempty"`
}

// PublishResult describes an export bundle uploaded to object storage.
type PublishResult struct {
	Bucket  string         `json:"bucket"`
	Key     string         `json:"key"`
	Size    int            `json:"size"`
	Entries int            `json:"entries"`
	Skipped []SkippedEntry `json:"skipped,omitempty"`
}

// DeleteReport is the outcome of the administrator bulk delete.
// The operation succeeds even when Failures is not empty.
type DeleteReport struct {
	FilesRemoved int            `json:"files_removed"`
	Failures     []SkippedEntry `json:"failures,omitempty"`
}
