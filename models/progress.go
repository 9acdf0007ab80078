// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Progress summarizes how far an owner is towards the recording target.
type Progress struct {
	Owner     string  `json:"owner"`
	Completed int     `json:"completed"`
	Target    int     `json:"target"`
	Ratio     float64 `json:"ratio"`

	// TotalSeconds sums the durations that could be computed.
	TotalSeconds float64 `json:"total_seconds"`
}
