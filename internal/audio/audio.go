// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package audio holds the container-level rules for stored recordings:
// which file extensions are kept, the content type served for each, and
// best-effort WAV duration estimation.
package audio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
)

// FallbackExtension is used when the uploaded filename has no extension or
// an unrecognized one.
const FallbackExtension = ".wav"

var contentTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".flac": "audio/flac",
}

// ErrNotWAV is returned by Duration for streams without a valid RIFF/WAVE header.
var ErrNotWAV = errors.New("not a valid wav stream")

// Extension derives the stored extension from a client-supplied filename.
// Only the lower-cased suffix is looked at; the rest of the name is never
// used for storage.
func Extension(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if _, ok := contentTypes[ext]; ok {
		return ext
	}
	return FallbackExtension
}

// IsWAV reports whether ext denotes the WAV container.
func IsWAV(ext string) bool {
	return strings.EqualFold(ext, ".wav")
}

// ContentType returns the MIME type served for a stored file name.
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Duration returns the playback length of a WAV stream in seconds, computed
// as PCM frames divided by the sample rate.
func Duration(r io.ReadSeeker) (float64, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return 0, ErrNotWAV
	}

	if err := decoder.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("error seeking to pcm data: %w", err)
	}

	blockAlign := int64(decoder.NumChans) * int64(decoder.BitDepth) / 8
	if blockAlign == 0 || decoder.SampleRate == 0 {
		return 0, fmt.Errorf("%w: empty format chunk", ErrNotWAV)
	}

	frames := decoder.PCMLen() / blockAlign
	return float64(frames) / float64(decoder.SampleRate), nil
}
