// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/models"
)

// metadataFileName is the per-owner index of the filesystem backend. The
// audio file area never treats it as a recording.
const metadataFileName = "metadata.json"

// ownerPattern matches normalized owner tokens. Anything else could escape
// the storage root and is rejected.
var ownerPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// audioFiles is the audio area shared by both dataset backends: one
// directory per owner under root holding files named {id}{ext}.
type audioFiles struct {
	root string
}

func newAudioFiles(root string) (*audioFiles, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data dir %q: %w", root, err)
	}
	return &audioFiles{root: root}, nil
}

func (a *audioFiles) ownerDir(owner string) (string, error) {
	if !ownerPattern.MatchString(owner) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOwner, owner)
	}
	return filepath.Join(a.root, owner), nil
}

func (a *audioFiles) filePath(owner, filename string) (string, error) {
	dir, err := a.ownerDir(owner)
	if err != nil {
		return "", err
	}
	if filename == "" || filename != filepath.Base(filename) || filename == metadataFileName {
		return "", fmt.Errorf("%w: bad file name %q", ErrReadingAudio, filename)
	}
	return filepath.Join(dir, filename), nil
}

// ensureNamespace creates the owner's directory. It is idempotent.
func (a *audioFiles) ensureNamespace(owner string) (string, error) {
	dir, err := a.ownerDir(owner)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWritingAudio, err)
	}
	return dir, nil
}

// save writes data to a new file. The handle is closed on every path and a
// partially written file is removed.
func (a *audioFiles) save(ctx context.Context, owner, filename string, data []byte) (path string, err error) {
	log := logger.FromContext(ctx)

	if _, err = a.ensureNamespace(owner); err != nil {
		return "", err
	}
	if path, err = a.filePath(owner, filename); err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.Err(err).Str("func", "audioFiles.save").Str("path", path).Msg("error creating audio file")
		return "", fmt.Errorf("%w: %w", ErrWritingAudio, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWritingAudio, closeErr)
		}
		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				log.Warn().Err(rmErr).Str("path", path).Msg("could not remove partial audio file")
			}
			path = ""
		}
	}()

	if _, err = f.Write(data); err != nil {
		log.Err(err).Str("func", "audioFiles.save").Str("path", path).Msg("error writing audio file")
		return path, fmt.Errorf("%w: %w", ErrWritingAudio, err)
	}

	return path, nil
}

func (a *audioFiles) read(owner, filename string) ([]byte, error) {
	path, err := a.filePath(owner, filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingAudio, err)
	}
	return data, nil
}

// owners returns the sorted names of owner directories under root.
func (a *audioFiles) owners() ([]string, error) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("error listing data dir: %w", err)
	}

	owners := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && ownerPattern.MatchString(e.Name()) {
			owners = append(owners, e.Name())
		}
	}
	sort.Strings(owners)

	return owners, nil
}

// removeAll deletes every audio file under root. Failures are collected and
// the loop continues. The metadata index files are left for the caller.
func (a *audioFiles) removeAll(ctx context.Context) models.DeleteReport {
	log := logger.FromContext(ctx)
	report := models.DeleteReport{}

	fail := func(path string, err error) {
		log.Warn().Err(err).Str("path", path).Msg("could not remove file during bulk delete")
		report.Failures = append(report.Failures, models.SkippedEntry{Path: path, Reason: err.Error()})
	}

	ownerEntries, err := os.ReadDir(a.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fail(a.root, err)
		}
		return report
	}

	for _, ownerEntry := range ownerEntries {
		if !ownerEntry.IsDir() {
			continue
		}
		dir := filepath.Join(a.root, ownerEntry.Name())

		files, err := os.ReadDir(dir)
		if err != nil {
			fail(dir, err)
			continue
		}

		for _, file := range files {
			if file.IsDir() || strings.HasPrefix(file.Name(), metadataFileName) {
				continue
			}
			path := filepath.Join(dir, file.Name())
			if err := os.Remove(path); err != nil {
				fail(path, err)
				continue
			}
			report.FilesRemoved++
		}
	}

	return report
}

// removeEmptyNamespaces drops owner directories left empty by removeAll.
func (a *audioFiles) removeEmptyNamespaces(ctx context.Context) {
	log := logger.FromContext(ctx)

	owners, err := a.owners()
	if err != nil {
		log.Warn().Err(err).Msg("could not list namespaces after bulk delete")
		return
	}
	for _, owner := range owners {
		// os.Remove fails on non-empty directories, which keeps survivors
		if err := os.Remove(filepath.Join(a.root, owner)); err != nil {
			log.Debug().Err(err).Str("owner", owner).Msg("namespace kept")
		}
	}
}
