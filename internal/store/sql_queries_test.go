// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/yorlect/internal/config"
	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/models"
)

func TestQueries_Placeholders(t *testing.T) {
	tests := []struct {
		driver     string
		wantSelect string
		wantInsert string
	}{
		{
			driver:     config.DriverPostgres,
			wantSelect: "SELECT id, username, filename, filepath, name, age, gender, locale, notes, prompt, duration_seconds, created_at FROM recordings WHERE username = $1 ORDER BY created_at DESC, id DESC",
			wantInsert: "INSERT INTO users (username,password_hash,is_admin,created_at) VALUES ($1,$2,$3,$4)",
		},
		{
			driver:     config.DriverSQLite,
			wantSelect: "SELECT id, username, filename, filepath, name, age, gender, locale, notes, prompt, duration_seconds, created_at FROM recordings WHERE username = ? ORDER BY created_at DESC, id DESC",
			wantInsert: "INSERT INTO users (username,password_hash,is_admin,created_at) VALUES (?,?,?,?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			db := newDB(&sql.DB{}, tt.driver, logger.Nop())

			query, args, err := db.selectRecordingsQuery(squirrel.Eq{"username": "joy"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSelect, query)
			assert.Equal(t, []any{"joy"}, args)

			query, args, err = db.insertUserQuery(models.User{Username: "joy", PasswordHash: "h", CreatedAt: time.Unix(0, 0)})
			require.NoError(t, err)
			assert.Equal(t, tt.wantInsert, query)
			assert.Len(t, args, 4)
		})
	}
}

func TestQueries_InsertRecordingStoresUTC(t *testing.T) {
	db := newDB(&sql.DB{}, config.DriverSQLite, logger.Nop())
	local := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3*3600))

	_, args, err := db.insertRecordingQuery(models.Recording{ID: "id", Owner: "joy", CreatedAt: local})
	require.NoError(t, err)
	require.Len(t, args, len(recordingColumns))

	createdAt, ok := args[len(args)-1].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, createdAt.Location())
	assert.True(t, createdAt.Equal(local))
}

func TestQueries_OwnersAndAdmins(t *testing.T) {
	db := newDB(&sql.DB{}, config.DriverPostgres, logger.Nop())

	query, _, err := db.selectOwnersQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT username FROM recordings ORDER BY username", query)

	query, args, err := db.countAdminsQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM users WHERE is_admin = $1", query)
	assert.Equal(t, []any{true}, args)

	query, _, err = db.deleteRecordingsQuery()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM recordings", query)
}
