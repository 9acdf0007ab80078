// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"github.com/Masterminds/squirrel"

	"github.com/MKhiriev/yorlect/models"
)

var (
	recordingsTable = models.Recording{}.TableName()
	usersTable      = models.User{}.TableName()
)

var recordingColumns = []string{
	"id",
	"username",
	"filename",
	"filepath",
	"name",
	"age",
	"gender",
	"locale",
	"notes",
	"prompt",
	"duration_seconds",
	"created_at",
}

var userColumns = []string{
	"username",
	"password_hash",
	"is_admin",
	"created_at",
}

// newestFirst is the listing order of every recording query. The id is a
// UUIDv7 and breaks ties between equal timestamps in creation order.
var newestFirst = []string{"created_at DESC", "id DESC"}

func (db *DB) insertRecordingQuery(rec models.Recording) (string, []any, error) {
	return db.builder.
		Insert(recordingsTable).
		Columns(recordingColumns...).
		Values(
			rec.ID,
			rec.Owner,
			rec.StoredFilename,
			rec.StoragePath,
			rec.Name,
			rec.Age,
			rec.Gender,
			rec.Locale,
			rec.Notes,
			rec.Prompt,
			rec.DurationSeconds,
			rec.CreatedAt.UTC(),
		).
		ToSql()
}

func (db *DB) selectRecordingsQuery(where squirrel.Sqlizer) (string, []any, error) {
	query := db.builder.
		Select(recordingColumns...).
		From(recordingsTable).
		OrderBy(newestFirst...)
	if where != nil {
		query = query.Where(where)
	}
	return query.ToSql()
}

func (db *DB) selectOwnersQuery() (string, []any, error) {
	return db.builder.
		Select("username").
		Distinct().
		From(recordingsTable).
		OrderBy("username").
		ToSql()
}

func (db *DB) deleteRecordingsQuery() (string, []any, error) {
	return db.builder.Delete(recordingsTable).ToSql()
}

func (db *DB) insertUserQuery(user models.User) (string, []any, error) {
	return db.builder.
		Insert(usersTable).
		Columns(userColumns...).
		Values(user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt.UTC()).
		ToSql()
}

func (db *DB) selectUsersQuery(where squirrel.Sqlizer) (string, []any, error) {
	query := db.builder.
		Select(userColumns...).
		From(usersTable).
		OrderBy("username")
	if where != nil {
		query = query.Where(where)
	}
	return query.ToSql()
}

func (db *DB) countAdminsQuery() (string, []any, error) {
	return db.builder.
		Select("COUNT(*)").
		From(usersTable).
		Where(squirrel.Eq{"is_admin": true}).
		ToSql()
}
