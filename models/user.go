// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents a registered speaker or administrator account.
// It exists only when the service runs in the password identity mode.
type User struct {
	// Username is the unique, normalized login of the user. It doubles as
	// the name of the user's storage namespace.
	Username string `json:"username" db:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized to JSON.
	PasswordHash string `json:"-" db:"password_hash"`

	// IsAdmin grants access to the dataset-wide views and exports.
	IsAdmin bool `json:"is_admin" db:"is_admin"`

	// CreatedAt is the UTC time of account creation.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the payload of the register and login requests.
type Credentials struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// AdminCredentials is the payload of the shared-secret admin login.
type AdminCredentials struct {
	Secret string `json:"secret"`
}

// Identity is the resolved actor of a request.
type Identity struct {
	// Owner is the normalized username the actor acts as.
	Owner string `json:"owner"`

	// IsAdmin reports whether the actor may use privileged operations.
	IsAdmin bool `json:"is_admin"`
}
