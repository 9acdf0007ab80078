// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks recording metadata and login payloads before
// they reach the services.
package validators

import "context"

// Validator checks obj and returns an error wrapping ErrValidation on the
// first broken rule. fields, when given, limits the check to those names.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
