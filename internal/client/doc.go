// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the yorlect command-line client.
//
// It wires the cobra command tree to the API adapter and keeps the bearer
// token in a session file between invocations.
package client
