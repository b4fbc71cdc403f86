// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

// Sentinel errors shared across layers. Wrap them with fmt.Errorf and test
// with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrDepthExceeded = errors.New("menu depth exceeded")
	ErrOrphanItem    = errors.New("parent item does not exist")
)
