// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

var (
	// ErrNotFound means the content identity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoVisibleVariant means the identity exists but none of its variants
	// is visible to the caller.
	ErrNoVisibleVariant = errors.New("no visible variant")
)
