// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// SeoRecord holds optional search metadata owned by exactly one book version
// or page row.
type SeoRecord struct {
	ID                 int64
	BookVersionID      sql.NullInt64
	PageID             sql.NullInt64
	Language           string
	Title              string
	Description        string
	Keywords           string
	CanonicalURL       string // stored but never emitted for book and page bundles
	OGTitle            string
	OGDescription      string
	OGImage            string
	OGType             string
	TwitterCard        string
	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string
	NoIndex            bool
	NoFollow           bool
	EventName          string
	EventStartDate     sql.NullTime
	EventEndDate       sql.NullTime
	EventLocation      string
	EventURL           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasEvent reports whether the record carries any event field.
func (r *SeoRecord) HasEvent() bool {
	return r.EventName != "" ||
		r.EventStartDate.Valid ||
		r.EventEndDate.Valid ||
		r.EventLocation != "" ||
		r.EventURL != ""
}
