// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// PublicationState is the visibility state of a content variant.
type PublicationState string

// Publication states
const (
	StateDraft     PublicationState = "draft"
	StatePublished PublicationState = "published"
)

// Valid reports whether s is one of the known states.
func (s PublicationState) Valid() bool {
	return s == StateDraft || s == StatePublished
}

// Page is one language row of a standalone page. Rows sharing a slug form
// one logical page.
type Page struct {
	ID          int64            `json:"id"`
	Slug        string           `json:"slug"`
	Language    string           `json:"language"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Body        string           `json:"body"`
	CoverImage  string           `json:"cover_image,omitempty"`
	Status      PublicationState `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	PublishedAt sql.NullTime     `json:"-"`
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == StatePublished
}

// IsDraft returns true if the page is a draft.
func (p *Page) IsDraft() bool {
	return p.Status == StateDraft
}
