// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// VersionKind is the content sub-type of a book version.
type VersionKind string

// Book version kinds
const (
	KindText     VersionKind = "text"
	KindAudio    VersionKind = "audio"
	KindReferral VersionKind = "referral"
)

// VersionKinds lists every kind in presentation order.
var VersionKinds = []VersionKind{KindText, KindAudio, KindReferral}

// Valid reports whether k is a known kind.
func (k VersionKind) Valid() bool {
	switch k {
	case KindText, KindAudio, KindReferral:
		return true
	}
	return false
}

// Book is the language independent identity of a book.
type Book struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookVersion is one language-tagged instance of a book.
type BookVersion struct {
	ID          int64            `json:"id"`
	BookID      int64            `json:"book_id"`
	Language    string           `json:"language"`
	Kind        VersionKind      `json:"kind"`
	Title       string           `json:"title"`
	Author      string           `json:"author,omitempty"`
	Description string           `json:"description,omitempty"`
	Body        string           `json:"body,omitempty"`
	CoverImage  string           `json:"cover_image,omitempty"`
	IsFree      bool             `json:"is_free"`
	Status      PublicationState `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	PublishedAt sql.NullTime     `json:"-"`
}

// IsPublished returns true if the version is published.
func (v *BookVersion) IsPublished() bool {
	return v.Status == StatePublished
}
