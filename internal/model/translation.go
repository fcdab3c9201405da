// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Taxonomy kinds
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "tag"
)

// TaxonomyNode is a category or tag. Both kinds share the same shape and the
// same parent invariants.
type TaxonomyNode struct {
	ID          int64         `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	ParentID    sql.NullInt64 `json:"-"`
	Position    int64         `json:"position"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Parent returns the parent id or nil for root nodes.
func (n *TaxonomyNode) Parent() *int64 {
	if !n.ParentID.Valid {
		return nil
	}
	id := n.ParentID.Int64
	return &id
}

// TaxonomyTranslation is a language specific name and slug of a taxonomy node.
type TaxonomyTranslation struct {
	ID        int64     `json:"id"`
	NodeID    int64     `json:"node_id"`
	Language  string    `json:"language"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// TaxonomyLabel is the localized display of one taxonomy node.
type TaxonomyLabel struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}
