// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/ocms-books/internal/model"
)

const pageColumns = `id, slug, language, title, description, body, cover_image,
	status, published_at, created_at, updated_at`

func scanPage(row rowScanner) (model.Page, error) {
	var p model.Page
	err := row.Scan(
		&p.ID, &p.Slug, &p.Language, &p.Title, &p.Description, &p.Body,
		&p.CoverImage, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreatePageParams holds the fields for a new page row.
type CreatePageParams struct {
	Slug        string
	Language    string
	Title       string
	Description string
	Body        string
	CoverImage  string
	Status      model.PublicationState
	PublishedAt sql.NullTime
	CreatedAt   time.Time
}

// CreatePage inserts one language variant of a page.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO pages (slug, language, title, description, body, cover_image,
			status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		arg.Slug, arg.Language, arg.Title, arg.Description, arg.Body, arg.CoverImage,
		arg.Status, arg.PublishedAt, arg.CreatedAt, arg.CreatedAt,
	)
	return scanPage(row)
}

// GetPage returns the page row with the given id.
func (q *Queries) GetPage(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	return p, notFound(err)
}

// ListPagesBySlug returns every language variant of a page in insertion order.
func (q *Queries) ListPagesBySlug(ctx context.Context, slug string, publishedOnly bool) ([]model.Page, error) {
	return q.listPages(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ?`+statusFilter(publishedOnly)+` ORDER BY id`,
		slug,
	)
}

// ListPublishedPages returns all published page rows ordered by slug.
func (q *Queries) ListPublishedPages(ctx context.Context) ([]model.Page, error) {
	return q.listPages(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE status = 'published' ORDER BY slug, id`,
	)
}

func (q *Queries) listPages(ctx context.Context, query string, args ...any) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// UpdatePagePublication stores a publication transition of a page row.
func (q *Queries) UpdatePagePublication(ctx context.Context, arg UpdatePublicationParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE pages SET status = ?, published_at = ?, updated_at = COALESCE(?, updated_at) WHERE id = ?`,
		arg.Status, arg.PublishedAt, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
