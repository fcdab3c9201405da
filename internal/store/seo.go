// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/ocms-books/internal/model"
)

const seoColumns = `id, book_version_id, page_id, language, title, description, keywords, canonical_url,
	og_title, og_description, og_image, og_type,
	twitter_card, twitter_title, twitter_description, twitter_image,
	no_index, no_follow,
	event_name, event_start_date, event_end_date, event_location, event_url,
	created_at, updated_at`

func scanSeo(row rowScanner) (model.SeoRecord, error) {
	var r model.SeoRecord
	err := row.Scan(
		&r.ID, &r.BookVersionID, &r.PageID, &r.Language, &r.Title, &r.Description, &r.Keywords, &r.CanonicalURL,
		&r.OGTitle, &r.OGDescription, &r.OGImage, &r.OGType,
		&r.TwitterCard, &r.TwitterTitle, &r.TwitterDescription, &r.TwitterImage,
		&r.NoIndex, &r.NoFollow,
		&r.EventName, &r.EventStartDate, &r.EventEndDate, &r.EventLocation, &r.EventURL,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// GetSeoForVersion returns the search metadata owned by a book version.
func (q *Queries) GetSeoForVersion(ctx context.Context, versionID int64) (model.SeoRecord, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+seoColumns+` FROM seo_records WHERE book_version_id = ?`, versionID)
	r, err := scanSeo(row)
	return r, notFound(err)
}

// GetSeoForPage returns the search metadata owned by a page row.
func (q *Queries) GetSeoForPage(ctx context.Context, pageID int64) (model.SeoRecord, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+seoColumns+` FROM seo_records WHERE page_id = ?`, pageID)
	r, err := scanSeo(row)
	return r, notFound(err)
}

// CreateSeoRecord inserts search metadata. Exactly one of BookVersionID and
// PageID must be set.
func (q *Queries) CreateSeoRecord(ctx context.Context, r model.SeoRecord) (model.SeoRecord, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO seo_records (book_version_id, page_id, language, title, description, keywords, canonical_url,
			og_title, og_description, og_image, og_type,
			twitter_card, twitter_title, twitter_description, twitter_image,
			no_index, no_follow,
			event_name, event_start_date, event_end_date, event_location, event_url,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+seoColumns,
		r.BookVersionID, r.PageID, r.Language, r.Title, r.Description, r.Keywords, r.CanonicalURL,
		r.OGTitle, r.OGDescription, r.OGImage, r.OGType,
		r.TwitterCard, r.TwitterTitle, r.TwitterDescription, r.TwitterImage,
		r.NoIndex, r.NoFollow,
		r.EventName, r.EventStartDate, r.EventEndDate, r.EventLocation, r.EventURL,
		r.CreatedAt, r.CreatedAt,
	)
	return scanSeo(row)
}
