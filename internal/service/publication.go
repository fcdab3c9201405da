// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/publish"
	"github.com/olegiv/ocms-books/internal/store"
)

// SetVersionPublication publishes or unpublishes a book version. Repeating
// the current state succeeds without touching the row.
func (c *Catalog) SetVersionPublication(ctx context.Context, id int64, action publish.Action) (model.BookVersion, error) {
	var (
		version model.BookVersion
		changed bool
	)
	err := store.InTx(ctx, c.db, func(q *store.Queries) error {
		v, err := q.GetBookVersion(ctx, id)
		if err != nil {
			return fmt.Errorf("version %d: %w", id, err)
		}

		res, err := publish.Apply(v.Status, v.PublishedAt, action, c.now().UTC())
		if err != nil {
			return err
		}
		if res.Changed {
			err = q.UpdateVersionPublication(ctx, store.UpdatePublicationParams{
				ID:          id,
				Status:      res.State,
				PublishedAt: res.PublishedAt,
				UpdatedAt:   sql.NullTime{Time: c.now().UTC(), Valid: true},
			})
			if err != nil {
				return fmt.Errorf("updating version %d: %w", id, err)
			}
		}

		version, err = q.GetBookVersion(ctx, id)
		changed = res.Changed
		return err
	})
	if err != nil {
		return model.BookVersion{}, err
	}

	if changed {
		slog.Info("version publication changed", "version_id", id, "action", action, "status", version.Status)
		_ = c.events.LogPublicationEvent(ctx, "version "+string(action)+"ed", map[string]any{
			"version_id": id,
			"book_id":    version.BookID,
			"language":   version.Language,
			"kind":       version.Kind,
		})
	}
	return version, nil
}

// SetPagePublication publishes or unpublishes one language row of a page.
func (c *Catalog) SetPagePublication(ctx context.Context, id int64, action publish.Action) (model.Page, error) {
	var (
		page    model.Page
		changed bool
	)
	err := store.InTx(ctx, c.db, func(q *store.Queries) error {
		p, err := q.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("page %d: %w", id, err)
		}

		res, err := publish.Apply(p.Status, p.PublishedAt, action, c.now().UTC())
		if err != nil {
			return err
		}
		if res.Changed {
			err = q.UpdatePagePublication(ctx, store.UpdatePublicationParams{
				ID:          id,
				Status:      res.State,
				PublishedAt: res.PublishedAt,
				UpdatedAt:   sql.NullTime{Time: c.now().UTC(), Valid: true},
			})
			if err != nil {
				return fmt.Errorf("updating page %d: %w", id, err)
			}
		}

		page, err = q.GetPage(ctx, id)
		changed = res.Changed
		return err
	})
	if err != nil {
		return model.Page{}, err
	}

	if changed {
		slog.Info("page publication changed", "page_id", id, "action", action, "status", page.Status)
		_ = c.events.LogPublicationEvent(ctx, "page "+string(action)+"ed", map[string]any{
			"page_id":  id,
			"slug":     page.Slug,
			"language": page.Language,
		})
	}
	return page, nil
}
