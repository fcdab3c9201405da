// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-books/internal/model"
)

// Demo catalog identities
const (
	DemoBookSlug = "harry-potter"
	DemoPageSlug = "about"
)

// Seed inserts a small demo catalog. It does nothing when books already exist.
func Seed(ctx context.Context, db *sql.DB) error {
	count, err := New(db).CountBooks(ctx)
	if err != nil {
		return fmt.Errorf("counting books: %w", err)
	}
	if count > 0 {
		slog.Info("catalog already has books, skipping seed")
		return nil
	}

	slog.Info("seeding demo catalog")
	err = InTx(ctx, db, func(q *Queries) error {
		now := time.Now().UTC()

		categoryIDs, err := seedCategories(ctx, q, now)
		if err != nil {
			return fmt.Errorf("seeding categories: %w", err)
		}
		tagIDs, err := seedTags(ctx, q, now)
		if err != nil {
			return fmt.Errorf("seeding tags: %w", err)
		}
		if err := seedBook(ctx, q, now, categoryIDs, tagIDs); err != nil {
			return fmt.Errorf("seeding book: %w", err)
		}
		if err := seedPages(ctx, q, now); err != nil {
			return fmt.Errorf("seeding pages: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("demo catalog seeded", "book", DemoBookSlug, "page", DemoPageSlug)
	return nil
}

type demoNode struct {
	slug         string
	name         string
	parent       string
	translations []CreateTranslationParams
}

func seedNodes(ctx context.Context, q *Queries, kind string, nodes []demoNode, now time.Time) (map[string]int64, error) {
	ids := make(map[string]int64, len(nodes))
	for i, n := range nodes {
		var parent sql.NullInt64
		if n.parent != "" {
			parent = sql.NullInt64{Int64: ids[n.parent], Valid: true}
		}
		node, err := q.CreateNode(ctx, kind, CreateNodeParams{
			Slug:      n.slug,
			Name:      n.name,
			ParentID:  parent,
			Position:  int64(i),
			CreatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s %q: %w", kind, n.slug, err)
		}
		ids[n.slug] = node.ID

		for _, tr := range n.translations {
			tr.NodeID = node.ID
			tr.CreatedAt = now
			if _, err := q.CreateTranslation(ctx, kind, tr); err != nil {
				return nil, fmt.Errorf("creating %s translation %q: %w", kind, tr.Slug, err)
			}
		}
	}
	return ids, nil
}

func seedCategories(ctx context.Context, q *Queries, now time.Time) (map[string]int64, error) {
	return seedNodes(ctx, q, model.TaxonomyCategory, []demoNode{
		{
			slug: "fiction", name: "Fiction",
			translations: []CreateTranslationParams{
				{Language: "es", Name: "Ficción", Slug: "ficcion"},
				{Language: "fr", Name: "Fiction", Slug: "fiction"},
			},
		},
		{
			slug: "fantasy", name: "Fantasy", parent: "fiction",
			translations: []CreateTranslationParams{
				{Language: "es", Name: "Fantasía", Slug: "fantasia"},
			},
		},
		{
			slug: "young-adult", name: "Young Adult", parent: "fantasy",
			translations: []CreateTranslationParams{
				{Language: "es", Name: "Juvenil", Slug: "juvenil"},
			},
		},
		{slug: "non-fiction", name: "Non-fiction"},
	}, now)
}

func seedTags(ctx context.Context, q *Queries, now time.Time) (map[string]int64, error) {
	return seedNodes(ctx, q, model.TaxonomyTag, []demoNode{
		{
			slug: "magic", name: "Magic",
			translations: []CreateTranslationParams{
				{Language: "es", Name: "Magia", Slug: "magia"},
			},
		},
		{slug: "school", name: "School"},
	}, now)
}

func seedBook(ctx context.Context, q *Queries, now time.Time, categoryIDs, tagIDs map[string]int64) error {
	book, err := q.CreateBook(ctx, CreateBookParams{
		Slug:       DemoBookSlug,
		CoverImage: "/media/harry-potter.jpg",
		CreatedAt:  now,
	})
	if err != nil {
		return err
	}

	published := sql.NullTime{Time: now, Valid: true}
	versions := []CreateBookVersionParams{
		{
			Language:    "en",
			Kind:        model.KindText,
			Title:       "Harry Potter and the Philosopher's Stone",
			Author:      "J. K. Rowling",
			Description: "A boy discovers he is a wizard on his eleventh birthday.",
			Body:        "Mr. and Mrs. Dursley, of number four, Privet Drive, were proud to say that they were **perfectly normal**.",
			IsFree:      true,
			Status:      model.StatePublished,
			PublishedAt: published,
		},
		{
			Language:    "es",
			Kind:        model.KindAudio,
			Title:       "Harry Potter y la piedra filosofal",
			Author:      "J. K. Rowling",
			Description: "Un niño descubre que es un mago el día de su undécimo cumpleaños.",
			CoverImage:  "/media/harry-potter-es.jpg",
			Status:      model.StatePublished,
			PublishedAt: published,
		},
		{
			Language: "en",
			Kind:     model.KindReferral,
			Title:    "Harry Potter and the Philosopher's Stone (bookstore)",
			Author:   "J. K. Rowling",
			Status:   model.StateDraft,
		},
	}

	for i, arg := range versions {
		arg.BookID = book.ID
		arg.CreatedAt = now
		v, err := q.CreateBookVersion(ctx, arg)
		if err != nil {
			return fmt.Errorf("creating %s %s version: %w", arg.Language, arg.Kind, err)
		}
		if err := q.AddVersionCategory(ctx, v.ID, categoryIDs["young-adult"], 0); err != nil {
			return err
		}
		if err := q.AddVersionTag(ctx, v.ID, tagIDs["magic"], 0); err != nil {
			return err
		}
		if i != 1 {
			continue
		}
		start := time.Date(now.Year()+1, time.March, 1, 18, 0, 0, 0, time.UTC)
		_, err = q.CreateSeoRecord(ctx, model.SeoRecord{
			BookVersionID:  sql.NullInt64{Int64: v.ID, Valid: true},
			Language:       v.Language,
			Description:    "Escucha el audiolibro de Harry Potter y la piedra filosofal.",
			Keywords:       "harry potter, audiolibro",
			CanonicalURL:   "https://elsewhere.example/harry-potter",
			EventName:      "Presentación del audiolibro",
			EventStartDate: sql.NullTime{Time: start, Valid: true},
			EventEndDate:   sql.NullTime{Time: start.Add(2 * time.Hour), Valid: true},
			EventLocation:  "Madrid",
			CreatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("creating seo record: %w", err)
		}
	}
	return nil
}

func seedPages(ctx context.Context, q *Queries, now time.Time) error {
	published := sql.NullTime{Time: now, Valid: true}
	pages := []CreatePageParams{
		{
			Slug: DemoPageSlug, Language: "en", Title: "About us",
			Body:   "We publish books in **many languages**.",
			Status: model.StatePublished, PublishedAt: published,
		},
		{
			Slug: DemoPageSlug, Language: "es", Title: "Sobre nosotros",
			Body:   "Publicamos libros en **muchos idiomas**.",
			Status: model.StatePublished, PublishedAt: published,
		},
		{
			Slug: "terms", Language: "en", Title: "Terms of use",
			Body:   "Draft terms.",
			Status: model.StateDraft,
		},
	}
	for _, arg := range pages {
		arg.CreatedAt = now
		if _, err := q.CreatePage(ctx, arg); err != nil {
			return fmt.Errorf("creating page %s/%s: %w", arg.Language, arg.Slug, err)
		}
	}
	return nil
}
