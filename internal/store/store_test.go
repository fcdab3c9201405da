// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/store"
	"github.com/olegiv/ocms-books/internal/testutil"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	for _, table := range []string{
		"books", "book_versions", "pages", "categories", "tags",
		"category_translations", "tag_translations", "seo_records", "event_log",
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestBookVersions(t *testing.T) {
	db := testutil.MemoryDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	book, err := q.CreateBook(ctx, store.CreateBookParams{Slug: "dune", CreatedAt: now})
	require.NoError(t, err)

	_, err = q.CreateBookVersion(ctx, store.CreateBookVersionParams{
		BookID: book.ID, Language: "en", Kind: model.KindText, Title: "Dune",
		Status: model.StatePublished, PublishedAt: sql.NullTime{Time: now, Valid: true}, CreatedAt: now,
	})
	require.NoError(t, err)
	draft, err := q.CreateBookVersion(ctx, store.CreateBookVersionParams{
		BookID: book.ID, Language: "es", Kind: model.KindAudio, Title: "Duna",
		Status: model.StateDraft, CreatedAt: now,
	})
	require.NoError(t, err)

	got, err := q.GetBookBySlug(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	all, err := q.ListBookVersions(ctx, book.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "en", all[0].Language)
	assert.Equal(t, "es", all[1].Language)

	public, err := q.ListBookVersions(ctx, book.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "en", public[0].Language)

	err = q.UpdateVersionPublication(ctx, store.UpdatePublicationParams{
		ID: draft.ID, Status: model.StatePublished, PublishedAt: sql.NullTime{Time: now, Valid: true},
	})
	require.NoError(t, err)

	public, err = q.ListBookVersions(ctx, book.ID, true)
	require.NoError(t, err)
	assert.Len(t, public, 2)

	err = q.UpdateVersionPublication(ctx, store.UpdatePublicationParams{ID: 9999, Status: model.StateDraft})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetMissingRows(t *testing.T) {
	db := testutil.MemoryDB(t)
	ctx := context.Background()
	q := store.New(db)

	_, err := q.GetBookBySlug(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = q.GetPage(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = q.GetSeoForVersion(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = q.Tree(model.TaxonomyCategory).ParentOf(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPagesBySlug(t *testing.T) {
	db := testutil.MemoryDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	for _, p := range []store.CreatePageParams{
		{Slug: "about", Language: "en", Title: "About", Status: model.StatePublished, CreatedAt: now},
		{Slug: "about", Language: "es", Title: "Acerca", Status: model.StateDraft, CreatedAt: now},
	} {
		_, err := q.CreatePage(ctx, p)
		require.NoError(t, err)
	}

	_, err := q.CreatePage(ctx, store.CreatePageParams{
		Slug: "about", Language: "en", Title: "Dup", Status: model.StateDraft, CreatedAt: now,
	})
	assert.Error(t, err, "language and slug are unique together")

	all, err := q.ListPagesBySlug(ctx, "about", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := q.ListPagesBySlug(ctx, "about", true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "About", public[0].Title)
}

func TestTaxonomyTree(t *testing.T) {
	db := testutil.MemoryDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	root, err := q.CreateNode(ctx, model.TaxonomyCategory, store.CreateNodeParams{Slug: "fiction", Name: "Fiction", CreatedAt: now})
	require.NoError(t, err)
	child, err := q.CreateNode(ctx, model.TaxonomyCategory, store.CreateNodeParams{
		Slug: "fantasy", Name: "Fantasy", ParentID: sql.NullInt64{Int64: root.ID, Valid: true}, CreatedAt: now,
	})
	require.NoError(t, err)

	tree := q.Tree(model.TaxonomyCategory)

	parent, err := tree.ParentOf(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, sql.NullInt64{Int64: root.ID, Valid: true}, parent)

	parent, err = tree.ParentOf(ctx, root.ID)
	require.NoError(t, err)
	assert.False(t, parent.Valid)

	n, err := tree.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, q.SetNodeParent(ctx, model.TaxonomyCategory, child.ID, sql.NullInt64{}, now))
	n, err = tree.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, q.DeleteNode(ctx, model.TaxonomyCategory, child.ID))
	assert.ErrorIs(t, q.DeleteNode(ctx, model.TaxonomyCategory, child.ID), model.ErrNotFound)

	// Tags are a separate tree.
	_, err = q.Tree(model.TaxonomyTag).ParentOf(ctx, root.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTranslations(t *testing.T) {
	db := testutil.MemoryDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	node, err := q.CreateNode(ctx, model.TaxonomyTag, store.CreateNodeParams{Slug: "magic", Name: "Magic", CreatedAt: now})
	require.NoError(t, err)

	_, err = q.CreateTranslation(ctx, model.TaxonomyTag, store.CreateTranslationParams{
		NodeID: node.ID, Language: "es", Name: "Magia", Slug: "magia", CreatedAt: now,
	})
	require.NoError(t, err)

	owner, ok, err := q.Tree(model.TaxonomyTag).TranslationOwner(ctx, "es", "magia")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, node.ID, owner)

	_, ok, err = q.TranslationOwner(ctx, model.TaxonomyTag, "fr", "magia")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := q.FindNodeByLocalizedSlug(ctx, model.TaxonomyTag, "es", "magia")
	require.NoError(t, err)
	assert.Equal(t, node.ID, found.ID)

	found, err = q.FindNodeByLocalizedSlug(ctx, model.TaxonomyTag, "es", "magic")
	require.NoError(t, err, "base slug is the fallback")
	assert.Equal(t, node.ID, found.ID)

	_, err = q.FindNodeByLocalizedSlug(ctx, model.TaxonomyTag, "es", "nothing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	trs, err := q.ListTranslations(ctx, model.TaxonomyTag, node.ID)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, "Magia", trs[0].Name)
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Holding two connections forces the pool to open a second one.
	first, err := db.Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	second, err := db.Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	for i, conn := range []*sql.Conn{first, second} {
		var foreignKeys, busyTimeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
		assert.Equal(t, 1, foreignKeys, "connection %d", i)
		assert.Equal(t, 5000, busyTimeout, "connection %d", i)
	}
}

func TestDeleteNodeCascadesOnAnyConnection(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	node, err := q.CreateNode(ctx, model.TaxonomyCategory, store.CreateNodeParams{Slug: "non-fiction", Name: "Non-fiction", CreatedAt: now})
	require.NoError(t, err)
	_, err = q.CreateTranslation(ctx, model.TaxonomyCategory, store.CreateTranslationParams{
		NodeID: node.ID, Language: "fr", Name: "Essais", Slug: "essais", CreatedAt: now,
	})
	require.NoError(t, err)

	held, err := db.Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = held.Close() }()

	require.NoError(t, q.DeleteNode(ctx, model.TaxonomyCategory, node.ID))

	var left int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM category_translations WHERE node_id = ?`, node.ID).Scan(&left))
	assert.Zero(t, left)

	_, taken, err := q.TranslationOwner(ctx, model.TaxonomyCategory, "fr", "essais")
	require.NoError(t, err)
	assert.False(t, taken, "slug of a deleted node is free again")
}

func TestUnknownTaxonomy(t *testing.T) {
	q := store.New(testutil.MemoryDB(t))
	_, err := q.ListNodes(context.Background(), "shelf")
	assert.True(t, errors.Is(err, store.ErrUnknownTaxonomy))
}

func TestSeoRecordOwnership(t *testing.T) {
	db := testutil.MemoryDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	page, err := q.CreatePage(ctx, store.CreatePageParams{
		Slug: "about", Language: "en", Title: "About", Status: model.StatePublished, CreatedAt: now,
	})
	require.NoError(t, err)

	_, err = q.CreateSeoRecord(ctx, model.SeoRecord{Language: "en", Title: "orphan", CreatedAt: now})
	assert.Error(t, err, "a record needs an owner")

	rec, err := q.CreateSeoRecord(ctx, model.SeoRecord{
		PageID: sql.NullInt64{Int64: page.ID, Valid: true}, Language: "en", Title: "About us", NoIndex: true, CreatedAt: now,
	})
	require.NoError(t, err)
	assert.True(t, rec.NoIndex)

	_, err = q.CreateSeoRecord(ctx, model.SeoRecord{
		PageID: sql.NullInt64{Int64: page.ID, Valid: true}, Language: "en", CreatedAt: now,
	})
	assert.Error(t, err, "a page owns at most one record")

	got, err := q.GetSeoForPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "About us", got.Title)
}

func TestInTxRollsBack(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, db, func(q *store.Queries) error {
		if _, err := q.CreateBook(ctx, store.CreateBookParams{Slug: "rolled-back", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.New(db).GetBookBySlug(ctx, "rolled-back")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSeedIsIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, db))
	require.NoError(t, store.Seed(ctx, db))

	q := store.New(db)
	n, err := q.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	book, err := q.GetBookBySlug(ctx, store.DemoBookSlug)
	require.NoError(t, err)
	versions, err := q.ListBookVersions(ctx, book.ID, true)
	require.NoError(t, err)
	assert.Len(t, versions, 2)

	pages, err := q.ListPagesBySlug(ctx, store.DemoPageSlug, true)
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	events, err := q.ListEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
