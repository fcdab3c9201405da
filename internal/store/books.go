// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/ocms-books/internal/model"
)

const bookColumns = `id, slug, cover_image, created_at, updated_at`

const versionColumns = `id, book_id, language, kind, title, author, description, body,
	cover_image, is_free, status, published_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Slug, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanVersion(row rowScanner) (model.BookVersion, error) {
	var v model.BookVersion
	err := row.Scan(
		&v.ID, &v.BookID, &v.Language, &v.Kind, &v.Title, &v.Author,
		&v.Description, &v.Body, &v.CoverImage, &v.IsFree, &v.Status,
		&v.PublishedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// CreateBookParams holds the fields for a new book.
type CreateBookParams struct {
	Slug       string
	CoverImage string
	CreatedAt  time.Time
}

// CreateBook inserts a book.
func (q *Queries) CreateBook(ctx context.Context, arg CreateBookParams) (model.Book, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO books (slug, cover_image, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+bookColumns,
		arg.Slug, arg.CoverImage, arg.CreatedAt, arg.CreatedAt,
	)
	return scanBook(row)
}

// GetBook returns the book with the given id.
func (q *Queries) GetBook(ctx context.Context, id int64) (model.Book, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	return b, notFound(err)
}

// GetBookBySlug returns the book with the given slug.
func (q *Queries) GetBookBySlug(ctx context.Context, slug string) (model.Book, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE slug = ?`, slug)
	b, err := scanBook(row)
	return b, notFound(err)
}

// ListBooks returns all books ordered by slug.
func (q *Queries) ListBooks(ctx context.Context) ([]model.Book, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// CountBooks returns the number of books.
func (q *Queries) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

// CreateBookVersionParams holds the fields for a new book version.
type CreateBookVersionParams struct {
	BookID      int64
	Language    string
	Kind        model.VersionKind
	Title       string
	Author      string
	Description string
	Body        string
	CoverImage  string
	IsFree      bool
	Status      model.PublicationState
	PublishedAt sql.NullTime
	CreatedAt   time.Time
}

// CreateBookVersion inserts a version of a book.
func (q *Queries) CreateBookVersion(ctx context.Context, arg CreateBookVersionParams) (model.BookVersion, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO book_versions (book_id, language, kind, title, author, description, body,
			cover_image, is_free, status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+versionColumns,
		arg.BookID, arg.Language, arg.Kind, arg.Title, arg.Author, arg.Description, arg.Body,
		arg.CoverImage, arg.IsFree, arg.Status, arg.PublishedAt, arg.CreatedAt, arg.CreatedAt,
	)
	return scanVersion(row)
}

// GetBookVersion returns the version with the given id.
func (q *Queries) GetBookVersion(ctx context.Context, id int64) (model.BookVersion, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM book_versions WHERE id = ?`, id)
	v, err := scanVersion(row)
	return v, notFound(err)
}

// ListBookVersions returns the versions of a book in insertion order.
// With publishedOnly set, drafts are left out.
func (q *Queries) ListBookVersions(ctx context.Context, bookID int64, publishedOnly bool) ([]model.BookVersion, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+versionColumns+` FROM book_versions WHERE book_id = ?`+statusFilter(publishedOnly)+` ORDER BY id`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.BookVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// UpdateVersionPublication stores a publication transition of a version.
func (q *Queries) UpdateVersionPublication(ctx context.Context, arg UpdatePublicationParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE book_versions SET status = ?, published_at = ?, updated_at = COALESCE(?, updated_at) WHERE id = ?`,
		arg.Status, arg.PublishedAt, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// AddVersionCategory attaches a category to a version.
func (q *Queries) AddVersionCategory(ctx context.Context, versionID, categoryID, position int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO book_version_categories (version_id, category_id, position) VALUES (?, ?, ?)`,
		versionID, categoryID, position,
	)
	return err
}

// AddVersionTag attaches a tag to a version.
func (q *Queries) AddVersionTag(ctx context.Context, versionID, tagID, position int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO book_version_tags (version_id, tag_id, position) VALUES (?, ?, ?)`,
		versionID, tagID, position,
	)
	return err
}

// ListVersionCategoryIDs returns the category ids of a version ordered by position.
func (q *Queries) ListVersionCategoryIDs(ctx context.Context, versionID int64) ([]int64, error) {
	return q.listIDs(ctx,
		`SELECT category_id FROM book_version_categories WHERE version_id = ? ORDER BY position, category_id`,
		versionID,
	)
}

// ListVersionTagIDs returns the tag ids of a version ordered by position.
func (q *Queries) ListVersionTagIDs(ctx context.Context, versionID int64) ([]int64, error) {
	return q.listIDs(ctx,
		`SELECT tag_id FROM book_version_tags WHERE version_id = ? ORDER BY position, tag_id`,
		versionID,
	)
}

func (q *Queries) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
