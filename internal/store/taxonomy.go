// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/ocms-books/internal/model"
)

// ErrUnknownTaxonomy is returned for a taxonomy kind other than category or tag.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy")

// taxonomyTables names the node and translation tables of a taxonomy kind.
type taxonomyTables struct {
	nodes        string
	translations string
}

var taxonomies = map[string]taxonomyTables{
	model.TaxonomyCategory: {nodes: "categories", translations: "category_translations"},
	model.TaxonomyTag:      {nodes: "tags", translations: "tag_translations"},
}

func tablesFor(kind string) (taxonomyTables, error) {
	t, ok := taxonomies[kind]
	if !ok {
		return taxonomyTables{}, fmt.Errorf("%w: %q", ErrUnknownTaxonomy, kind)
	}
	return t, nil
}

const nodeColumns = `id, slug, name, description, parent_id, position, created_at, updated_at`

func scanNode(row rowScanner) (model.TaxonomyNode, error) {
	var n model.TaxonomyNode
	err := row.Scan(&n.ID, &n.Slug, &n.Name, &n.Description, &n.ParentID, &n.Position, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// CreateNodeParams holds the fields for a new category or tag.
type CreateNodeParams struct {
	Slug        string
	Name        string
	Description string
	ParentID    sql.NullInt64
	Position    int64
	CreatedAt   time.Time
}

// CreateNode inserts a taxonomy node.
func (q *Queries) CreateNode(ctx context.Context, kind string, arg CreateNodeParams) (model.TaxonomyNode, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return model.TaxonomyNode{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO `+t.nodes+` (slug, name, description, parent_id, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+nodeColumns,
		arg.Slug, arg.Name, arg.Description, arg.ParentID, arg.Position, arg.CreatedAt, arg.CreatedAt,
	)
	return scanNode(row)
}

// GetNode returns the node with the given id.
func (q *Queries) GetNode(ctx context.Context, kind string, id int64) (model.TaxonomyNode, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return model.TaxonomyNode{}, err
	}
	n, err := scanNode(q.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM `+t.nodes+` WHERE id = ?`, id))
	return n, notFound(err)
}

// GetNodeBySlug returns the node with the given base slug.
func (q *Queries) GetNodeBySlug(ctx context.Context, kind, slug string) (model.TaxonomyNode, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return model.TaxonomyNode{}, err
	}
	n, err := scanNode(q.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM `+t.nodes+` WHERE slug = ?`, slug))
	return n, notFound(err)
}

// FindNodeByLocalizedSlug looks a node up by a translated slug in language,
// then by its base slug.
func (q *Queries) FindNodeByLocalizedSlug(ctx context.Context, kind, language, slug string) (model.TaxonomyNode, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return model.TaxonomyNode{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT n.id, n.slug, n.name, n.description, n.parent_id, n.position, n.created_at, n.updated_at
		FROM `+t.nodes+` n JOIN `+t.translations+` tr ON tr.node_id = n.id
		WHERE tr.language = ? AND tr.slug = ?`,
		language, slug,
	)
	n, err := scanNode(row)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.TaxonomyNode{}, err
	}
	return q.GetNodeBySlug(ctx, kind, slug)
}

// ListNodes returns every node of a taxonomy ordered by position.
func (q *Queries) ListNodes(ctx context.Context, kind string) ([]model.TaxonomyNode, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM `+t.nodes+` ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.TaxonomyNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// ListNodeChildren returns the direct children of a node ordered by position.
func (q *Queries) ListNodeChildren(ctx context.Context, kind string, parentID int64) ([]model.TaxonomyNode, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM `+t.nodes+` WHERE parent_id = ? ORDER BY position, id`,
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.TaxonomyNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// GetNodeParent returns the parent id of a node.
func (q *Queries) GetNodeParent(ctx context.Context, kind string, id int64) (sql.NullInt64, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return sql.NullInt64{}, err
	}
	var parent sql.NullInt64
	err = q.db.QueryRowContext(ctx, `SELECT parent_id FROM `+t.nodes+` WHERE id = ?`, id).Scan(&parent)
	return parent, notFound(err)
}

// CountNodeChildren returns the number of direct children of a node.
func (q *Queries) CountNodeChildren(ctx context.Context, kind string, id int64) (int64, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.nodes+` WHERE parent_id = ?`, id).Scan(&n)
	return n, err
}

// SetNodeParent moves a node under parent, or to the root when parent is null.
func (q *Queries) SetNodeParent(ctx context.Context, kind string, id int64, parent sql.NullInt64, now time.Time) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE `+t.nodes+` SET parent_id = ?, updated_at = ? WHERE id = ?`,
		parent, now, id,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// DeleteNode removes a node. Its translations and version links cascade.
func (q *Queries) DeleteNode(ctx context.Context, kind string, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM `+t.nodes+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// CreateTranslationParams holds the fields for a node translation.
type CreateTranslationParams struct {
	NodeID    int64
	Language  string
	Name      string
	Slug      string
	CreatedAt time.Time
}

const translationColumns = `id, node_id, language, name, slug, created_at`

func scanTranslation(row rowScanner) (model.TaxonomyTranslation, error) {
	var tr model.TaxonomyTranslation
	err := row.Scan(&tr.ID, &tr.NodeID, &tr.Language, &tr.Name, &tr.Slug, &tr.CreatedAt)
	return tr, err
}

// CreateTranslation inserts a translation of a node.
func (q *Queries) CreateTranslation(ctx context.Context, kind string, arg CreateTranslationParams) (model.TaxonomyTranslation, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return model.TaxonomyTranslation{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO `+t.translations+` (node_id, language, name, slug, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+translationColumns,
		arg.NodeID, arg.Language, arg.Name, arg.Slug, arg.CreatedAt,
	)
	return scanTranslation(row)
}

// ListTranslations returns the translations of a node in insertion order.
func (q *Queries) ListTranslations(ctx context.Context, kind string, nodeID int64) ([]model.TaxonomyTranslation, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+translationColumns+` FROM `+t.translations+` WHERE node_id = ? ORDER BY id`,
		nodeID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.TaxonomyTranslation
	for rows.Next() {
		tr, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, tr)
	}
	return items, rows.Err()
}

// TranslationOwner returns the node owning the (language, slug) translation.
func (q *Queries) TranslationOwner(ctx context.Context, kind, language, slug string) (int64, bool, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, false, err
	}
	var id int64
	err = q.db.QueryRowContext(ctx,
		`SELECT node_id FROM `+t.translations+` WHERE language = ? AND slug = ?`,
		language, slug,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// TaxonomyTree exposes one taxonomy as a parent-pointer tree.
type TaxonomyTree struct {
	q    *Queries
	kind string
}

// Tree returns the tree view of a taxonomy kind.
func (q *Queries) Tree(kind string) *TaxonomyTree {
	return &TaxonomyTree{q: q, kind: kind}
}

// Kind returns the taxonomy kind of the tree.
func (t *TaxonomyTree) Kind() string {
	return t.kind
}

// ParentOf returns the parent of id, or model.ErrNotFound if id does not exist.
func (t *TaxonomyTree) ParentOf(ctx context.Context, id int64) (sql.NullInt64, error) {
	return t.q.GetNodeParent(ctx, t.kind, id)
}

// CountChildren returns the number of direct children of id.
func (t *TaxonomyTree) CountChildren(ctx context.Context, id int64) (int64, error) {
	return t.q.CountNodeChildren(ctx, t.kind, id)
}

// TranslationOwner returns the node owning the (language, slug) translation.
func (t *TaxonomyTree) TranslationOwner(ctx context.Context, language, slug string) (int64, bool, error) {
	return t.q.TranslationOwner(ctx, t.kind, language, slug)
}
