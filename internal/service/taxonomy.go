// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/ocms-books/internal/hierarchy"
	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/store"
	"github.com/olegiv/ocms-books/internal/util"
	"github.com/olegiv/ocms-books/internal/variant"
)

// TaxonomyView is a category or tag displayed in one language.
type TaxonomyView struct {
	Kind               string
	Node               model.TaxonomyNode
	Label              model.TaxonomyLabel
	Decision           lang.Decision
	AvailableLanguages []string
	// Path runs from the root down to the node itself.
	Path     []model.TaxonomyLabel
	Children []model.TaxonomyLabel
}

// Taxonomy looks a node up by a slug in the negotiated language, falling back
// to its base slug, and labels it, its ancestors and its children in that
// language. Taxonomy negotiation is not restricted to the node's
// translations: an unmatched signal resolves to the default language.
func (c *Catalog) Taxonomy(ctx context.Context, kind, slug string, sig lang.Signals) (*TaxonomyView, error) {
	decision := c.languages.Resolve(sig)

	node, err := c.queries.FindNodeByLocalizedSlug(ctx, kind, decision.Language, slug)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, slug, err)
	}

	labels, err := c.labels(ctx, c.queries, kind, node)
	if err != nil {
		return nil, err
	}
	label, _ := variant.SelectLabel(labels, decision.Language)

	validator := hierarchy.NewValidator(c.queries.Tree(kind), hierarchy.WithMaxHops(c.maxHops))
	chain, err := validator.Ancestors(ctx, node.ID)
	if err != nil {
		var verr *hierarchy.ValidationError
		if !errors.As(err, &verr) {
			return nil, fmt.Errorf("ancestors of %s %d: %w", kind, node.ID, err)
		}
		// A looped or over-deep stored chain still renders, with a path of
		// the node alone.
		slog.Warn("taxonomy path unavailable",
			"category", model.EventCategoryTaxonomy,
			"kind", kind,
			"node_id", node.ID,
			"error", err)
		chain = []int64{node.ID}
	}

	view := &TaxonomyView{
		Kind:               kind,
		Node:               node,
		Label:              label,
		Decision:           decision,
		AvailableLanguages: variant.LabelLanguages(labels),
		Path:               make([]model.TaxonomyLabel, 0, len(chain)),
		Children:           []model.TaxonomyLabel{},
	}

	for _, id := range chain {
		if id == node.ID {
			view.Path = append(view.Path, label)
			continue
		}
		l, err := c.labelOf(ctx, kind, id, decision.Language)
		if err != nil {
			return nil, err
		}
		view.Path = append(view.Path, l)
	}

	children, err := c.queries.ListNodeChildren(ctx, kind, node.ID)
	if err != nil {
		return nil, fmt.Errorf("children of %s %d: %w", kind, node.ID, err)
	}
	for _, child := range children {
		childLabels, err := c.labels(ctx, c.queries, kind, child)
		if err != nil {
			return nil, err
		}
		l, _ := variant.SelectLabel(childLabels, decision.Language)
		view.Children = append(view.Children, l)
	}

	return view, nil
}

// TaxonomyList labels every node of a taxonomy in the negotiated language.
func (c *Catalog) TaxonomyList(ctx context.Context, kind string, sig lang.Signals) (lang.Decision, []model.TaxonomyLabel, error) {
	decision := c.languages.Resolve(sig)

	nodes, err := c.queries.ListNodes(ctx, kind)
	if err != nil {
		return decision, nil, fmt.Errorf("listing %s nodes: %w", kind, err)
	}

	out := make([]model.TaxonomyLabel, 0, len(nodes))
	for _, node := range nodes {
		labels, err := c.labels(ctx, c.queries, kind, node)
		if err != nil {
			return decision, nil, err
		}
		l, _ := variant.SelectLabel(labels, decision.Language)
		out = append(out, l)
	}
	return decision, out, nil
}

func (c *Catalog) labels(ctx context.Context, q *store.Queries, kind string, node model.TaxonomyNode) ([]model.TaxonomyLabel, error) {
	translations, err := q.ListTranslations(ctx, kind, node.ID)
	if err != nil {
		return nil, fmt.Errorf("translations of %s %d: %w", kind, node.ID, err)
	}
	return variant.NodeLabels(node, translations, c.languages.Default()), nil
}

func (c *Catalog) labelOf(ctx context.Context, kind string, id int64, language string) (model.TaxonomyLabel, error) {
	node, err := c.queries.GetNode(ctx, kind, id)
	if err != nil {
		return model.TaxonomyLabel{}, fmt.Errorf("%s %d: %w", kind, id, err)
	}
	labels, err := c.labels(ctx, c.queries, kind, node)
	if err != nil {
		return model.TaxonomyLabel{}, err
	}
	l, _ := variant.SelectLabel(labels, language)
	return l, nil
}

// Reparent moves a node under parent, or to the root when parent is null.
// The hierarchy checks and the write share one transaction.
func (c *Catalog) Reparent(ctx context.Context, kind string, id int64, parent sql.NullInt64) (model.TaxonomyNode, error) {
	var node model.TaxonomyNode
	err := store.InTx(ctx, c.db, func(q *store.Queries) error {
		if _, err := q.GetNode(ctx, kind, id); err != nil {
			return fmt.Errorf("%s %d: %w", kind, id, err)
		}

		validator := hierarchy.NewValidator(q.Tree(kind), hierarchy.WithMaxHops(c.maxHops))
		if err := validator.CanReparent(ctx, id, parent); err != nil {
			return err
		}

		if err := q.SetNodeParent(ctx, kind, id, parent, c.now().UTC()); err != nil {
			return fmt.Errorf("moving %s %d: %w", kind, id, err)
		}

		var err error
		node, err = q.GetNode(ctx, kind, id)
		return err
	})
	if err != nil {
		c.logRejected(err, "reparent", kind, id)
		return model.TaxonomyNode{}, err
	}

	_ = c.events.LogTaxonomyEvent(ctx, kind+" reparented", map[string]any{
		"kind":      kind,
		"node_id":   id,
		"parent_id": node.Parent(),
	})
	return node, nil
}

// DeleteNode removes a node that has no children.
func (c *Catalog) DeleteNode(ctx context.Context, kind string, id int64) error {
	err := store.InTx(ctx, c.db, func(q *store.Queries) error {
		if _, err := q.GetNode(ctx, kind, id); err != nil {
			return fmt.Errorf("%s %d: %w", kind, id, err)
		}

		validator := hierarchy.NewValidator(q.Tree(kind), hierarchy.WithMaxHops(c.maxHops))
		if err := validator.CanDelete(ctx, id); err != nil {
			return err
		}

		if err := q.DeleteNode(ctx, kind, id); err != nil {
			return fmt.Errorf("deleting %s %d: %w", kind, id, err)
		}
		return nil
	})
	if err != nil {
		c.logRejected(err, "delete", kind, id)
		return err
	}

	_ = c.events.LogTaxonomyEvent(ctx, kind+" deleted", map[string]any{"kind": kind, "node_id": id})
	return nil
}

// TranslationInput is a new localized name of a node. An empty slug is
// derived from the name.
type TranslationInput struct {
	Language string
	Name     string
	Slug     string
}

// AddTranslation stores a localized name and slug for a node. The language
// must be supported and not the default one, which the node's own name and
// slug already cover. A node holds one translation per language and a
// (language, slug) pair belongs to one node only.
func (c *Catalog) AddTranslation(ctx context.Context, kind string, nodeID int64, in TranslationInput) (model.TaxonomyTranslation, error) {
	language := strings.ToLower(strings.TrimSpace(in.Language))
	name := strings.TrimSpace(in.Name)
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(name)
	}

	switch {
	case !c.languages.IsSupported(language):
		return model.TaxonomyTranslation{}, hierarchy.NewError(hierarchy.KindInvalidLanguage,
			fmt.Sprintf("language %q is not supported", in.Language))
	case language == c.languages.Default():
		return model.TaxonomyTranslation{}, hierarchy.NewError(hierarchy.KindInvalidLanguage,
			fmt.Sprintf("language %q is the default language, edit the node itself", language))
	case name == "":
		return model.TaxonomyTranslation{}, hierarchy.NewError(hierarchy.KindInvalidSlug, "name is required")
	case !util.IsValidSlug(slug):
		return model.TaxonomyTranslation{}, hierarchy.NewError(hierarchy.KindInvalidSlug,
			fmt.Sprintf("slug %q must be lowercase letters, digits and single hyphens", slug))
	}

	var created model.TaxonomyTranslation
	err := store.InTx(ctx, c.db, func(q *store.Queries) error {
		node, err := q.GetNode(ctx, kind, nodeID)
		if err != nil {
			return fmt.Errorf("%s %d: %w", kind, nodeID, err)
		}

		existing, err := q.ListTranslations(ctx, kind, node.ID)
		if err != nil {
			return err
		}
		for _, tr := range existing {
			if tr.Language == language {
				return hierarchy.NewError(hierarchy.KindDuplicateTranslation,
					fmt.Sprintf("%s %d already has a %q translation", kind, nodeID, language))
			}
		}

		if err := hierarchy.CheckTranslation(ctx, q.Tree(kind), nodeID, language, slug); err != nil {
			return err
		}

		created, err = q.CreateTranslation(ctx, kind, store.CreateTranslationParams{
			NodeID:    nodeID,
			Language:  language,
			Name:      name,
			Slug:      slug,
			CreatedAt: c.now().UTC(),
		})
		return err
	})
	if err != nil {
		c.logRejected(err, "translate", kind, nodeID)
		return model.TaxonomyTranslation{}, err
	}

	_ = c.events.LogTaxonomyEvent(ctx, kind+" translated", map[string]any{
		"kind":     kind,
		"node_id":  nodeID,
		"language": language,
		"slug":     slug,
	})
	return created, nil
}

// logRejected records hierarchy validation failures. Validation errors are
// client mistakes, so they go out at warn level and land in the event log.
func (c *Catalog) logRejected(err error, op, kind string, id int64) {
	var verr *hierarchy.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	slog.Warn("taxonomy change rejected",
		"category", model.EventCategoryTaxonomy,
		"op", op,
		"kind", kind,
		"node_id", id,
		"reason", verr.Kind,
	)
}
