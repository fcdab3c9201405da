// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-books/internal/hierarchy"
	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/publish"
	"github.com/olegiv/ocms-books/internal/seo"
	"github.com/olegiv/ocms-books/internal/store"
	"github.com/olegiv/ocms-books/internal/util"
	"github.com/olegiv/ocms-books/internal/variant"
)

// Catalog serves the localized reads and admin writes of books, pages,
// categories and tags.
type Catalog struct {
	db        *sql.DB
	queries   *store.Queries
	languages *lang.Negotiator
	resolver  *seo.Resolver
	events    *EventService
	site      seo.SiteConfig
	maxHops   int
	now       func() time.Time
}

// CatalogConfig holds the settings of a Catalog.
type CatalogConfig struct {
	Site              seo.SiteConfig
	MaxHierarchyDepth int
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *sql.DB, languages *lang.Negotiator, cfg CatalogConfig) *Catalog {
	maxHops := cfg.MaxHierarchyDepth
	if maxHops <= 0 {
		maxHops = hierarchy.DefaultMaxHops
	}
	queries := store.New(db)
	return &Catalog{
		db:        db,
		queries:   queries,
		languages: languages,
		resolver: seo.NewResolver(queries, queries.Tree(model.TaxonomyCategory), languages, cfg.Site,
			hierarchy.WithMaxHops(maxHops)),
		events:  NewEventService(db),
		site:    cfg.Site,
		maxHops: maxHops,
		now:     time.Now,
	}
}

// Languages returns the negotiator the catalog resolves with.
func (c *Catalog) Languages() *lang.Negotiator {
	return c.languages
}

// Site returns the site settings used for canonical URLs.
func (c *Catalog) Site() seo.SiteConfig {
	return c.site
}

// Events returns the audit event service.
func (c *Catalog) Events() *EventService {
	return c.events
}

// BookOverview is a book with one selected version per kind.
type BookOverview struct {
	Book               model.Book
	Decision           lang.Decision
	AvailableLanguages []string
	// Selected maps every kind with at least one visible version to the
	// version closest to the negotiated language.
	Selected map[model.VersionKind]model.BookVersion
	// Versions lists every version visible in the read scope.
	Versions []model.BookVersion
}

// BookOverview loads a book and selects, independently for every kind, the
// version in the negotiated language or else the first available one.
func (c *Catalog) BookOverview(ctx context.Context, slug string, sig lang.Signals, scope publish.Scope) (*BookOverview, error) {
	book, err := c.queries.GetBookBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("book %q: %w", slug, err)
	}

	versions, err := c.queries.ListBookVersions(ctx, book.ID, scope.PublishedOnly())
	if err != nil {
		return nil, fmt.Errorf("listing versions of %q: %w", slug, err)
	}
	if len(versions) == 0 && scope.PublishedOnly() {
		return nil, fmt.Errorf("book %q: %w", slug, model.ErrNoVisibleVariant)
	}

	available := variant.VersionLanguages(versions)
	overview := &BookOverview{
		Book:               book,
		Decision:           c.decide(sig, available),
		AvailableLanguages: available,
		Selected:           make(map[model.VersionKind]model.BookVersion, len(model.VersionKinds)),
		Versions:           versions,
	}
	for _, kind := range model.VersionKinds {
		if v, ok := variant.SelectVersion(versions, kind, overview.Decision.Language); ok {
			overview.Selected[kind] = v
		}
	}
	return overview, nil
}

// PageView is the selected language row of a page.
type PageView struct {
	Page               model.Page
	HTML               string
	Decision           lang.Decision
	AvailableLanguages []string
}

// Page loads the rows sharing slug and selects the one closest to the
// negotiated language.
func (c *Catalog) Page(ctx context.Context, slug string, sig lang.Signals, scope publish.Scope) (*PageView, error) {
	pages, err := c.queries.ListPagesBySlug(ctx, slug, scope.PublishedOnly())
	if err != nil {
		return nil, fmt.Errorf("listing page %q: %w", slug, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("page %q: %w", slug, c.missingPage(ctx, slug, scope))
	}

	available := variant.PageLanguages(pages)
	decision := c.decide(sig, available)
	page, _ := variant.SelectPage(pages, decision.Language)

	return &PageView{
		Page:               page,
		HTML:               RenderBody(page.Body),
		Decision:           decision,
		AvailableLanguages: available,
	}, nil
}

func (c *Catalog) missingPage(ctx context.Context, slug string, scope publish.Scope) error {
	if !scope.PublishedOnly() {
		return model.ErrNotFound
	}
	all, err := c.queries.ListPagesBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return model.ErrNotFound
	}
	return model.ErrNoVisibleVariant
}

// decide negotiates within available and falls back to the unrestricted
// decision when no available language is supported.
func (c *Catalog) decide(sig lang.Signals, available []string) lang.Decision {
	if d, ok := c.languages.ResolveFor(sig, available); ok {
		return d
	}
	return c.languages.Resolve(sig)
}

// Seo resolves the metadata bundle of a book, page or version.
func (c *Catalog) Seo(ctx context.Context, req seo.Request) (*seo.Bundle, error) {
	return c.resolver.Resolve(ctx, req)
}

// Sitemap renders sitemap.xml for every published book and page.
func (c *Catalog) Sitemap(ctx context.Context) ([]byte, error) {
	builder := seo.NewSitemapBuilder(c.site.BaseURL)

	books, err := c.queries.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	for _, book := range books {
		versions, err := c.queries.ListBookVersions(ctx, book.ID, true)
		if err != nil {
			return nil, fmt.Errorf("listing versions of %q: %w", book.Slug, err)
		}
		entry := seo.SitemapEntry{
			Section:   seo.SectionBooks,
			Slug:      book.Slug,
			Languages: variant.VersionLanguages(versions),
		}
		for _, v := range versions {
			if v.UpdatedAt.After(entry.UpdatedAt) {
				entry.UpdatedAt = v.UpdatedAt
			}
		}
		builder.Add(entry)
	}

	pages, err := c.queries.ListPublishedPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	// Rows arrive ordered by slug, so each group is contiguous.
	for start := 0; start < len(pages); {
		end := start
		for end < len(pages) && pages[end].Slug == pages[start].Slug {
			end++
		}
		group := pages[start:end]
		entry := seo.SitemapEntry{
			Section:   seo.SectionPages,
			Slug:      group[0].Slug,
			Languages: variant.PageLanguages(group),
		}
		for _, p := range group {
			if p.UpdatedAt.After(entry.UpdatedAt) {
				entry.UpdatedAt = p.UpdatedAt
			}
		}
		builder.Add(entry)
		start = end
	}

	return builder.Build()
}

// RenderBody converts a markdown body to sanitized HTML. A body that fails to
// render is served as escaped text.
func RenderBody(body string) string {
	out, err := util.RenderMarkdown(body)
	if err != nil {
		slog.Warn("rendering body failed", "category", model.EventCategorySystem, "error", err)
		return html.EscapeString(body)
	}
	return out
}
