// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-books/internal/hierarchy"
	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/publish"
	"github.com/olegiv/ocms-books/internal/util"
	"github.com/olegiv/ocms-books/internal/variant"
)

// EntityType names what a bundle describes.
type EntityType string

// Entity types.
const (
	EntityBook    EntityType = "book"
	EntityPage    EntityType = "page"
	EntityVersion EntityType = "version"
)

// ErrUnknownEntity is returned for an entity type other than book, page or version.
var ErrUnknownEntity = errors.New("unknown entity type")

// ParseEntityType validates an entity type path value.
func ParseEntityType(s string) (EntityType, error) {
	switch e := EntityType(strings.ToLower(s)); e {
	case EntityBook, EntityPage, EntityVersion:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntity, s)
	}
}

// Source is the read side of the catalog used to build bundles.
type Source interface {
	GetBook(ctx context.Context, id int64) (model.Book, error)
	GetBookBySlug(ctx context.Context, slug string) (model.Book, error)
	GetBookVersion(ctx context.Context, id int64) (model.BookVersion, error)
	ListBookVersions(ctx context.Context, bookID int64, publishedOnly bool) ([]model.BookVersion, error)
	ListPagesBySlug(ctx context.Context, slug string, publishedOnly bool) ([]model.Page, error)
	GetSeoForVersion(ctx context.Context, versionID int64) (model.SeoRecord, error)
	GetSeoForPage(ctx context.Context, pageID int64) (model.SeoRecord, error)
	ListVersionCategoryIDs(ctx context.Context, versionID int64) ([]int64, error)
	GetNode(ctx context.Context, kind string, id int64) (model.TaxonomyNode, error)
	ListTranslations(ctx context.Context, kind string, nodeID int64) ([]model.TaxonomyTranslation, error)
}

// Request identifies what to resolve. Key is a slug for books and pages and
// a numeric id for versions.
type Request struct {
	Entity  EntityType
	Key     string
	Signals lang.Signals
	Scope   publish.Scope
}

// Resolver synthesizes metadata bundles. It is safe for concurrent use.
type Resolver struct {
	src       Source
	ancestors *hierarchy.Validator
	languages *lang.Negotiator
	site      SiteConfig
}

// NewResolver creates a resolver reading from src. categories is the
// category tree walked for breadcrumb paths.
func NewResolver(src Source, categories hierarchy.Tree, languages *lang.Negotiator, site SiteConfig, opts ...hierarchy.Option) *Resolver {
	return &Resolver{
		src:       src,
		ancestors: hierarchy.NewValidator(categories, opts...),
		languages: languages,
		site:      site,
	}
}

// Resolve builds the bundle for req. It returns model.ErrNotFound when the
// identity does not exist and model.ErrNoVisibleVariant when it exists but
// nothing is visible in req.Scope.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Bundle, error) {
	switch req.Entity {
	case EntityBook:
		return r.resolveBook(ctx, req.Key, req.Signals, req.Scope)
	case EntityPage:
		return r.resolvePage(ctx, req.Key, req.Signals, req.Scope)
	case EntityVersion:
		id, err := strconv.ParseInt(req.Key, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("version %q: %w", req.Key, model.ErrNotFound)
		}
		return r.resolveVersion(ctx, id, req.Scope)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, req.Entity)
	}
}

// subject is the entity-independent input of compose.
type subject struct {
	entity      EntityType
	language    string
	available   []string
	title       string
	description string
	body        string
	image       string
	canonical   string
	ogType      string
	draft       bool
	record      *model.SeoRecord
	crumbs      []Crumb
	alternates  []Alternate
}

func (r *Resolver) resolveBook(ctx context.Context, slug string, sig lang.Signals, scope publish.Scope) (*Bundle, error) {
	book, err := r.src.GetBookBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("book %q: %w", slug, err)
	}

	versions, err := r.src.ListBookVersions(ctx, book.ID, scope.PublishedOnly())
	if err != nil {
		return nil, fmt.Errorf("listing versions of %q: %w", slug, err)
	}

	if len(versions) == 0 {
		if scope != publish.ScopeAdmin {
			return nil, fmt.Errorf("book %q: %w", slug, model.ErrNoVisibleVariant)
		}
		// Admin preview of a book without versions falls back to its slug.
		language := r.languages.Resolve(sig).Language
		return r.compose(subject{
			entity:    EntityBook,
			language:  language,
			title:     book.Slug,
			image:     book.CoverImage,
			canonical: LocalizedURL(r.site.BaseURL, language, SectionBooks, book.Slug),
			ogType:    "book",
			draft:     true,
		}), nil
	}

	available := variant.VersionLanguages(versions)
	chosen, _ := variant.SelectAnyVersion(versions, r.preferred(sig, available))

	record, err := r.versionRecord(ctx, chosen.ID)
	if err != nil {
		return nil, err
	}

	language := strings.ToLower(chosen.Language)
	alternates := make([]Alternate, 0, len(available))
	for _, code := range available {
		alternates = append(alternates, Alternate{
			Language: code,
			URL:      LocalizedURL(r.site.BaseURL, code, SectionBooks, book.Slug),
		})
	}

	return r.compose(subject{
		entity:      EntityBook,
		language:    language,
		available:   available,
		title:       VersionTitle(chosen),
		description: chosen.Description,
		body:        chosen.Body,
		image:       firstNonEmpty(chosen.CoverImage, book.CoverImage),
		canonical:   LocalizedURL(r.site.BaseURL, language, SectionBooks, book.Slug),
		ogType:      "book",
		draft:       !chosen.IsPublished(),
		record:      record,
		crumbs:      r.breadcrumbs(ctx, chosen.ID, language),
		alternates:  alternates,
	}), nil
}

func (r *Resolver) resolvePage(ctx context.Context, slug string, sig lang.Signals, scope publish.Scope) (*Bundle, error) {
	pages, err := r.src.ListPagesBySlug(ctx, slug, scope.PublishedOnly())
	if err != nil {
		return nil, fmt.Errorf("listing page %q: %w", slug, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("page %q: %w", slug, r.missingPage(ctx, slug, scope))
	}

	available := variant.PageLanguages(pages)
	chosen, _ := variant.SelectPage(pages, r.preferred(sig, available))

	record, err := r.src.GetSeoForPage(ctx, chosen.ID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		record = model.SeoRecord{}
	case err != nil:
		return nil, fmt.Errorf("loading seo of page %d: %w", chosen.ID, err)
	}

	language := strings.ToLower(chosen.Language)
	alternates := make([]Alternate, 0, len(available))
	for _, code := range available {
		alternates = append(alternates, Alternate{
			Language: code,
			URL:      LocalizedURL(r.site.BaseURL, code, SectionPages, slug),
		})
	}

	return r.compose(subject{
		entity:      EntityPage,
		language:    language,
		available:   available,
		title:       chosen.Title,
		description: chosen.Description,
		body:        chosen.Body,
		image:       chosen.CoverImage,
		canonical:   LocalizedURL(r.site.BaseURL, language, SectionPages, slug),
		ogType:      DefaultOGType,
		draft:       chosen.IsDraft(),
		record:      &record,
		alternates:  alternates,
	}), nil
}

// missingPage tells an unknown slug apart from one whose rows are all hidden.
func (r *Resolver) missingPage(ctx context.Context, slug string, scope publish.Scope) error {
	if !scope.PublishedOnly() {
		return model.ErrNotFound
	}
	all, err := r.src.ListPagesBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return model.ErrNotFound
	}
	return model.ErrNoVisibleVariant
}

func (r *Resolver) resolveVersion(ctx context.Context, id int64, scope publish.Scope) (*Bundle, error) {
	v, err := r.src.GetBookVersion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("version %d: %w", id, err)
	}
	if !scope.Allows(v.Status) {
		return nil, fmt.Errorf("version %d: %w", id, model.ErrNoVisibleVariant)
	}

	book, err := r.src.GetBook(ctx, v.BookID)
	if err != nil {
		return nil, fmt.Errorf("book of version %d: %w", id, err)
	}

	record, err := r.versionRecord(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	language := strings.ToLower(v.Language)
	return r.compose(subject{
		entity:      EntityVersion,
		language:    language,
		available:   []string{language},
		title:       VersionTitle(v),
		description: v.Description,
		body:        v.Body,
		image:       firstNonEmpty(v.CoverImage, book.CoverImage),
		canonical:   VersionURL(r.site.BaseURL, v.ID),
		ogType:      "book",
		draft:       !v.IsPublished(),
		record:      record,
		crumbs:      r.breadcrumbs(ctx, v.ID, language),
	}), nil
}

// preferred picks the language handed to the variant selector. Without any
// supported available language the unrestricted decision is used and the
// selector falls back to the first variant.
func (r *Resolver) preferred(sig lang.Signals, available []string) string {
	if d, ok := r.languages.ResolveFor(sig, available); ok {
		return d.Language
	}
	return r.languages.Resolve(sig).Language
}

func (r *Resolver) versionRecord(ctx context.Context, versionID int64) (*model.SeoRecord, error) {
	record, err := r.src.GetSeoForVersion(ctx, versionID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading seo of version %d: %w", versionID, err)
	}
	return &record, nil
}

// breadcrumbs walks from the first category of a version up to its root and
// labels every ancestor in language. A broken hierarchy degrades to an empty
// path.
func (r *Resolver) breadcrumbs(ctx context.Context, versionID int64, language string) []Crumb {
	crumbs := []Crumb{}

	ids, err := r.src.ListVersionCategoryIDs(ctx, versionID)
	if err != nil || len(ids) == 0 {
		if err != nil {
			slog.Warn("listing version categories failed",
				"category", model.EventCategorySEO, "version_id", versionID, "error", err)
		}
		return crumbs
	}

	chain, err := r.ancestors.Ancestors(ctx, ids[0])
	if err != nil {
		slog.Warn("breadcrumb path unavailable",
			"category", model.EventCategorySEO, "version_id", versionID, "node_id", ids[0], "error", err)
		return crumbs
	}

	for _, id := range chain {
		label, err := r.label(ctx, id, language)
		if err != nil {
			slog.Warn("breadcrumb label unavailable",
				"category", model.EventCategorySEO, "node_id", id, "error", err)
			return []Crumb{}
		}
		crumbs = append(crumbs, Crumb{ID: id, Slug: label.Slug, Name: label.Name})
	}
	return crumbs
}

func (r *Resolver) label(ctx context.Context, id int64, language string) (model.TaxonomyLabel, error) {
	node, err := r.src.GetNode(ctx, model.TaxonomyCategory, id)
	if err != nil {
		return model.TaxonomyLabel{}, err
	}
	translations, err := r.src.ListTranslations(ctx, model.TaxonomyCategory, id)
	if err != nil {
		return model.TaxonomyLabel{}, err
	}
	label, _ := variant.SelectLabel(variant.NodeLabels(node, translations, r.languages.Default()), language)
	return label, nil
}

// compose applies the field fallbacks shared by every entity type.
func (r *Resolver) compose(s subject) *Bundle {
	rec := s.record
	if rec == nil {
		rec = &model.SeoRecord{}
	}

	title := firstNonEmpty(rec.Title, s.title)
	description := firstNonEmpty(rec.Description, s.description)
	if description == "" && s.body != "" {
		description = util.Truncate(util.PlainText(s.body), MaxDescriptionLength)
	}

	robots := buildRobotsDirective(rec.NoIndex, rec.NoFollow)
	if s.draft {
		robots = robotsNoIndexNoFollow
	}

	b := &Bundle{
		Entity:             s.entity,
		Language:           s.language,
		AvailableLanguages: s.available,
		Meta: Meta{
			Title:        title,
			Description:  description,
			Keywords:     rec.Keywords,
			CanonicalURL: s.canonical,
			Robots:       robots,
		},
		OpenGraph: OpenGraph{
			Title:       firstNonEmpty(rec.OGTitle, title),
			Description: firstNonEmpty(rec.OGDescription, description),
			Type:        firstNonEmpty(rec.OGType, s.ogType),
			URL:         s.canonical,
			SiteName:    r.site.SiteName,
			Locale:      s.language,
		},
		BreadcrumbPath: s.crumbs,
		Alternates:     s.alternates,
	}
	if b.AvailableLanguages == nil {
		b.AvailableLanguages = []string{}
	}
	if b.BreadcrumbPath == nil {
		b.BreadcrumbPath = []Crumb{}
	}

	// An explicit override wins over the variant cover and the site default.
	if image := firstNonEmpty(rec.OGImage, s.image, r.site.DefaultOGImage); image != "" {
		b.OpenGraph.Image = &OGImage{
			URL: makeAbsoluteURL(image, r.site.BaseURL),
			Alt: title,
		}
	}

	b.Twitter = Twitter{
		Card:        firstNonEmpty(rec.TwitterCard, DefaultTwitterCard),
		Title:       firstNonEmpty(rec.TwitterTitle, b.OpenGraph.Title),
		Description: firstNonEmpty(rec.TwitterDescription, description),
		Site:        r.site.TwitterHandle,
	}
	if rec.TwitterImage != "" {
		b.Twitter.Image = makeAbsoluteURL(rec.TwitterImage, r.site.BaseURL)
	} else if b.OpenGraph.Image != nil {
		b.Twitter.Image = b.OpenGraph.Image.URL
	}

	if rec.HasEvent() {
		event := &EventSchema{
			Context:  "https://schema.org",
			Type:     "Event",
			Name:     firstNonEmpty(rec.EventName, title),
			Location: rec.EventLocation,
			URL:      rec.EventURL,
		}
		if rec.EventStartDate.Valid {
			event.StartDate = formatEventTime(rec.EventStartDate.Time)
		}
		if rec.EventEndDate.Valid {
			event.EndDate = formatEventTime(rec.EventEndDate.Time)
		}
		b.Schema.Event = event
	}

	return b
}

// VersionTitle composes "<title> — <author>", or the bare title without an author.
func VersionTitle(v model.BookVersion) string {
	if v.Author == "" {
		return v.Title
	}
	return v.Title + " — " + v.Author
}
