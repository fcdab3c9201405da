// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the search-engine metadata of books, pages and versions,
// plus the sitemap and robots.txt documents.
package seo

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a record leaves a field unset.
const (
	DefaultTwitterCard    = "summary_large_image"
	DefaultOGType         = "article"
	MaxDescriptionLength  = 160
	robotsIndexFollow     = "index,follow"
	robotsNoIndexNoFollow = "noindex,nofollow"
)

// Bundle is the metadata of one resolved (entity, language) pair.
type Bundle struct {
	Entity             EntityType  `json:"entity"`
	Language           string      `json:"language"`
	AvailableLanguages []string    `json:"availableLanguages"`
	Meta               Meta        `json:"meta"`
	OpenGraph          OpenGraph   `json:"openGraph"`
	Twitter            Twitter     `json:"twitter"`
	Schema             Schema      `json:"schema"`
	BreadcrumbPath     []Crumb     `json:"breadcrumbPath"`
	Alternates         []Alternate `json:"alternates,omitempty"`
}

// Meta holds the plain meta tags.
type Meta struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Keywords     string `json:"keywords,omitempty"`
	CanonicalURL string `json:"canonicalUrl"`
	Robots       string `json:"robots"`
}

// OpenGraph holds the og:* properties.
type OpenGraph struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	URL         string   `json:"url"`
	SiteName    string   `json:"siteName,omitempty"`
	Locale      string   `json:"locale"`
	Image       *OGImage `json:"image,omitempty"`
}

// OGImage is an og:image with its alt text.
type OGImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Twitter holds the twitter:* properties.
type Twitter struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Site        string `json:"site,omitempty"`
}

// Schema holds optional structured data.
type Schema struct {
	Event *EventSchema `json:"event,omitempty"`
}

// EventSchema is JSON-LD Event structured data.
type EventSchema struct {
	Context   string `json:"@context"`
	Type      string `json:"@type"`
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Location  string `json:"location,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Crumb is one taxonomy ancestor of a breadcrumb path.
type Crumb struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Alternate is an hreflang link to another language of the same identity.
type Alternate struct {
	Language string `json:"hreflang"`
	URL      string `json:"href"`
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName       string
	BaseURL        string
	DefaultOGImage string
	TwitterHandle  string
}

// Path sections of localized canonical URLs.
const (
	SectionBooks = "books"
	SectionPages = "pages"
)

// LocalizedURL builds <base>/<lang>/<section>/<slug>.
func LocalizedURL(baseURL, language, section, slug string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + url.PathEscape(language) + "/" + section + "/" + url.PathEscape(slug)
}

// VersionURL builds the language-free canonical URL of a single version.
func VersionURL(baseURL string, id int64) string {
	return strings.TrimSuffix(baseURL, "/") + "/versions/" + strconv.FormatInt(id, 10)
}

// buildRobotsDirective creates the robots meta content from noindex/nofollow flags.
func buildRobotsDirective(noIndex, noFollow bool) string {
	var parts []string

	if noIndex {
		parts = append(parts, "noindex")
	} else {
		parts = append(parts, "index")
	}

	if noFollow {
		parts = append(parts, "nofollow")
	} else {
		parts = append(parts, "follow")
	}

	return strings.Join(parts, ",")
}

// formatEventTime normalizes event dates to UTC RFC 3339.
func formatEventTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// makeAbsoluteURL ensures a URL is absolute by prepending the base URL if needed.
func makeAbsoluteURL(u, baseURL string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return baseURL + u
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
