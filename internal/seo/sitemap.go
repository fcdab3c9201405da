// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"time"
)

// Sitemap XML namespaces.
const (
	XMLNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string        `xml:"loc"`
	LastMod    string        `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq    `xml:"changefreq,omitempty"`
	Priority   string        `xml:"priority,omitempty"`
	Alternates []SitemapLink `xml:"xhtml:link"`
}

// SitemapLink is an hreflang alternate of a sitemap URL.
type SitemapLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntry is one published identity and the languages it exists in.
type SitemapEntry struct {
	Section   string // SectionBooks or SectionPages
	Slug      string
	Languages []string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML from localized content.
type SitemapBuilder struct {
	baseURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(baseURL string) *SitemapBuilder {
	return &SitemapBuilder{
		baseURL: baseURL,
		urls:    make([]SitemapURL, 0),
	}
}

// Add appends one URL per language of e. Every URL lists all languages of
// the identity, itself included, as alternates.
func (b *SitemapBuilder) Add(e SitemapEntry) {
	if len(e.Languages) == 0 {
		return
	}

	alternates := make([]SitemapLink, 0, len(e.Languages))
	for _, code := range e.Languages {
		alternates = append(alternates, SitemapLink{
			Rel:      "alternate",
			Hreflang: code,
			Href:     LocalizedURL(b.baseURL, code, e.Section, e.Slug),
		})
	}

	priority := "0.6"
	if e.Section == SectionBooks {
		priority = "0.8"
	}

	for _, code := range e.Languages {
		u := SitemapURL{
			Loc:        LocalizedURL(b.baseURL, code, e.Section, e.Slug),
			ChangeFreq: ChangeFreqWeekly,
			Priority:   priority,
			Alternates: alternates,
		}
		if !e.UpdatedAt.IsZero() {
			u.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, u)
	}
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		XHTML: XHTMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap is a convenience function to generate a sitemap from entries.
func GenerateSitemap(baseURL string, entries []SitemapEntry) ([]byte, error) {
	builder := NewSitemapBuilder(baseURL)
	for _, e := range entries {
		builder.Add(e)
	}
	return builder.Build()
}
