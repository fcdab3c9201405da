// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/seo"
)

func TestGetSeo_Book(t *testing.T) {
	env := testSetup(t)

	w := env.get(t, "/api/v1/es/seo/books/harry-potter")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := unmarshalData[seo.Bundle](t, w)
	assert.Equal(t, seo.EntityBook, b.Entity)
	assert.Equal(t, "es", b.Language)
	assert.Equal(t, "Harry Potter y la piedra filosofal — J. K. Rowling", b.Meta.Title)
	assert.Equal(t, "https://books.example/es/books/harry-potter", b.Meta.CanonicalURL)
	assert.Equal(t, []string{"Ficción", "Fantasía", "Juvenil"}, crumbNames(b.BreadcrumbPath))
	require.NotNil(t, b.Schema.Event)
	assert.Equal(t, "Madrid", b.Schema.Event.Location)
	assert.Len(t, b.Alternates, 2)
	assert.Equal(t, "es", w.Header().Get("Content-Language"))

	assert.Equal(t, 1, env.observer.count("seo:book/ok"))
}

func TestGetSeo_PageCanonicalsDifferByLanguage(t *testing.T) {
	env := testSetup(t)

	es := unmarshalData[seo.Bundle](t, env.get(t, "/api/v1/es/seo/pages/about"))
	en := unmarshalData[seo.Bundle](t, env.get(t, "/api/v1/en/seo/pages/about"))

	assert.Equal(t, "Sobre nosotros", es.Meta.Title)
	assert.Equal(t, "About us", en.Meta.Title)
	assert.Equal(t, strings.Replace(es.Meta.CanonicalURL, "/es/", "/en/", 1), en.Meta.CanonicalURL)
}

func TestGetSeo_Outcomes(t *testing.T) {
	env := testSetup(t)
	referral := env.versionID(t, "en", model.KindReferral)
	audio := env.versionID(t, "es", model.KindAudio)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
		wantKey    string
	}{
		{"published version", idPath("/api/v1/seo/versions/%d", audio), http.StatusOK, "", "seo:version/ok"},
		{"draft version", idPath("/api/v1/seo/versions/%d", referral), http.StatusNotFound, "no_variant", "seo:version/no_variant"},
		{"missing page", "/api/v1/seo/pages/nowhere", http.StatusNotFound, "not_found", "seo:page/not_found"},
		{"draft page", "/api/v1/seo/pages/terms", http.StatusNotFound, "no_variant", "seo:page/no_variant"},
		{"unknown admin entity", "/api/v1/admin/seo/widget/1", http.StatusBadRequest, "bad_request", "seo:widget/invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.get(t, tt.path)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, unmarshalError(t, w).Code)
			}
			assert.Equal(t, 1, env.observer.count(tt.wantKey))
		})
	}
}

func TestAdminGetSeo_DraftPreview(t *testing.T) {
	env := testSetup(t)
	referral := env.versionID(t, "en", model.KindReferral)

	w := env.get(t, idPath("/api/v1/admin/seo/version/%d", referral))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := unmarshalData[seo.Bundle](t, w)
	assert.Equal(t, seo.EntityVersion, b.Entity)
	assert.Equal(t, "noindex,nofollow", b.Meta.Robots)
	assert.Equal(t, idPath("https://books.example/versions/%d", referral), b.Meta.CanonicalURL)

	w = env.get(t, "/api/v1/admin/seo/page/terms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Terms of use", unmarshalData[seo.Bundle](t, w).Meta.Title)
}

func TestSitemapAndRobots(t *testing.T) {
	env := testSetup(t)

	w := env.get(t, "/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://books.example/es/books/harry-potter</loc>")
	assert.Contains(t, body, "<loc>https://books.example/en/pages/about</loc>")
	assert.NotContains(t, body, "terms")

	w = env.get(t, "/robots.txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /api/v1/admin\n")
	assert.Contains(t, w.Body.String(), "Sitemap: https://books.example/sitemap.xml\n")
}

func TestRobotsOverride(t *testing.T) {
	env := testSetup(t)
	WithRobots(seo.RobotsConfig{DisallowAll: true})(env.handler)

	w := env.get(t, "/robots.txt")
	assert.Equal(t, "User-agent: *\nDisallow: /\n", w.Body.String())
}

func crumbNames(crumbs []seo.Crumb) []string {
	names := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		names = append(names, c.Name)
	}
	return names
}
