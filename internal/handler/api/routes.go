// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/middleware"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/seo"
)

// RouterConfig holds what the API routes are mounted with.
type RouterConfig struct {
	Languages *lang.Negotiator
	// OnNegotiate, if not nil, observes every route-level language decision.
	OnNegotiate func(lang.Decision)
	// AdminToken guards /api/v1/admin. The admin routes are not mounted when
	// it is empty.
	AdminToken string
	// RateLimit, if not nil, wraps every API route.
	RateLimit func(http.Handler) http.Handler
}

// Mount registers the API under /api/v1 and the sitemap and robots.txt at
// the root of r.
func (h *Handler) Mount(r chi.Router, cfg RouterConfig) {
	language := middleware.Language(cfg.Languages, cfg.OnNegotiate)

	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit)
		}

		// Unlocalized public routes: ?lang= and Accept-Language only.
		r.Group(func(r chi.Router) {
			r.Use(language)
			h.publicRoutes(r)
			r.Get("/seo/versions/{id}", h.GetSeo(seo.EntityVersion))
		})

		// Localized public routes. The {lang} segment is matched by the
		// parent router before the guard runs.
		r.Route("/{lang:[a-zA-Z]{2,3}}", func(r chi.Router) {
			r.Use(language)
			h.publicRoutes(r)
		})

		if cfg.AdminToken != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminToken(cfg.AdminToken))
				r.Use(language)
				h.adminRoutes(r)
			})
		}
	})
}

func (h *Handler) publicRoutes(r chi.Router) {
	r.Get("/books/{slug}", h.GetBook)
	r.Get("/pages/{slug}", h.GetPage)

	r.Get("/categories", h.ListTaxonomy(model.TaxonomyCategory))
	r.Get("/categories/{slug}", h.GetTaxonomy(model.TaxonomyCategory))
	r.Get("/tags", h.ListTaxonomy(model.TaxonomyTag))
	r.Get("/tags/{slug}", h.GetTaxonomy(model.TaxonomyTag))

	r.Get("/seo/books/{slug}", h.GetSeo(seo.EntityBook))
	r.Get("/seo/pages/{slug}", h.GetSeo(seo.EntityPage))
}

func (h *Handler) adminRoutes(r chi.Router) {
	r.Get("/books/{slug}", h.AdminGetBook)
	r.Get("/pages/{slug}", h.AdminGetPage)
	r.Get("/seo/{entity}/{key}", h.AdminGetSeo)
	r.Get("/events", h.ListEvents)

	r.Post("/versions/{id}/{action}", h.SetVersionPublication)
	r.Post("/pages/{id}/{action}", h.SetPagePublication)

	for _, t := range []struct {
		prefix string
		kind   string
	}{
		{"/categories", model.TaxonomyCategory},
		{"/tags", model.TaxonomyTag},
	} {
		r.Put(t.prefix+"/{id}/parent", h.ReparentNode(t.kind))
		r.Delete(t.prefix+"/{id}", h.DeleteNode(t.kind))
		r.Post(t.prefix+"/{id}/translations", h.CreateTranslation(t.kind))
	}
}
