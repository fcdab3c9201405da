// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/hierarchy"
	"github.com/olegiv/ocms-books/internal/metrics"
	"github.com/olegiv/ocms-books/internal/middleware"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/publish"
	"github.com/olegiv/ocms-books/internal/seo"
)

// GetSeo handles the public SEO routes of one entity type:
// GET /api/v1/seo/books/{slug}, GET /api/v1/seo/pages/{slug} (and the /{lang}/
// variants) and GET /api/v1/seo/versions/{id}.
func (h *Handler) GetSeo(entity seo.EntityType) http.HandlerFunc {
	param := "slug"
	if entity == seo.EntityVersion {
		param = "id"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h.resolveSeo(w, r, seo.Request{
			Entity:  entity,
			Key:     chi.URLParam(r, param),
			Signals: middleware.GetSignals(r),
			Scope:   publish.ScopePublic,
		})
	}
}

// AdminGetSeo handles GET /api/v1/admin/seo/{entity}/{key}
// Admin previews include drafts and are always marked noindex.
func (h *Handler) AdminGetSeo(w http.ResponseWriter, r *http.Request) {
	entity, err := seo.ParseEntityType(chi.URLParam(r, "entity"))
	if err != nil {
		h.obs.ObserveSEO(chi.URLParam(r, "entity"), metrics.OutcomeInvalid)
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	h.resolveSeo(w, r, seo.Request{
		Entity:  entity,
		Key:     chi.URLParam(r, "key"),
		Signals: middleware.GetSignals(r),
		Scope:   publish.ScopeAdmin,
	})
}

func (h *Handler) resolveSeo(w http.ResponseWriter, r *http.Request, req seo.Request) {
	bundle, err := h.catalog.Seo(r.Context(), req)
	h.obs.ObserveSEO(string(req.Entity), seoOutcome(err))
	if err != nil {
		writeServiceError(w, err, string(req.Entity))
		return
	}

	w.Header().Set("Content-Language", bundle.Language)
	WriteSuccess(w, bundle, nil)
}

func seoOutcome(err error) string {
	var verr *hierarchy.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrNoVisibleVariant):
		return metrics.OutcomeNoVariant
	case errors.Is(err, model.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, seo.ErrUnknownEntity), errors.As(err, &verr):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

// Sitemap handles GET /sitemap.xml
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.catalog.Sitemap(r.Context())
	if err != nil {
		slog.Error("building sitemap failed", "category", model.EventCategorySEO, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// Robots handles GET /robots.txt
func (h *Handler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.NewRobotsBuilder(h.robots).Build()))
}
