// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/middleware"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/publish"
	"github.com/olegiv/ocms-books/internal/service"
	"github.com/olegiv/ocms-books/internal/util"
)

// PageAPIResponse represents a page in API responses.
type PageAPIResponse struct {
	ID                 int64      `json:"id"`
	Slug               string     `json:"slug"`
	Language           string     `json:"language"`
	LanguageSource     string     `json:"language_source,omitempty"`
	AvailableLanguages []string   `json:"available_languages,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	HTML               string     `json:"html,omitempty"`
	CoverImage         string     `json:"cover_image,omitempty"`
	Status             string     `json:"status"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func pageToResponse(p model.Page) PageAPIResponse {
	return PageAPIResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Language:    p.Language,
		Title:       p.Title,
		Description: p.Description,
		CoverImage:  p.CoverImage,
		Status:      string(p.Status),
		PublishedAt: util.TimePtr(p.PublishedAt),
		UpdatedAt:   p.UpdatedAt,
	}
}

// GetPage handles GET /api/v1/pages/{slug} and GET /api/v1/{lang}/pages/{slug}
// Public: only published rows are visible.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	h.getPage(w, r, publish.ScopePublic)
}

// AdminGetPage handles GET /api/v1/admin/pages/{slug}
func (h *Handler) AdminGetPage(w http.ResponseWriter, r *http.Request) {
	h.getPage(w, r, publish.ScopeAdmin)
}

func (h *Handler) getPage(w http.ResponseWriter, r *http.Request, scope publish.Scope) {
	slug := chi.URLParam(r, "slug")

	view, err := h.catalog.Page(r.Context(), slug, middleware.GetSignals(r), scope)
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}

	w.Header().Set("Content-Language", view.Decision.Language)
	WriteSuccess(w, pageViewToResponse(view), nil)
}

func pageViewToResponse(view *service.PageView) PageAPIResponse {
	resp := pageToResponse(view.Page)
	resp.HTML = view.HTML
	resp.LanguageSource = string(view.Decision.Source)
	resp.AvailableLanguages = view.AvailableLanguages
	return resp
}
