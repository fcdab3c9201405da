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

// VersionAPIResponse represents a book version in API responses.
type VersionAPIResponse struct {
	ID          int64      `json:"id"`
	Language    string     `json:"language"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	Description string     `json:"description,omitempty"`
	HTML        string     `json:"html,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	IsFree      bool       `json:"is_free"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BookAPIResponse represents a book overview in API responses.
type BookAPIResponse struct {
	ID                 int64    `json:"id"`
	Slug               string   `json:"slug"`
	CoverImage         string   `json:"cover_image,omitempty"`
	Language           string   `json:"language"`
	LanguageSource     string   `json:"language_source"`
	AvailableLanguages []string `json:"available_languages"`

	// Selected holds one version per kind, keyed by kind.
	Selected map[string]VersionAPIResponse `json:"selected"`
	Versions []VersionAPIResponse          `json:"versions"`
}

func versionToResponse(v model.BookVersion, withBody bool) VersionAPIResponse {
	resp := VersionAPIResponse{
		ID:          v.ID,
		Language:    v.Language,
		Kind:        string(v.Kind),
		Title:       v.Title,
		Author:      v.Author,
		Description: v.Description,
		CoverImage:  v.CoverImage,
		IsFree:      v.IsFree,
		Status:      string(v.Status),
		PublishedAt: util.TimePtr(v.PublishedAt),
		UpdatedAt:   v.UpdatedAt,
	}
	if withBody && v.Body != "" {
		resp.HTML = service.RenderBody(v.Body)
	}
	return resp
}

func bookToResponse(o *service.BookOverview) BookAPIResponse {
	resp := BookAPIResponse{
		ID:                 o.Book.ID,
		Slug:               o.Book.Slug,
		CoverImage:         o.Book.CoverImage,
		Language:           o.Decision.Language,
		LanguageSource:     string(o.Decision.Source),
		AvailableLanguages: o.AvailableLanguages,
		Selected:           make(map[string]VersionAPIResponse, len(o.Selected)),
		Versions:           make([]VersionAPIResponse, 0, len(o.Versions)),
	}
	if resp.AvailableLanguages == nil {
		resp.AvailableLanguages = []string{}
	}
	for kind, v := range o.Selected {
		resp.Selected[string(kind)] = versionToResponse(v, true)
	}
	for _, v := range o.Versions {
		resp.Versions = append(resp.Versions, versionToResponse(v, false))
	}
	return resp
}

// GetBook handles GET /api/v1/books/{slug} and GET /api/v1/{lang}/books/{slug}
// Public: only published versions are visible.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	h.getBook(w, r, publish.ScopePublic)
}

// AdminGetBook handles GET /api/v1/admin/books/{slug}
// Admin: drafts are visible.
func (h *Handler) AdminGetBook(w http.ResponseWriter, r *http.Request) {
	h.getBook(w, r, publish.ScopeAdmin)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request, scope publish.Scope) {
	slug := chi.URLParam(r, "slug")

	overview, err := h.catalog.BookOverview(r.Context(), slug, middleware.GetSignals(r), scope)
	if err != nil {
		writeServiceError(w, err, "book")
		return
	}

	w.Header().Set("Content-Language", overview.Decision.Language)
	WriteSuccess(w, bookToResponse(overview), nil)
}
