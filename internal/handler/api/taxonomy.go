// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/middleware"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/service"
	"github.com/olegiv/ocms-books/internal/util"
)

// TaxonomyAPIResponse represents a category or tag in API responses.
type TaxonomyAPIResponse struct {
	ID                 int64                 `json:"id"`
	Kind               string                `json:"kind"`
	BaseSlug           string                `json:"base_slug"`
	Slug               string                `json:"slug"`
	Name               string                `json:"name"`
	Description        string                `json:"description,omitempty"`
	ParentID           *int64                `json:"parent_id,omitempty"`
	Language           string                `json:"language"`
	LanguageSource     string                `json:"language_source"`
	AvailableLanguages []string              `json:"available_languages"`
	Path               []model.TaxonomyLabel `json:"path"`
	Children           []model.TaxonomyLabel `json:"children"`
}

// NodeAPIResponse represents a bare taxonomy node after an admin write.
type NodeAPIResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReparentRequest represents the request body for moving a node. parent_id
// is required; an explicit null moves the node to the root.
type ReparentRequest struct {
	ParentID OptionalID `json:"parent_id"`
}

// OptionalID is a nullable ID that remembers whether the field was sent.
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler. It is also called for null.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// CreateTranslationRequest represents the request body for adding a
// translation. An empty slug is derived from the name.
type CreateTranslationRequest struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
}

func taxonomyViewToResponse(v *service.TaxonomyView) TaxonomyAPIResponse {
	return TaxonomyAPIResponse{
		ID:                 v.Node.ID,
		Kind:               v.Kind,
		BaseSlug:           v.Node.Slug,
		Slug:               v.Label.Slug,
		Name:               v.Label.Name,
		Description:        v.Node.Description,
		ParentID:           v.Node.Parent(),
		Language:           v.Decision.Language,
		LanguageSource:     string(v.Decision.Source),
		AvailableLanguages: v.AvailableLanguages,
		Path:               v.Path,
		Children:           v.Children,
	}
}

func nodeToResponse(kind string, n model.TaxonomyNode) NodeAPIResponse {
	return NodeAPIResponse{
		ID:        n.ID,
		Kind:      kind,
		Slug:      n.Slug,
		Name:      n.Name,
		ParentID:  n.Parent(),
		Position:  n.Position,
		UpdatedAt: n.UpdatedAt,
	}
}

// ListTaxonomy handles GET /api/v1/categories and GET /api/v1/tags (and the
// /{lang}/ variants). Every node is labelled in the negotiated language.
func (h *Handler) ListTaxonomy(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision, labels, err := h.catalog.TaxonomyList(r.Context(), kind, middleware.GetSignals(r))
		if err != nil {
			writeServiceError(w, err, kind)
			return
		}

		w.Header().Set("Content-Language", decision.Language)
		WriteSuccess(w, labels, &Meta{Total: int64(len(labels))})
	}
}

// GetTaxonomy handles GET /api/v1/categories/{slug} and GET /api/v1/tags/{slug}
// (and the /{lang}/ variants). The slug may be localized.
func (h *Handler) GetTaxonomy(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		view, err := h.catalog.Taxonomy(r.Context(), kind, slug, middleware.GetSignals(r))
		if err != nil {
			writeServiceError(w, err, kind)
			return
		}

		w.Header().Set("Content-Language", view.Decision.Language)
		WriteSuccess(w, taxonomyViewToResponse(view), nil)
	}
}

// ReparentNode handles PUT /api/v1/admin/{categories|tags}/{id}/parent
// Rejections from the hierarchy checks are returned as 400 with their reason.
func (h *Handler) ReparentNode(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireID(w, r, kind)
		if !ok {
			return
		}

		var req ReparentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if !req.ParentID.Set {
			WriteBadRequest(w, "parent_id is required, use null to move to the root", nil)
			return
		}

		node, err := h.catalog.Reparent(r.Context(), kind, id, util.NullInt64FromPtr(req.ParentID.Value))
		if err != nil {
			writeServiceError(w, err, kind)
			return
		}

		WriteSuccess(w, nodeToResponse(kind, node), nil)
	}
}

// DeleteNode handles DELETE /api/v1/admin/{categories|tags}/{id}
// A node with children cannot be deleted.
func (h *Handler) DeleteNode(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireID(w, r, kind)
		if !ok {
			return
		}

		if err := h.catalog.DeleteNode(r.Context(), kind, id); err != nil {
			writeServiceError(w, err, kind)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateTranslation handles POST /api/v1/admin/{categories|tags}/{id}/translations
func (h *Handler) CreateTranslation(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireID(w, r, kind)
		if !ok {
			return
		}

		var req CreateTranslationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tr, err := h.catalog.AddTranslation(r.Context(), kind, id, service.TranslationInput{
			Language: req.Language,
			Name:     req.Name,
			Slug:     req.Slug,
		})
		if err != nil {
			writeServiceError(w, err, kind)
			return
		}

		WriteCreated(w, tr)
	}
}
