// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/publish"
)

// SetVersionPublication handles POST /api/v1/admin/versions/{id}/{action}
// where action is publish or unpublish. Repeating the current state succeeds.
func (h *Handler) SetVersionPublication(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "version")
	if !ok {
		return
	}
	action, err := publish.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		writeServiceError(w, err, "version")
		return
	}

	version, err := h.catalog.SetVersionPublication(r.Context(), id, action)
	if err != nil {
		writeServiceError(w, err, "version")
		return
	}

	h.obs.ObservePublication("version", string(action))
	WriteSuccess(w, versionToResponse(version, false), nil)
}

// SetPagePublication handles POST /api/v1/admin/pages/{id}/{action}
func (h *Handler) SetPagePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "page")
	if !ok {
		return
	}
	action, err := publish.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}

	page, err := h.catalog.SetPagePublication(r.Context(), id, action)
	if err != nil {
		writeServiceError(w, err, "page")
		return
	}

	h.obs.ObservePublication("page", string(action))
	WriteSuccess(w, pageToResponse(page), nil)
}
