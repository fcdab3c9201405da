// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers of the book catalog.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-books/internal/handler"
	"github.com/olegiv/ocms-books/internal/hierarchy"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/publish"
	"github.com/olegiv/ocms-books/internal/seo"
	"github.com/olegiv/ocms-books/internal/service"
	"github.com/olegiv/ocms-books/internal/store"
)

// Observer receives counters for SEO resolutions and publication changes.
// *metrics.ServerMetrics satisfies it.
type Observer interface {
	ObserveSEO(entity, outcome string)
	ObservePublication(target, action string)
}

type nopObserver struct{}

func (nopObserver) ObserveSEO(string, string)         {}
func (nopObserver) ObservePublication(string, string) {}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	catalog *service.Catalog
	obs     Observer
	robots  seo.RobotsConfig
}

// Option configures a Handler.
type Option func(*Handler)

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(h *Handler) {
		if o != nil {
			h.obs = o
		}
	}
}

// WithRobots overrides the robots.txt settings.
func WithRobots(cfg seo.RobotsConfig) Option {
	return func(h *Handler) {
		h.robots = cfg
	}
}

// NewHandler creates a new API handler.
func NewHandler(catalog *service.Catalog, opts ...Option) *Handler {
	h := &Handler{
		catalog: catalog,
		obs:     nopObserver{},
		robots:  seo.RobotsConfig{BaseURL: catalog.Site().BaseURL},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list totals and other metadata.
type Meta struct {
	Total int64 `json:"total,omitempty"`
	Limit int   `json:"limit,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	WriteJSON(w, statusCode, resp)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteNoVariant writes a 404 response for an identity with nothing visible.
func WriteNoVariant(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "no_variant", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// writeServiceError maps a catalog error onto the API error envelope.
// Hierarchy validation failures carry their kind as the error code and their
// reason verbatim as the message.
func writeServiceError(w http.ResponseWriter, err error, entityName string) {
	var verr *hierarchy.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, string(verr.Kind), verr.Reason, nil)
	case errors.Is(err, publish.ErrUnknownAction),
		errors.Is(err, seo.ErrUnknownEntity),
		errors.Is(err, store.ErrUnknownTaxonomy):
		WriteBadRequest(w, err.Error(), nil)
	case errors.Is(err, model.ErrNoVisibleVariant):
		WriteNoVariant(w, capitalizeFirst(entityName)+" has no visible variant")
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
	default:
		slog.Error("api request failed", "entity", entityName, "error", err)
		WriteInternalError(w, "Failed to retrieve "+entityName)
	}
}

// requireID parses the {id} URL parameter. Returns false if the id is
// missing or not positive (response already written).
func requireID(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := handler.ParseIDParam(r)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst. Returns false if the body is
// malformed (response already written).
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
