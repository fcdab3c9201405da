// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegiv/ocms-books/internal/handler"
)

// EventAPIResponse represents an audit event in API responses.
type EventAPIResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListEvents handles GET /api/v1/admin/events?limit=N
// Newest first; limit defaults to 50 and is capped at 500.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := handler.ParseIntParam(r, "limit", 50, 1, 500)

	events, err := h.catalog.Events().Recent(r.Context(), int64(limit))
	if err != nil {
		writeServiceError(w, err, "events")
		return
	}

	resp := make([]EventAPIResponse, 0, len(events))
	for _, e := range events {
		item := EventAPIResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
		if json.Valid([]byte(e.Metadata)) {
			item.Metadata = json.RawMessage(e.Metadata)
		}
		resp = append(resp, item)
	}

	WriteSuccess(w, resp, &Meta{Total: int64(len(resp)), Limit: limit})
}
