// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/testutil"
	"github.com/olegiv/ocms-books/internal/version"
)

const testAdminToken = "health-test-token-0123456789abcdef"

var testVersion = version.Info{Version: "v1.2.3", GitCommit: "abc1234", BuildTime: "2026-01-02T03:04:05Z"}

func newTestHealthHandler(t *testing.T) *HealthHandler {
	t.Helper()
	negotiator, err := lang.NewNegotiator([]string{"en", "es"}, "en")
	if err != nil {
		t.Fatalf("NewNegotiator: %v", err)
	}
	return NewHealthHandler(testutil.MemoryDB(t), HealthConfig{
		DataDir:    t.TempDir(),
		AdminToken: testAdminToken,
		Version:    testVersion,
		Languages:  negotiator,
	})
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func addAdminAuth(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+testAdminToken)
}

func TestHealthHandler_Health_Public(t *testing.T) {
	handler := newTestHealthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, field := range []string{"checks", "uptime", "version", "system"} {
		if _, ok := resp[field]; ok {
			t.Errorf("public response should not contain %q", field)
		}
	}
}

func TestHealthHandler_Health_Admin(t *testing.T) {
	handler := newTestHealthHandler(t)

	tests := []struct {
		name       string
		query      string
		wantSystem bool
	}{
		{"basic", "", false},
		{"verbose", "?verbose=true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health"+tt.query, nil)
			addAdminAuth(req)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			assertStatus(t, w.Code, http.StatusOK)

			var status HealthStatus
			if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if status.Version != testVersion {
				t.Errorf("version = %+v; want %+v", status.Version, testVersion)
			}
			if status.Checks["database"].Status != "healthy" {
				t.Errorf("database check = %+v; want healthy", status.Checks["database"])
			}
			if got := status.Checks["catalog"].Message; got != "Catalog is empty" {
				t.Errorf("catalog message = %q; want Catalog is empty", got)
			}
			if status.Languages == nil || status.Languages.Default != "en" || len(status.Languages.Supported) != 2 {
				t.Errorf("languages = %+v; want en,es with default en", status.Languages)
			}
			if _, ok := status.Checks["disk"]; !ok {
				t.Error("expected disk check")
			}
			if (status.System != nil) != tt.wantSystem {
				t.Errorf("system present = %v; want %v", status.System != nil, tt.wantSystem)
			}
		})
	}
}

func TestHealthHandler_Health_WrongToken(t *testing.T) {
	handler := newTestHealthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()

	handler.Health(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if _, ok := resp["checks"]; ok {
		t.Error("wrong token must get the public response")
	}
}

func TestHealthHandler_Health_UnhealthyDatabase(t *testing.T) {
	handler := newTestHealthHandler(t)
	_ = handler.db.Close()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	addAdminAuth(req)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("status = %q; want degraded", status.Status)
	}
	if status.Checks["database"].Status != "unhealthy" {
		t.Errorf("database check = %+v; want unhealthy", status.Checks["database"])
	}
}

func TestHealthHandler_Health_CatalogCount(t *testing.T) {
	handler := NewHealthHandler(testutil.SeededDB(t), HealthConfig{
		DataDir:    t.TempDir(),
		AdminToken: testAdminToken,
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	addAdminAuth(req)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if got := status.Checks["catalog"].Message; got != "1 book(s)" {
		t.Errorf("catalog message = %q; want 1 book(s)", got)
	}
	if status.Languages != nil {
		t.Errorf("languages = %+v; want omitted without a negotiator", status.Languages)
	}
}

// testHealthProbe tests a health probe endpoint for expected status response.
func testHealthProbe(t *testing.T, path string, handlerFn func(http.ResponseWriter, *http.Request), expectedStatus string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()

	handlerFn(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != expectedStatus {
		t.Errorf("status = %q; want %s", resp["status"], expectedStatus)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := newTestHealthHandler(t)
	testHealthProbe(t, "/health/live", handler.Liveness, "alive")
}

func TestHealthHandler_Readiness(t *testing.T) {
	handler := newTestHealthHandler(t)
	testHealthProbe(t, "/health/ready", handler.Readiness, "ready")
}

func TestHealthHandler_Readiness_NotReady(t *testing.T) {
	tests := []struct {
		name        string
		admin       bool
		wantMessage bool
	}{
		{"public", false, false},
		{"admin", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHealthHandler(t)
			_ = handler.db.Close()

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			if tt.admin {
				addAdminAuth(req)
			}
			w := httptest.NewRecorder()

			handler.Readiness(w, req)

			assertStatus(t, w.Code, http.StatusServiceUnavailable)

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp["status"] != "not_ready" {
				t.Errorf("status = %q; want not_ready", resp["status"])
			}
			if _, ok := resp["message"]; ok != tt.wantMessage {
				t.Errorf("message present = %v; want %v", ok, tt.wantMessage)
			}
		})
	}
}

func TestHealthHandler_DisabledAdminToken(t *testing.T) {
	handler := NewHealthHandler(testutil.MemoryDB(t), HealthConfig{DataDir: t.TempDir()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer ")
	if handler.isAdmin(req) {
		t.Error("empty configured token must never authenticate")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
		}
	}
}
