// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/model"
	"github.com/olegiv/ocms-books/internal/seo"
	"github.com/olegiv/ocms-books/internal/service"
	"github.com/olegiv/ocms-books/internal/store"
	"github.com/olegiv/ocms-books/internal/testutil"
)

const testAdminToken = "api-test-admin-token-0123456789abcdef"

// recordingObserver counts observations by "entity/outcome" and
// "target/action" keys.
type recordingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{counts: make(map[string]int)}
}

func (o *recordingObserver) ObserveSEO(entity, outcome string) {
	o.add("seo:" + entity + "/" + outcome)
}

func (o *recordingObserver) ObservePublication(target, action string) {
	o.add("publication:" + target + "/" + action)
}

func (o *recordingObserver) add(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[key]++
}

func (o *recordingObserver) count(key string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[key]
}

// testEnv bundles a handler over the seeded demo catalog with a mounted router.
type testEnv struct {
	handler  *Handler
	queries  *store.Queries
	observer *recordingObserver
	router   chi.Router
}

// testSetup creates a seeded database, an API handler and a router with the
// admin API enabled.
func testSetup(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SeededDB(t)
	negotiator, err := lang.NewNegotiator([]string{"en", "es", "fr", "pt"}, "en")
	if err != nil {
		t.Fatalf("NewNegotiator: %v", err)
	}

	catalog := service.NewCatalog(db, negotiator, service.CatalogConfig{
		Site: seo.SiteConfig{SiteName: "Books", BaseURL: "https://books.example"},
	})
	observer := newRecordingObserver()
	h := NewHandler(catalog, WithObserver(observer))

	r := chi.NewRouter()
	h.Mount(r, RouterConfig{Languages: negotiator, AdminToken: testAdminToken})

	return &testEnv{
		handler:  h,
		queries:  store.New(db),
		observer: observer,
		router:   r,
	}
}

// serve sends a request through the router. Admin requests carry the token.
func (e *testEnv) serve(t *testing.T, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if strings.HasPrefix(path, "/api/v1/admin") && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return e.serve(t, http.MethodGet, path, "", nil)
}

func (e *testEnv) nodeID(t *testing.T, kind, slug string) int64 {
	t.Helper()
	node, err := e.queries.GetNodeBySlug(context.Background(), kind, slug)
	if err != nil {
		t.Fatalf("GetNodeBySlug(%s, %s): %v", kind, slug, err)
	}
	return node.ID
}

func (e *testEnv) versionID(t *testing.T, language string, kind model.VersionKind) int64 {
	t.Helper()
	ctx := context.Background()
	book, err := e.queries.GetBookBySlug(ctx, store.DemoBookSlug)
	if err != nil {
		t.Fatalf("GetBookBySlug: %v", err)
	}
	versions, err := e.queries.ListBookVersions(ctx, book.ID, false)
	if err != nil {
		t.Fatalf("ListBookVersions: %v", err)
	}
	for _, v := range versions {
		if v.Language == language && v.Kind == kind {
			return v.ID
		}
	}
	t.Fatalf("no %s %s version", language, kind)
	return 0
}

func (e *testEnv) pageID(t *testing.T, slug, language string) int64 {
	t.Helper()
	pages, err := e.queries.ListPagesBySlug(context.Background(), slug, false)
	if err != nil {
		t.Fatalf("ListPagesBySlug: %v", err)
	}
	for _, p := range pages {
		if p.Language == language {
			return p.ID
		}
	}
	t.Fatalf("no %s page %q", language, slug)
	return 0
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data
}

// unmarshalError unmarshals a JSON error body.
func unmarshalError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp.Error
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
