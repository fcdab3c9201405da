// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-books/internal/model"
)

func labelNames(labels []model.TaxonomyLabel) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

func TestGetTaxonomy(t *testing.T) {
	env := testSetup(t)

	t.Run("localized slug", func(t *testing.T) {
		w := env.get(t, "/api/v1/es/categories/juvenil")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		cat := unmarshalData[TaxonomyAPIResponse](t, w)
		assert.Equal(t, "category", cat.Kind)
		assert.Equal(t, "young-adult", cat.BaseSlug)
		assert.Equal(t, "juvenil", cat.Slug)
		assert.Equal(t, "Juvenil", cat.Name)
		assert.Equal(t, "es", cat.Language)
		assert.Equal(t, []string{"Ficción", "Fantasía", "Juvenil"}, labelNames(cat.Path))
		assert.Empty(t, cat.Children)
		require.NotNil(t, cat.ParentID)
		assert.Equal(t, env.nodeID(t, model.TaxonomyCategory, "fantasy"), *cat.ParentID)
	})

	t.Run("base slug in default language", func(t *testing.T) {
		w := env.get(t, "/api/v1/categories/fiction")
		require.Equal(t, http.StatusOK, w.Code)

		cat := unmarshalData[TaxonomyAPIResponse](t, w)
		assert.Equal(t, "Fiction", cat.Name)
		assert.Nil(t, cat.ParentID)
		assert.Equal(t, []string{"Fantasy"}, labelNames(cat.Children))
		assert.Equal(t, []string{"en", "es", "fr"}, cat.AvailableLanguages)
	})

	t.Run("tag", func(t *testing.T) {
		w := env.get(t, "/api/v1/tags/magia?lang=es")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Magia", unmarshalData[TaxonomyAPIResponse](t, w).Name)
	})

	t.Run("missing", func(t *testing.T) {
		w := env.get(t, "/api/v1/tags/unknown")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", unmarshalError(t, w).Code)
	})
}

func TestListTaxonomy(t *testing.T) {
	env := testSetup(t)

	w := env.get(t, "/api/v1/es/tags")
	require.Equal(t, http.StatusOK, w.Code)

	resp := unmarshalData[[]model.TaxonomyLabel](t, w)
	assert.Equal(t, []string{"Magia", "School"}, labelNames(resp))
	assert.Equal(t, "es", w.Header().Get("Content-Language"))
}

func TestReparentNode(t *testing.T) {
	env := testSetup(t)
	fiction := env.nodeID(t, model.TaxonomyCategory, "fiction")
	youngAdult := env.nodeID(t, model.TaxonomyCategory, "young-adult")
	nonFiction := env.nodeID(t, model.TaxonomyCategory, "non-fiction")

	tests := []struct {
		name       string
		id         int64
		body       string
		wantStatus int
		wantCode   string
	}{
		{"self parent", fiction, `{"parent_id": ` + strconv.FormatInt(fiction, 10) + `}`, http.StatusBadRequest, "self_parent"},
		{"descendant parent", fiction, `{"parent_id": ` + strconv.FormatInt(youngAdult, 10) + `}`, http.StatusBadRequest, "cycle"},
		{"missing parent", fiction, `{"parent_id": 9999}`, http.StatusBadRequest, "parent_not_found"},
		{"missing node", 9999, `{"parent_id": null}`, http.StatusNotFound, "not_found"},
		{"malformed body", fiction, `{"parent_id": "x"}`, http.StatusBadRequest, "bad_request"},
		{"unknown field", fiction, `{"parent": 1}`, http.StatusBadRequest, "bad_request"},
		{"absent parent_id", fiction, `{}`, http.StatusBadRequest, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(t, http.MethodPut, idPath("/api/v1/admin/categories/%d/parent", tt.id), tt.body, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, unmarshalError(t, w).Code)
		})
	}

	t.Run("cycle reason is verbatim", func(t *testing.T) {
		w := env.serve(t, http.MethodPut, idPath("/api/v1/admin/categories/%d/parent", fiction),
			`{"parent_id": `+strconv.FormatInt(youngAdult, 10)+`}`, nil)
		assert.Equal(t, "cannot set a descendant as parent (circular reference)", unmarshalError(t, w).Message)
	})

	t.Run("move and return to root", func(t *testing.T) {
		w := env.serve(t, http.MethodPut, idPath("/api/v1/admin/categories/%d/parent", nonFiction),
			`{"parent_id": `+strconv.FormatInt(fiction, 10)+`}`, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		node := unmarshalData[NodeAPIResponse](t, w)
		require.NotNil(t, node.ParentID)
		assert.Equal(t, fiction, *node.ParentID)

		w = env.serve(t, http.MethodPut, idPath("/api/v1/admin/categories/%d/parent", nonFiction), `{"parent_id": null}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, unmarshalData[NodeAPIResponse](t, w).ParentID)
	})
}

func TestDeleteNode(t *testing.T) {
	env := testSetup(t)
	fiction := env.nodeID(t, model.TaxonomyCategory, "fiction")
	school := env.nodeID(t, model.TaxonomyTag, "school")

	w := env.serve(t, http.MethodDelete, idPath("/api/v1/admin/categories/%d", fiction), "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "has_children", unmarshalError(t, w).Code)

	w = env.serve(t, http.MethodDelete, idPath("/api/v1/admin/tags/%d", school), "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.serve(t, http.MethodDelete, idPath("/api/v1/admin/tags/%d", school), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.get(t, "/api/v1/tags/school")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTranslation(t *testing.T) {
	env := testSetup(t)
	school := env.nodeID(t, model.TaxonomyTag, "school")
	magic := env.nodeID(t, model.TaxonomyTag, "magic")

	w := env.serve(t, http.MethodPost, idPath("/api/v1/admin/tags/%d/translations", school),
		`{"language": "ES", "name": "Escuela"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tr := unmarshalData[model.TaxonomyTranslation](t, w)
	assert.Equal(t, "es", tr.Language)
	assert.Equal(t, "escuela", tr.Slug)
	assert.Equal(t, school, tr.NodeID)

	w = env.get(t, "/api/v1/es/tags/escuela")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Escuela", unmarshalData[TaxonomyAPIResponse](t, w).Name)

	tests := []struct {
		name     string
		id       int64
		body     string
		wantCode string
	}{
		{"unsupported language", school, `{"language": "de", "name": "Schule"}`, "invalid_language"},
		{"default language", school, `{"language": "en", "name": "Schooling", "slug": "schooling"}`, "invalid_language"},
		{"bad slug", school, `{"language": "fr", "name": "Ecole", "slug": "Bad Slug"}`, "invalid_slug"},
		{"language already translated", school, `{"language": "es", "name": "Colegio"}`, "duplicate_translation"},
		{"slug free in another language", magic, `{"language": "pt", "name": "Escuela", "slug": "escuela"}`, ""},
		{"second language on same node", magic, `{"language": "fr", "name": "Magie", "slug": "magie"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(t, http.MethodPost, idPath("/api/v1/admin/tags/%d/translations", tt.id), tt.body, nil)
			if tt.wantCode == "" {
				assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
				return
			}
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, unmarshalError(t, w).Code)
		})
	}

	t.Run("duplicate slug in same language", func(t *testing.T) {
		w := env.serve(t, http.MethodPost, idPath("/api/v1/admin/tags/%d/translations", school),
			`{"language": "pt", "name": "Escola", "slug": "escuela"}`, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "duplicate_translation", unmarshalError(t, w).Code)
	})
}
