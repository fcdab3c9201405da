// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package variant picks the concrete language variant of a content identity:
// the exact language if present, otherwise the first available one.
package variant

import (
	"strings"

	"github.com/olegiv/ocms-books/internal/model"
)

// Select returns the first item accepted by match whose language equals
// preferred (case-insensitive). Without such an item it returns the first
// accepted item in the slice's existing order. A nil match accepts everything.
func Select[T any](items []T, match func(T) bool, language func(T) string, preferred string) (T, bool) {
	var (
		first T
		found bool
	)
	for _, item := range items {
		if match != nil && !match(item) {
			continue
		}
		if strings.EqualFold(language(item), preferred) {
			return item, true
		}
		if !found {
			first, found = item, true
		}
	}
	return first, found
}

// AvailableLanguages returns the de-duplicated, lower-cased languages of items
// in first-seen order.
func AvailableLanguages[T any](items []T, language func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		code := strings.ToLower(language(item))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func versionLanguage(v model.BookVersion) string { return v.Language }

func pageLanguage(p model.Page) string { return p.Language }

func labelLanguage(l model.TaxonomyLabel) string { return l.Language }

// SelectVersion picks the version of the given kind closest to preferred.
func SelectVersion(versions []model.BookVersion, kind model.VersionKind, preferred string) (model.BookVersion, bool) {
	return Select(versions, func(v model.BookVersion) bool { return v.Kind == kind }, versionLanguage, preferred)
}

// SelectAnyVersion picks the version closest to preferred regardless of kind.
func SelectAnyVersion(versions []model.BookVersion, preferred string) (model.BookVersion, bool) {
	return Select(versions, nil, versionLanguage, preferred)
}

// VersionLanguages returns the languages present among versions.
func VersionLanguages(versions []model.BookVersion) []string {
	return AvailableLanguages(versions, versionLanguage)
}

// SelectPage picks the page row closest to preferred.
func SelectPage(pages []model.Page, preferred string) (model.Page, bool) {
	return Select(pages, nil, pageLanguage, preferred)
}

// PageLanguages returns the languages present among page rows.
func PageLanguages(pages []model.Page) []string {
	return AvailableLanguages(pages, pageLanguage)
}

// SelectLabel picks the taxonomy label closest to preferred.
func SelectLabel(labels []model.TaxonomyLabel, preferred string) (model.TaxonomyLabel, bool) {
	return Select(labels, nil, labelLanguage, preferred)
}

// LabelLanguages returns the languages present among taxonomy labels.
func LabelLanguages(labels []model.TaxonomyLabel) []string {
	return AvailableLanguages(labels, labelLanguage)
}

// NodeLabels lists the display variants of a taxonomy node: the base record
// labelled with the default language, followed by its translations.
func NodeLabels(node model.TaxonomyNode, translations []model.TaxonomyTranslation, defaultLang string) []model.TaxonomyLabel {
	labels := make([]model.TaxonomyLabel, 0, len(translations)+1)
	labels = append(labels, model.TaxonomyLabel{
		ID:       node.ID,
		Language: strings.ToLower(defaultLang),
		Name:     node.Name,
		Slug:     node.Slug,
	})
	for _, tr := range translations {
		labels = append(labels, model.TaxonomyLabel{
			ID:       node.ID,
			Language: strings.ToLower(tr.Language),
			Name:     tr.Name,
			Slug:     tr.Slug,
		})
	}
	return labels
}
