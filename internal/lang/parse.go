// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package lang resolves the effective content language of a request from
// explicit overrides, an Accept-Language style preference list and the
// configured default.
package lang

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Preference is one weighted entry of an Accept-Language header.
type Preference struct {
	Tag    string
	Weight float64
}

// ParseWeighted parses an Accept-Language style header into primary language
// subtags ordered by descending weight. Entries with equal weight keep their
// input order. Entries that are not a language tag are dropped, so malformed
// input yields an empty list rather than an error.
//
// Format: en-US,en;q=0.9,pt-BR;q=0.8
func ParseWeighted(header string) []Preference {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	var prefs []Preference
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")

		tag, ok := primarySubtag(fields[0])
		if !ok {
			continue
		}

		weight := 1.0
		for _, param := range fields[1:] {
			key, value, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || !strings.EqualFold(strings.TrimSpace(key), "q") {
				continue
			}
			weight = parseWeight(value)
		}

		prefs = append(prefs, Preference{Tag: tag, Weight: weight})
	}

	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Weight > prefs[j].Weight
	})
	return prefs
}

// ParsePreferences returns only the tags of ParseWeighted, in order.
func ParsePreferences(header string) []string {
	prefs := ParseWeighted(header)
	if len(prefs) == 0 {
		return nil
	}
	tags := make([]string, len(prefs))
	for i, p := range prefs {
		tags[i] = p.Tag
	}
	return tags
}

// parseWeight returns 0 for anything that is not a finite number.
func parseWeight(s string) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

// primarySubtag reduces a tag such as "pt-BR" or "pt_br" to "pt". The primary
// subtag must be 1-8 ASCII letters; wildcards and stray punctuation are rejected.
func primarySubtag(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "-_"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" || len(raw) > 8 {
		return "", false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return "", false
		}
	}
	return strings.ToLower(raw), true
}
