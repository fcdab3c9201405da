// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "book title", input: "Harry Potter", expected: "harry-potter"},
		{name: "punctuation", input: "Harry Potter and the Philosopher's Stone!", expected: "harry-potter-and-the-philosophers-stone"},
		{name: "spanish accents", input: "Fantasía y Ficción", expected: "fantasia-y-ficcion"},
		{name: "portuguese", input: "Ficção Científica", expected: "ficcao-cientifica"},
		{name: "german umlauts", input: "Über München", expected: "uber-munchen"},
		{name: "cyrillic", input: "Привет мир", expected: "privet-mir"},
		{name: "collapsed hyphens", input: "Young  -  Adult", expected: "young-adult"},
		{name: "trimmed", input: "  About us  ", expected: "about-us"},
		{name: "only symbols", input: "!@#$%^&*()", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugifyLength(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := Slugify(long)
	if len(got) > MaxSlugLength {
		t.Errorf("len(Slugify) = %d, want <= %d", len(got), MaxSlugLength)
	}
	if !IsValidSlug(got) {
		t.Errorf("Slugify produced invalid slug %q", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"harry-potter", true},
		{"page-123", true},
		{"fantasia", true},
		{"", false},
		{"Harry-Potter", false},
		{"harry potter", false},
		{"fantasía", false},
		{"-about", false},
		{"about-", false},
		{"young--adult", false},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.expected {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
