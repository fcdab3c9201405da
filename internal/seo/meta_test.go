// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"testing"
	"time"
)

func TestLocalizedURL(t *testing.T) {
	tests := []struct {
		base, lang, section, slug string
		want                      string
	}{
		{"https://books.example.com", "es", SectionBooks, "harry-potter", "https://books.example.com/es/books/harry-potter"},
		{"https://books.example.com/", "en", SectionPages, "about", "https://books.example.com/en/pages/about"},
		{"https://books.example.com", "en", SectionPages, "a b", "https://books.example.com/en/pages/a%20b"},
	}

	for _, tt := range tests {
		if got := LocalizedURL(tt.base, tt.lang, tt.section, tt.slug); got != tt.want {
			t.Errorf("LocalizedURL(%q, %q, %q, %q) = %q, want %q", tt.base, tt.lang, tt.section, tt.slug, got, tt.want)
		}
	}
}

func TestVersionURL(t *testing.T) {
	if got := VersionURL("https://books.example.com/", 12); got != "https://books.example.com/versions/12" {
		t.Errorf("VersionURL() = %q", got)
	}
}

func TestBuildRobotsDirective(t *testing.T) {
	tests := []struct {
		noIndex, noFollow bool
		want              string
	}{
		{false, false, "index,follow"},
		{true, false, "noindex,follow"},
		{false, true, "index,nofollow"},
		{true, true, "noindex,nofollow"},
	}

	for _, tt := range tests {
		if got := buildRobotsDirective(tt.noIndex, tt.noFollow); got != tt.want {
			t.Errorf("buildRobotsDirective(%v, %v) = %q, want %q", tt.noIndex, tt.noFollow, got, tt.want)
		}
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		url, base, want string
	}{
		{"", "https://books.example.com", ""},
		{"https://cdn.example.com/a.jpg", "https://books.example.com", "https://cdn.example.com/a.jpg"},
		{"/media/a.jpg", "https://books.example.com/", "https://books.example.com/media/a.jpg"},
		{"media/a.jpg", "https://books.example.com", "https://books.example.com/media/a.jpg"},
	}

	for _, tt := range tests {
		if got := makeAbsoluteURL(tt.url, tt.base); got != tt.want {
			t.Errorf("makeAbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.base, got, tt.want)
		}
	}
}

func TestFormatEventTime(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	got := formatEventTime(time.Date(2027, 3, 1, 19, 0, 0, 0, madrid))
	if got != "2027-03-01T18:00:00Z" {
		t.Errorf("formatEventTime() = %q", got)
	}
}
