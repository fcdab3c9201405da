// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	// htmlSanitizer keeps the tags safe for user-generated content.
	htmlSanitizer = bluemonday.UGCPolicy()
	// textSanitizer drops every tag.
	textSanitizer = bluemonday.StrictPolicy()
)

// RenderMarkdown converts a markdown body to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// PlainText renders a markdown or HTML body and strips all markup, leaving
// whitespace-collapsed text suitable for meta descriptions. Block elements
// rendered by goldmark end with a newline, which keeps their words apart.
func PlainText(src string) string {
	rendered, err := RenderMarkdown(src)
	if err != nil {
		rendered = src
	}
	text := html.UnescapeString(textSanitizer.Sanitize(rendered))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most maxLen runes, cutting at a word boundary
// when one is close enough, and appends "..." when anything was cut.
func Truncate(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	truncated := string(runes[:maxLen])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(truncated) + "..."
}
