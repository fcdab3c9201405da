// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("We publish **books**.")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>books</strong>")
}

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	out, err := RenderMarkdown("<script>alert(1)</script>\n\nhello")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title We publish books.", PlainText("# Title\n\nWe publish **books**."))
	assert.Equal(t, "Tom & Jerry", PlainText("Tom &amp; Jerry"))
	assert.Equal(t, "", PlainText(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("  short  ", 160))

	long := strings.Repeat("palabra ", 40)
	got := Truncate(long, 160)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 163)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), " "))

	// Multi-byte text is cut on rune boundaries.
	assert.Equal(t, "ñññ...", Truncate("ññññññ", 3))
}
