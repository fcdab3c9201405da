// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePreferences(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single tag", "en", []string{"en"}},
		{"region reduced", "pt-BR", []string{"pt"}},
		{"underscore region reduced", "pt_br", []string{"pt"}},
		{"lower cased", "EN-US,Es", []string{"en", "es"}},
		{"sorted by weight", "fr;q=0.5,es;q=0.9,en", []string{"en", "es", "fr"}},
		{"ties keep input order", "de;q=0.8,fr;q=0.8,es;q=0.8", []string{"de", "fr", "es"}},
		{"unparseable weight sorts as zero", "fr;q=abc,es;q=0.1", []string{"es", "fr"}},
		{"infinite weight treated as zero", "fr;q=Inf,es;q=0.1", []string{"es", "fr"}},
		{"stray punctuation", ",;,;=", nil},
		{"wildcard dropped", "*;q=0.5,en;q=0.4", []string{"en"}},
		{"spaces around entries", " ru , en;q=0.8 ", []string{"ru", "en"}},
		{"q parameter with spaces", "fr ; q = 0.9, es", []string{"es", "fr"}},
		{"other parameters ignored", "fr;level=1;q=0.7,es;q=0.6", []string{"fr", "es"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePreferences(tt.header))
		})
	}
}

func TestParseWeighted_NonIncreasing(t *testing.T) {
	headers := []string{
		"en-US,en;q=0.9,ru;q=0.8,de;q=0.95",
		"a;q=0.1,b;q=0.2,c;q=x,d,e;q=0.2",
		"pt-BR;q=1,pt;q=1,es;q=0.999",
	}

	for _, h := range headers {
		prefs := ParseWeighted(h)
		for i := 1; i < len(prefs); i++ {
			assert.GreaterOrEqual(t, prefs[i-1].Weight, prefs[i].Weight, "header %q", h)
		}
	}
}

func TestParseWeighted_DefaultWeight(t *testing.T) {
	prefs := ParseWeighted("es,fr;q=bad")

	assert.Equal(t, []Preference{
		{Tag: "es", Weight: 1},
		{Tag: "fr", Weight: 0},
	}, prefs)
}
