// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lang

import (
	"fmt"
	"strings"
)

// Source names the signal that produced a resolution.
type Source string

// Resolution sources, in precedence order.
const (
	SourcePath    Source = "path"
	SourceQuery   Source = "query"
	SourceHeader  Source = "header"
	SourceDefault Source = "default"
	// SourceFallback marks the first available language chosen after every
	// signal and the default missed.
	SourceFallback Source = "fallback"
)

// Signals carries the language hints of one request. Empty fields are absent.
type Signals struct {
	Path           string // {lang} path segment of a localized route
	Query          string // ?lang= query parameter
	AcceptLanguage string // raw Accept-Language header
}

// Decision is the outcome of a successful resolution.
type Decision struct {
	Language string `json:"language"`
	Source   Source `json:"source"`
}

// Negotiator resolves languages against a closed set of supported codes.
// It holds no mutable state and is safe for concurrent use.
type Negotiator struct {
	supported   map[string]struct{}
	languages   []string
	defaultLang string
}

// NewNegotiator creates a negotiator. The default language must be a member
// of the supported set.
func NewNegotiator(supported []string, defaultLang string) (*Negotiator, error) {
	n := &Negotiator{
		supported: make(map[string]struct{}, len(supported)),
	}
	for _, code := range supported {
		code = normalize(code)
		if code == "" {
			continue
		}
		if _, dup := n.supported[code]; dup {
			continue
		}
		n.supported[code] = struct{}{}
		n.languages = append(n.languages, code)
	}
	if len(n.languages) == 0 {
		return nil, fmt.Errorf("no supported languages configured")
	}

	defaultLang = normalize(defaultLang)
	if _, ok := n.supported[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q is not in the supported set %v", defaultLang, n.languages)
	}
	n.defaultLang = defaultLang

	return n, nil
}

// Default returns the configured default language.
func (n *Negotiator) Default() string {
	return n.defaultLang
}

// Languages returns the supported codes in configuration order.
func (n *Negotiator) Languages() []string {
	out := make([]string, len(n.languages))
	copy(out, n.languages)
	return out
}

// IsSupported reports whether code (any case) is a supported language.
func (n *Negotiator) IsSupported(code string) bool {
	_, ok := n.supported[normalize(code)]
	return ok
}

// Resolve picks the effective language without restricting it to the
// languages of a particular content identity. The default language always
// matches, so the result is never empty.
func (n *Negotiator) Resolve(sig Signals) Decision {
	d, _ := n.resolve(sig, nil)
	return d
}

// ResolveWithin picks the effective language among available. It returns
// false when no signal and not even the default language is available; an
// empty available set never matches.
func (n *Negotiator) ResolveWithin(sig Signals, available []string) (Decision, bool) {
	set := make(map[string]struct{}, len(available))
	for _, code := range available {
		set[normalize(code)] = struct{}{}
	}
	return n.resolve(sig, set)
}

// ResolveFor negotiates within available like ResolveWithin. When that has
// no match it settles on the first supported member of available, so content
// that exists only outside the default language stays reachable. It returns
// false only when available holds no supported language.
func (n *Negotiator) ResolveFor(sig Signals, available []string) (Decision, bool) {
	if d, ok := n.ResolveWithin(sig, available); ok {
		return d, true
	}
	for _, code := range available {
		if code = normalize(code); n.IsSupported(code) {
			return Decision{Language: code, Source: SourceFallback}, true
		}
	}
	return Decision{}, false
}

// resolve applies the precedence path > query > header > default. A nil
// restriction means every supported language is acceptable.
func (n *Negotiator) resolve(sig Signals, restrict map[string]struct{}) (Decision, bool) {
	accept := func(code string) bool {
		if _, ok := n.supported[code]; !ok {
			return false
		}
		if restrict == nil {
			return true
		}
		_, ok := restrict[code]
		return ok
	}

	explicit := []struct {
		value  string
		source Source
	}{
		{sig.Path, SourcePath},
		{sig.Query, SourceQuery},
	}
	for _, e := range explicit {
		if code := normalize(e.value); code != "" && accept(code) {
			return Decision{Language: code, Source: e.source}, true
		}
	}

	for _, code := range ParsePreferences(sig.AcceptLanguage) {
		if accept(code) {
			return Decision{Language: code, Source: SourceHeader}, true
		}
	}

	if accept(n.defaultLang) {
		return Decision{Language: n.defaultLang, Source: SourceDefault}, true
	}
	return Decision{}, false
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
