// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-books/internal/lang"
)

// Context keys for language data.
const (
	ContextKeyLanguage ContextKey = "language"
	ContextKeySignals  ContextKey = "language_signals"
)

// LanguageParam is the chi URL parameter of localized routes.
const LanguageParam = "lang"

// SignalsFromRequest collects the language hints of a request: the {lang}
// route segment, the ?lang= query parameter and the Accept-Language header.
func SignalsFromRequest(r *http.Request) lang.Signals {
	return lang.Signals{
		Path:           chi.URLParam(r, LanguageParam),
		Query:          r.URL.Query().Get("lang"),
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
}

// Language creates middleware that resolves the request language with the
// precedence path > query > Accept-Language > default against the supported
// set. The decision and the raw signals go into the request context and the
// decision into the Content-Language header. Handlers serving a concrete
// identity re-run the negotiation restricted to what that identity has.
//
// Mount it inside a route group or with r.With so that chi has already
// matched {lang}. observe, if not nil, is called with every decision.
func Language(n *lang.Negotiator, observe func(lang.Decision)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sig := SignalsFromRequest(r)
			decision := n.Resolve(sig)
			if observe != nil {
				observe(decision)
			}

			w.Header().Set("Content-Language", decision.Language)

			ctx := context.WithValue(r.Context(), ContextKeyLanguage, decision)
			ctx = context.WithValue(ctx, ContextKeySignals, sig)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLanguage retrieves the language decision from the request context.
// Returns nil if the Language middleware did not run.
func GetLanguage(r *http.Request) *lang.Decision {
	d, ok := r.Context().Value(ContextKeyLanguage).(lang.Decision)
	if !ok {
		return nil
	}
	return &d
}

// GetSignals returns the signals stored by the Language middleware, or reads
// them from the request when the middleware did not run.
func GetSignals(r *http.Request) lang.Signals {
	if sig, ok := r.Context().Value(ContextKeySignals).(lang.Signals); ok {
		return sig
	}
	return SignalsFromRequest(r)
}
