// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package hierarchy

// Kind classifies a validation failure.
type Kind string

// Validation kinds
const (
	KindSelfParent           Kind = "self_parent"
	KindCycle                Kind = "cycle"
	KindHasChildren          Kind = "has_children"
	KindTooDeep              Kind = "too_deep"
	KindParentNotFound       Kind = "parent_not_found"
	KindDuplicateTranslation Kind = "duplicate_translation"
	KindInvalidSlug          Kind = "invalid_slug"
	KindInvalidLanguage      Kind = "invalid_language"
)

// ValidationError rejects a hierarchy mutation. Reason is meant to be shown
// to the caller verbatim.
type ValidationError struct {
	Kind   Kind
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is matches any ValidationError of the same kind, so callers can test
// errors.Is(err, hierarchy.ErrCycle).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrSelfParent           = &ValidationError{Kind: KindSelfParent, Reason: "a node cannot be its own parent"}
	ErrCycle                = &ValidationError{Kind: KindCycle, Reason: "cannot set a descendant as parent (circular reference)"}
	ErrHasChildren          = &ValidationError{Kind: KindHasChildren, Reason: "node has children; reparent or delete them first"}
	ErrTooDeep              = &ValidationError{Kind: KindTooDeep, Reason: "hierarchy is deeper than the allowed maximum"}
	ErrParentNotFound       = &ValidationError{Kind: KindParentNotFound, Reason: "parent not found"}
	ErrDuplicateTranslation = &ValidationError{Kind: KindDuplicateTranslation, Reason: "slug already used by another node in this language"}
	ErrInvalidSlug          = &ValidationError{Kind: KindInvalidSlug, Reason: "slug must contain only lowercase letters, digits and single hyphens"}
	ErrInvalidLanguage      = &ValidationError{Kind: KindInvalidLanguage, Reason: "language is not supported"}
)

// NewError builds a ValidationError with a caller-specific reason.
func NewError(kind Kind, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Reason: reason}
}
