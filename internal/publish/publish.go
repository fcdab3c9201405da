// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package publish gates public visibility of content variants on their
// draft/published state.
package publish

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/ocms-books/internal/model"
)

// Action is a requested state transition.
type Action string

// Transition actions
const (
	ActionPublish   Action = "publish"
	ActionUnpublish Action = "unpublish"
)

// ErrUnknownAction is returned for anything other than publish or unpublish.
var ErrUnknownAction = errors.New("unknown publication action")

// ParseAction parses an action name (case-insensitive).
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionPublish:
		return ActionPublish, nil
	case ActionUnpublish:
		return ActionUnpublish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// IsPubliclyVisible returns true iff state is published.
func IsPubliclyVisible(state model.PublicationState) bool {
	return state == model.StatePublished
}

// Result is the outcome of applying an action.
type Result struct {
	State       model.PublicationState
	PublishedAt sql.NullTime
	Changed     bool // false when the variant was already in the target state
}

// Apply computes the state after action. Publishing stamps now; unpublishing
// clears the timestamp. Applying an action to a variant already in the target
// state succeeds and returns the current values unchanged.
func Apply(current model.PublicationState, publishedAt sql.NullTime, action Action, now time.Time) (Result, error) {
	switch action {
	case ActionPublish:
		if current == model.StatePublished {
			return Result{State: current, PublishedAt: publishedAt}, nil
		}
		return Result{
			State:       model.StatePublished,
			PublishedAt: sql.NullTime{Time: now, Valid: true},
			Changed:     true,
		}, nil
	case ActionUnpublish:
		if current == model.StateDraft {
			return Result{State: current, PublishedAt: sql.NullTime{}}, nil
		}
		return Result{State: model.StateDraft, Changed: true}, nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// Scope is the privilege level of a read path.
type Scope int

// Read scopes
const (
	ScopePublic Scope = iota
	ScopeAdmin
)

// Allows reports whether a variant in state may be returned on this scope.
func (s Scope) Allows(state model.PublicationState) bool {
	return s == ScopeAdmin || IsPubliclyVisible(state)
}

// PublishedOnly reports whether storage queries must filter on published state.
func (s Scope) PublishedOnly() bool {
	return s != ScopeAdmin
}

func (s Scope) String() string {
	if s == ScopeAdmin {
		return "admin"
	}
	return "public"
}
