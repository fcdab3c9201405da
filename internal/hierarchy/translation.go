// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package hierarchy

import (
	"context"
	"fmt"
)

// SlugIndex looks up which node owns a localized slug.
type SlugIndex interface {
	// TranslationOwner returns the node owning (language, slug) and false
	// when the pair is free.
	TranslationOwner(ctx context.Context, language, slug string) (int64, bool, error)
}

// CheckTranslation rejects a (language, slug) pair already owned by another
// node. Re-saving a node's own translation is allowed. Translation rows are
// independent of the parent invariants.
func CheckTranslation(ctx context.Context, idx SlugIndex, nodeID int64, language, slug string) error {
	owner, taken, err := idx.TranslationOwner(ctx, language, slug)
	if err != nil {
		return fmt.Errorf("looking up translation slug: %w", err)
	}
	if taken && owner != nodeID {
		return NewError(KindDuplicateTranslation, fmt.Sprintf("slug %q is already used in language %q", slug, language))
	}
	return nil
}
