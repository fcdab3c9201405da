// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hierarchy validates parent/child relations of categories and tags.
// Nodes reference their parent by id only; the validator walks those links
// through a Tree lookup rather than an in-memory object graph.
package hierarchy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/ocms-books/internal/model"
)

// DefaultMaxHops bounds every upward walk so a corrupt graph cannot loop forever.
const DefaultMaxHops = 64

// Tree is the read side of a parent-pointer hierarchy.
type Tree interface {
	// ParentOf returns the parent of id. It fails with model.ErrNotFound
	// when id does not exist.
	ParentOf(ctx context.Context, id int64) (sql.NullInt64, error)
	// CountChildren returns the number of direct children of id.
	CountChildren(ctx context.Context, id int64) (int64, error)
}

// Validator checks hierarchy mutations before they are committed. Run it
// against the same transaction as the write that follows.
type Validator struct {
	tree    Tree
	maxHops int
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxHops overrides DefaultMaxHops.
func WithMaxHops(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxHops = n
		}
	}
}

// NewValidator creates a validator over tree.
func NewValidator(tree Tree, opts ...Option) *Validator {
	v := &Validator{tree: tree, maxHops: DefaultMaxHops}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WouldCreateCycle reports whether making candidateParentID the parent of
// nodeID closes a loop, i.e. nodeID is candidateParentID itself or one of its
// ancestors. The walk goes upward from the candidate and stops at a root.
func (v *Validator) WouldCreateCycle(ctx context.Context, candidateParentID, nodeID int64) (bool, error) {
	current := candidateParentID
	for hops := 0; ; hops++ {
		if current == nodeID {
			return true, nil
		}
		if hops >= v.maxHops {
			return false, NewError(KindTooDeep, fmt.Sprintf("parent chain of %d exceeds %d levels", candidateParentID, v.maxHops))
		}

		parent, err := v.tree.ParentOf(ctx, current)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) && current == candidateParentID {
				return false, NewError(KindParentNotFound, fmt.Sprintf("parent %d not found", candidateParentID))
			}
			return false, fmt.Errorf("reading parent of %d: %w", current, err)
		}
		if !parent.Valid {
			return false, nil
		}
		current = parent.Int64
	}
}

// CanReparent validates moving nodeID under newParentID. An invalid
// newParentID moves the node to the root, which is always allowed.
func (v *Validator) CanReparent(ctx context.Context, nodeID int64, newParentID sql.NullInt64) error {
	if !newParentID.Valid {
		return nil
	}
	if newParentID.Int64 == nodeID {
		return ErrSelfParent
	}

	cycle, err := v.WouldCreateCycle(ctx, newParentID.Int64, nodeID)
	if err != nil {
		return err
	}
	if cycle {
		return ErrCycle
	}
	return nil
}

// CanDelete rejects deleting a node that still has direct children.
func (v *Validator) CanDelete(ctx context.Context, nodeID int64) error {
	n, err := v.tree.CountChildren(ctx, nodeID)
	if err != nil {
		return fmt.Errorf("counting children of %d: %w", nodeID, err)
	}
	if n > 0 {
		return NewError(KindHasChildren, fmt.Sprintf("node has %d child node(s); reparent or delete them first", n))
	}
	return nil
}

// Ancestors returns the chain from the root down to nodeID, inclusive.
func (v *Validator) Ancestors(ctx context.Context, nodeID int64) ([]int64, error) {
	chain := []int64{nodeID}
	seen := map[int64]struct{}{nodeID: {}}

	current := nodeID
	for {
		parent, err := v.tree.ParentOf(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("reading parent of %d: %w", current, err)
		}
		if !parent.Valid {
			break
		}
		if _, loop := seen[parent.Int64]; loop || len(chain) > v.maxHops {
			return nil, NewError(KindTooDeep, fmt.Sprintf("ancestor chain of %d is corrupt or exceeds %d levels", nodeID, v.maxHops))
		}
		seen[parent.Int64] = struct{}{}
		chain = append(chain, parent.Int64)
		current = parent.Int64
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
