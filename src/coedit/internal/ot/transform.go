// Package ot implements the primitive operational transform rules used to
// reconcile concurrent edits against a shared document.
//
// A change is transformed sequentially against every qualifying concurrent
// change in history order (oldest first). This is a deliberate simplification:
// it does not guarantee convergence under every interleaving of three or more
// concurrent editors on overlapping ranges. It is not a general OT library.
package ot

import (
	"github.com/collabforge/coedit/src/coedit/entity"
)

// Transform rebases change a against an already-applied concurrent change b,
// returning a' such that applying b then a' preserves the intent a had against
// the pre-b state. Ties on insert position are broken by strict less-than:
// the lower original position keeps priority.
func Transform(a, b entity.Change) entity.Change {
	// A replace acts as a delete followed by an insert at the same position,
	// so it is rebased through both primitive passes.
	switch b.Kind {
	case entity.ChangeReplace:
		del := b
		del.Kind = entity.ChangeDelete
		ins := b
		ins.Kind = entity.ChangeInsert
		ins.Length = 0
		return Transform(Transform(a, del), ins)
	case entity.ChangeInsert:
		return transformAgainstInsert(a, b)
	case entity.ChangeDelete:
		return transformAgainstDelete(a, b)
	}
	return a
}

func transformAgainstInsert(a, b entity.Change) entity.Change {
	shift := len([]rune(b.Text))
	switch a.Kind {
	case entity.ChangeInsert:
		if a.Position < b.Position {
			return a
		}
		a.Position += shift
	case entity.ChangeDelete, entity.ChangeReplace:
		if a.Position < b.Position {
			return a
		}
		a.Position += shift
	}
	return a
}

func transformAgainstDelete(a, b entity.Change) entity.Change {
	end := b.Position + b.Length
	switch a.Kind {
	case entity.ChangeInsert:
		switch {
		case a.Position <= b.Position:
			// Unchanged.
		case a.Position > end:
			a.Position -= b.Length
		default:
			// The insertion point fell inside the deleted run; snap to its start.
			a.Position = b.Position
		}
	case entity.ChangeDelete, entity.ChangeReplace:
		switch {
		case a.Position+a.Length <= b.Position:
			// Entirely before the deleted run, unchanged.
		case a.Position >= end:
			a.Position -= b.Length
		default:
			// Overlapping deletes shrink the retained length and snap left.
			if b.Position < a.Position {
				a.Position = b.Position
			}
			a.Length = max(0, a.Length-b.Length)
		}
	}
	return a
}

// TransformAgainstHistory rebases a change with the given base version against
// every recorded change with a higher result version authored by a different
// user, oldest first.
func TransformAgainstHistory(c entity.Change, history []entity.Change) entity.Change {
	for _, h := range history {
		if h.ResultVersion <= c.BaseVersion {
			continue
		}
		if h.AuthorID == c.AuthorID {
			continue
		}
		c = Transform(c, h)
	}
	return c
}

// Apply splices a change into content. Positions and lengths are in runes and
// are clamped to the content bounds so a malformed change can never corrupt
// the buffer or panic.
func Apply(content string, c entity.Change) string {
	runes := []rune(content)
	pos := clamp(c.Position, 0, len(runes))

	switch c.Kind {
	case entity.ChangeInsert:
		return string(runes[:pos]) + c.Text + string(runes[pos:])
	case entity.ChangeDelete:
		end := clamp(pos+c.Length, pos, len(runes))
		return string(runes[:pos]) + string(runes[end:])
	case entity.ChangeReplace:
		end := clamp(pos+c.Length, pos, len(runes))
		return string(runes[:pos]) + c.Text + string(runes[end:])
	}
	return content
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
