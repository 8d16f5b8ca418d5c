// Package textdiff converts a whole-content rewrite into the primitive
// insert/delete changes the engine already knows how to broadcast and replay.
package textdiff

import (
	"github.com/collabforge/coedit/src/coedit/entity"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Changes computes the minimal ordered sequence of insert/delete changes that
// turns before into after. Positions are rune offsets into the intermediate
// content, so applying the changes in order reproduces after exactly.
func Changes(before, after string) []entity.Change {
	if before == after {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupEfficiency(diffs)

	var changes []entity.Change
	pos := 0
	for _, d := range diffs {
		length := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += length
		case diffmatchpatch.DiffDelete:
			changes = append(changes, entity.Change{
				Kind:     entity.ChangeDelete,
				Position: pos,
				Length:   length,
			})
		case diffmatchpatch.DiffInsert:
			changes = append(changes, entity.Change{
				Kind:     entity.ChangeInsert,
				Position: pos,
				Text:     d.Text,
			})
			pos += length
		}
	}
	return changes
}
