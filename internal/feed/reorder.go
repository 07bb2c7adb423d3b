// Expands a reordered group sequence back into a flat item sequence.

package feed

import (
	"slices"
	"strconv"
)

// ExpandReorder relocates the group matching movedID to the position of
// the group matching targetID (splice semantics: both indices resolved
// first, removal then insertion, so a forward move shifts the intervening
// entries left by one), then linearizes the result. The second return
// value is false when the move was a no-op: movedID equals targetID or
// either id is absent.
func ExpandReorder(groups []GroupedItem, movedID, targetID string) ([]ContentItem, bool) {
	if movedID == targetID {
		return Linearize(groups), false
	}
	oldIdx := indexOfGroup(groups, movedID)
	targetIdx := indexOfGroup(groups, targetID)
	if oldIdx < 0 || targetIdx < 0 {
		return Linearize(groups), false
	}

	reordered := slices.Clone(groups)
	moved := reordered[oldIdx]
	reordered = slices.Delete(reordered, oldIdx, oldIdx+1)
	reordered = slices.Insert(reordered, targetIdx, moved)

	return Linearize(reordered), true
}

// Linearize flattens grouped items back into content items, emitting each
// group's original members in preserved order. A synthetic blank
// separator goes between two adjacent entries when either side can take
// part in grouping, so that re-grouping the output reproduces the same
// boundaries instead of merging neighbors. That covers compound groups
// and plain single-item entries alike; only two adjacent standalone
// items need no separator, since re-grouping never merges a standalone.
func Linearize(groups []GroupedItem) []ContentItem {
	var items []ContentItem
	sep := 0
	for i := range groups {
		g := &groups[i]
		if i > 0 && (!IsStandalone(g.Kind) || !IsStandalone(groups[i-1].Kind)) {
			items = append(items, Separator("separator-"+strconv.Itoa(sep), g.ParentID))
			sep++
		}
		if g.IsGroup {
			items = append(items, g.GroupItems...)
		} else {
			items = append(items, g.ContentItem)
		}
	}
	return items
}

func indexOfGroup(groups []GroupedItem, id string) int {
	return slices.IndexFunc(groups, func(g GroupedItem) bool { return g.ID == id })
}
