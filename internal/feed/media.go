// Runs the classifier over an expanded block sequence.

package feed

import "github.com/wilzamguerrero/notionfeed/internal/notion"

// ExtractMedia classifies every block in input order into content items.
// A block id seen twice (the same block reachable via two expansion paths)
// is emitted once, at its first occurrence. Output order equals input
// order minus skips and duplicates; ordering responsibility belongs to the
// caller supplying already-expanded blocks.
func ExtractMedia(blocks []notion.Block, parentID string) []ContentItem {
	seen := make(map[string]struct{}, len(blocks))
	var items []ContentItem
	for i := range blocks {
		if _, dup := seen[blocks[i].ID]; dup {
			continue
		}
		item, ok := Classify(&blocks[i], parentID)
		if !ok {
			continue
		}
		seen[blocks[i].ID] = struct{}{}
		items = append(items, item)
	}
	return items
}

// NumberListItems stamps sequential ordinals onto runs of consecutive
// numbered-list items, returning a new sequence. Any item of a different
// kind resets the counter, so the next run restarts at 1.
func NumberListItems(items []ContentItem) []ContentItem {
	out := make([]ContentItem, len(items))
	counter := 0
	for i, item := range items {
		if item.Kind == KindNumberedList {
			counter++
			item.Metadata.Number = counter
		} else if counter != 0 {
			counter = 0
		}
		out[i] = item
	}
	return out
}
