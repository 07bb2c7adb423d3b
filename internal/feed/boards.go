// Extracts navigable board nodes from a block sequence.

package feed

import "github.com/wilzamguerrero/notionfeed/internal/notion"

// untitled is the placeholder for boards whose source carries no title.
const untitled = "Untitled"

// ExtractBoards selects the blocks that represent navigable containers
// (toggle sections, sub-pages, sub-databases) and converts them to boards
// under parentID. Databases always report children because their rows are
// queried on demand. No de-duplication happens here; the catalog merges
// against known boards by id.
func ExtractBoards(blocks []notion.Block, parentID string) []Board {
	var boards []Board
	for i := range blocks {
		block := &blocks[i]

		var kind BoardKind
		var title string
		switch block.Type {
		case "toggle":
			kind = BoardToggle
			if block.Toggle != nil {
				title = notion.PlainText(block.Toggle.RichText)
			}
		case "child_page":
			kind = BoardPage
			if block.ChildPage != nil {
				title = block.ChildPage.Title
			}
		case "child_database":
			kind = BoardDatabase
			if block.ChildDatabase != nil {
				title = block.ChildDatabase.Title
			}
		default:
			continue
		}
		if title == "" {
			title = untitled
		}

		boards = append(boards, Board{
			ID:          block.ID,
			Title:       title,
			ParentID:    parentID,
			Kind:        kind,
			HasChildren: block.HasChildren || kind == BoardDatabase,
		})
	}
	return boards
}
