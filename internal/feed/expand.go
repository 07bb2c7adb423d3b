// Expands multi-column layouts into a flat block sequence.

package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// ExpandColumns flattens column_list containers found in blocks. For each
// column list it fetches the column containers, then each column's own
// content, in two stages. The result is the original list followed by the
// columns and then the column content: columns appear after their original
// siblings, and callers must not rely on any finer ordering across nested
// columns.
//
// Any fetch error aborts the expansion and propagates whole.
func ExpandColumns(ctx context.Context, src BlockSource, blocks []notion.Block, force bool) ([]notion.Block, error) {
	var columnLists []string
	for i := range blocks {
		if blocks[i].Type == "column_list" {
			columnLists = append(columnLists, blocks[i].ID)
		}
	}
	if len(columnLists) == 0 {
		return blocks, nil
	}

	columns, err := fetchAllChildren(ctx, src, columnLists, force)
	if err != nil {
		return nil, err
	}

	columnIDs := make([]string, 0, len(columns))
	for i := range columns {
		columnIDs = append(columnIDs, columns[i].ID)
	}
	content, err := fetchAllChildren(ctx, src, columnIDs, force)
	if err != nil {
		return nil, err
	}

	expanded := make([]notion.Block, 0, len(blocks)+len(columns)+len(content))
	expanded = append(expanded, blocks...)
	expanded = append(expanded, columns...)
	expanded = append(expanded, content...)
	return expanded, nil
}

// fetchAllChildren fetches the children of every container concurrently
// and concatenates the results in container order.
func fetchAllChildren(ctx context.Context, src BlockSource, containerIDs []string, force bool) ([]notion.Block, error) {
	results := make([][]notion.Block, len(containerIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range containerIDs {
		g.Go(func() error {
			children, err := src.FetchChildren(gctx, id, force)
			if err != nil {
				return err
			}
			results[i] = children
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []notion.Block
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}
