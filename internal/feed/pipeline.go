// Orchestrates the full feed reconstruction pipeline.

package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// iconBatchSize bounds how many icon fetches run concurrently.
const iconBatchSize = 5

// ErrStale marks a load whose result was superseded by a newer load
// before it finished. The caller discards the result; the newer load has
// already committed.
var ErrStale = errors.New("feed: load superseded by a newer one")

// Pipeline runs the staged reconstruction for one workspace and keeps the
// accumulated board catalog. Loads for different boards may overlap; each
// carries a generation token and only the latest generation commits its
// boards. Token assignment and the commit both happen under one mutex,
// so a slow stale response can never land boards after a newer load
// started.
type Pipeline struct {
	src     BlockSource
	catalog *Catalog
	rootID  string

	// mu guards gen and the check-then-commit sequence in Load.
	mu  sync.Mutex
	gen uint64
}

// NewPipeline creates a pipeline over src rooted at the given page.
func NewPipeline(src BlockSource, rootID string) *Pipeline {
	return &Pipeline{
		src:     src,
		catalog: NewCatalog(),
		rootID:  rootID,
	}
}

// Catalog exposes the accumulated board catalog.
func (p *Pipeline) Catalog() *Catalog { return p.catalog }

// RootID returns the workspace root page id.
func (p *Pipeline) RootID() string { return p.rootID }

// Result is the output of one pipeline load.
type Result struct {
	BoardID string        `json:"boardId"`
	Title   string        `json:"title"`
	Boards  []Board       `json:"boards"`
	Items   []ContentItem `json:"items"`
	Groups  []GroupedItem `json:"groups"`
}

// Load runs fetch, column expansion, board extraction, database
// auto-loading, media extraction, numbering and grouping for one board
// (the root page when boardID is empty). Stages run strictly in sequence;
// no stage starts before the previous one finished.
//
// Returns ErrStale when a newer Load started while this one was in
// flight; nothing is committed to the catalog in that case.
func (p *Pipeline) Load(ctx context.Context, boardID string, force bool) (*Result, error) {
	token := p.nextGen()

	targetID := boardID
	if targetID == "" {
		targetID = p.rootID
	}
	board, known := p.catalog.Get(targetID)

	title := "Gallery"
	parentTitle := ""
	if known {
		title = board.Title
		if board.ParentID != "" && board.ParentID != p.rootID {
			if parent, ok := p.catalog.Get(board.ParentID); ok {
				parentTitle = parent.Title
			}
		}
	}

	var items []ContentItem
	var boards []Board

	if known && board.Kind == BoardDatabase {
		rows, err := p.src.QueryDatabase(ctx, targetID, force)
		if err != nil {
			return nil, err
		}
		boards = rows
	} else {
		blocks, err := p.src.FetchChildren(ctx, targetID, force)
		if err != nil {
			return nil, err
		}
		expanded, err := ExpandColumns(ctx, p.src, blocks, force)
		if err != nil {
			return nil, err
		}
		boards = ExtractBoards(expanded, targetID)
		items = ExtractMedia(expanded, targetID)
	}

	boards = AutoLoadDatabases(ctx, p.src, boards, force)
	p.enrichIcons(ctx, boards)

	items = NumberListItems(items)
	if len(items) > 0 {
		card := ContentItem{
			ID:       "title-" + targetID,
			Kind:     KindTitle,
			Content:  title,
			ParentID: targetID,
			Metadata: Metadata{ParentTitle: parentTitle},
		}
		items = append([]ContentItem{card}, items...)
	}

	if err := p.commit(token, boards, targetID); err != nil {
		return nil, err
	}

	return &Result{
		BoardID: targetID,
		Title:   title,
		Boards:  p.catalog.Boards(),
		Items:   items,
		Groups:  Group(items),
	}, nil
}

// nextGen assigns the next generation token.
func (p *Pipeline) nextGen() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	return p.gen
}

// commit folds boards into the catalog, but only when no newer load
// started meanwhile. The token check and the merge share the mutex with
// nextGen: a newer load either took its token before this commit and
// stales it out, or takes it after and supersedes a fully committed one.
func (p *Pipeline) commit(token uint64, boards []Board, targetID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != token {
		return ErrStale
	}
	p.catalog.Merge(boards)
	p.catalog.MarkLoaded(targetID)
	return nil
}

// Reorder applies a card drag: the current feed is grouped, the group
// matching movedID is spliced before targetID, and the expanded sequence
// is re-numbered and re-grouped. An unknown or self-targeted move returns
// the feed unchanged.
func (p *Pipeline) Reorder(ctx context.Context, boardID, movedID, targetID string) (*Result, error) {
	res, err := p.Load(ctx, boardID, false)
	if err != nil {
		return nil, err
	}

	flat, moved := ExpandReorder(res.Groups, movedID, targetID)
	if !moved {
		return res, nil
	}

	res.Items = NumberListItems(flat)
	res.Groups = Group(res.Items)
	return res, nil
}

// enrichIcons fetches icons for page boards that lack one, in concurrent
// batches. A failed fetch degrades to no icon.
func (p *Pipeline) enrichIcons(ctx context.Context, boards []Board) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(iconBatchSize)
	for i := range boards {
		if boards[i].Kind != BoardPage || boards[i].Icon != "" {
			continue
		}
		b := &boards[i]
		g.Go(func() error {
			icon, err := p.src.FetchPageIcon(gctx, b.ID)
			if err != nil {
				slog.DebugContext(gctx, "No icon for page", "page", b.ID, "err", err)
				return nil
			}
			b.Icon = icon
			return nil
		})
	}
	_ = g.Wait()
}
