// Maintains the accumulated board catalog.

package feed

import (
	"context"
	"log/slog"
	"sync"
)

// Catalog is the append/update-only registry of known boards. Boards are
// never removed within a session; merging the same extraction twice is
// idempotent and never downgrades a loaded board back to unloaded.
type Catalog struct {
	mu     sync.RWMutex
	boards []Board
	index  map[string]int
}

// NewCatalog creates an empty board catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Merge folds extracted boards into the catalog by id. Unknown boards are
// appended in input order. For known boards the stored entry wins, except
// that IsLoaded may only transition false to true and a missing icon or
// property list is filled in.
func (c *Catalog) Merge(boards []Board) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range boards {
		i, ok := c.index[b.ID]
		if !ok {
			c.index[b.ID] = len(c.boards)
			c.boards = append(c.boards, b)
			continue
		}
		existing := &c.boards[i]
		if b.IsLoaded {
			existing.IsLoaded = true
		}
		if existing.Icon == "" {
			existing.Icon = b.Icon
		}
		if len(existing.Properties) == 0 {
			existing.Properties = b.Properties
		}
	}
}

// MarkLoaded flips a board's IsLoaded flag. The transition happens once;
// repeated calls are no-ops.
func (c *Catalog) MarkLoaded(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[id]; ok {
		c.boards[i].IsLoaded = true
	}
}

// Get returns the board with the given id.
func (c *Catalog) Get(id string) (Board, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.index[id]; ok {
		return c.boards[i], true
	}
	return Board{}, false
}

// Boards returns a snapshot of the catalog in insertion order.
func (c *Catalog) Boards() []Board {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Board, len(c.boards))
	copy(out, c.boards)
	return out
}

// AutoLoadDatabases expands unloaded database boards through an explicit
// work queue: query each database, append its row boards, and repeat
// until no unloaded databases remain. A visited set guarantees
// termination. Query failures degrade to the boards accumulated so far;
// sidebar navigation stays usable when a single database is broken.
func AutoLoadDatabases(ctx context.Context, src BlockSource, boards []Board, force bool) []Board {
	visited := make(map[string]struct{})
	for {
		var queue []string
		for i := range boards {
			if boards[i].Kind != BoardDatabase || boards[i].IsLoaded {
				continue
			}
			if _, done := visited[boards[i].ID]; done {
				continue
			}
			queue = append(queue, boards[i].ID)
		}
		if len(queue) == 0 {
			return boards
		}

		for _, id := range queue {
			visited[id] = struct{}{}
			rows, err := src.QueryDatabase(ctx, id, force)
			if err != nil {
				slog.WarnContext(ctx, "Failed to auto-load database", "database", id, "err", err)
				continue
			}
			for i := range boards {
				if boards[i].ID == id {
					boards[i].IsLoaded = true
				}
			}
			boards = append(boards, rows...)
		}
	}
}
