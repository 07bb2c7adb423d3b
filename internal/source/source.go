// Package source implements the caching Block-Source collaborator the
// feed pipeline fetches from.
package source

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/wilzamguerrero/notionfeed/internal/feed"
	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// Client is the part of the Notion client the source consumes.
type Client interface {
	GetBlockChildrenAll(ctx context.Context, blockID string) ([]notion.Block, error)
	QueryDatabaseAll(ctx context.Context, databaseID string) ([]notion.Page, error)
	GetPage(ctx context.Context, id string) (*notion.Page, error)
	AppendToggle(ctx context.Context, containerID, title string) (*notion.Block, error)
}

// Service fetches blocks and database rows through a short-lived cache.
// It implements feed.BlockSource.
type Service struct {
	client  Client
	now     func() time.Time
	blocks  *ttlCache[[]notion.Block]
	queries *ttlCache[[]feed.Board]
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source used for cache aging.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over client with the given cache TTL.
func New(client Client, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		client:  client,
		now:     time.Now,
		blocks:  newTTLCache[[]notion.Block](ttl),
		queries: newTTLCache[[]feed.Board](ttl),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var hexID = regexp.MustCompile(`[a-fA-F0-9]{32,}`)

// NormalizeID extracts the canonical 32-hex-digit id from a raw id or a
// Notion URL. Inputs without one pass through unchanged.
//
// Page URLs put the id at the end of the slug, and slug characters that
// happen to be hex ("Cafe-", a trailing "e") glue onto the front of the
// run once dashes are stripped. The id is therefore the trailing 32
// digits of the last hex run, never the leftmost 32.
func NormalizeID(idOrURL string) string {
	if idOrURL == "" {
		return ""
	}
	clean := strings.ReplaceAll(idOrURL, "-", "")
	runs := hexID.FindAllString(clean, -1)
	if len(runs) == 0 {
		return idOrURL
	}
	last := runs[len(runs)-1]
	return last[len(last)-32:]
}

// FetchChildren returns the full ordered child list of a container. A
// fresh cached entry is returned unless force is set; every successful
// fetch overwrites the cache entry.
func (s *Service) FetchChildren(ctx context.Context, containerID string, force bool) ([]notion.Block, error) {
	key := NormalizeID(containerID)
	if force {
		s.blocks.delete(key)
	} else if cached, ok := s.blocks.get(key, s.now()); ok {
		slog.DebugContext(ctx, "Block cache hit", "container", key)
		return cached, nil
	}

	blocks, err := s.client.GetBlockChildrenAll(ctx, key)
	if err != nil {
		return nil, err
	}
	s.blocks.put(key, blocks, s.now())
	return blocks, nil
}

// QueryDatabase returns one Board of kind page per database row, with
// typed properties attached, sorted descending by the first numeric
// property. Rows without a numeric property sort last.
func (s *Service) QueryDatabase(ctx context.Context, databaseID string, force bool) ([]feed.Board, error) {
	id := NormalizeID(databaseID)
	key := "db_" + id
	if force {
		s.queries.delete(key)
	} else if cached, ok := s.queries.get(key, s.now()); ok {
		slog.DebugContext(ctx, "Query cache hit", "database", id)
		return cached, nil
	}

	rows, err := s.client.QueryDatabaseAll(ctx, id)
	if err != nil {
		return nil, err
	}

	boards := make([]feed.Board, 0, len(rows))
	for i := range rows {
		boards = append(boards, rowToBoard(&rows[i], databaseID))
	}
	sortByNumericProperty(boards)

	s.queries.put(key, boards, s.now())
	return boards, nil
}

// FetchPageIcon returns the page icon as an emoji literal or image URL.
// Failures degrade to no icon instead of propagating.
func (s *Service) FetchPageIcon(ctx context.Context, pageID string) (string, error) {
	page, err := s.client.GetPage(ctx, NormalizeID(pageID))
	if err != nil {
		slog.DebugContext(ctx, "Icon fetch failed", "page", pageID, "err", err)
		return "", nil
	}
	return iconString(page.Icon), nil
}

// Invalidate evicts every cache entry related to a container: the exact
// key, its database-query variant, and anything embedding the id.
func (s *Service) Invalidate(containerID string) {
	id := NormalizeID(containerID)
	s.blocks.invalidateContaining(id)
	s.queries.invalidateContaining(id)
}

// SetTTL changes the cache TTL at runtime, for live config reloads.
// Entries already cached age against the new value.
func (s *Service) SetTTL(ttl time.Duration) {
	s.blocks.setTTL(ttl)
	s.queries.setTTL(ttl)
}

// ClearCache drops everything cached.
func (s *Service) ClearCache() {
	s.blocks.clear()
	s.queries.clear()
}

// CreateBoard appends a new toggle section under parentID and returns the
// resulting board. The parent's cache entries are invalidated so the next
// fetch sees the new block.
func (s *Service) CreateBoard(ctx context.Context, parentID, title string) (feed.Board, error) {
	block, err := s.client.AppendToggle(ctx, NormalizeID(parentID), title)
	if err != nil {
		return feed.Board{}, err
	}
	s.Invalidate(parentID)
	return feed.Board{
		ID:       block.ID,
		Title:    title,
		ParentID: parentID,
		Kind:     feed.BoardToggle,
		IsLoaded: true,
	}, nil
}

// iconString flattens a page icon to an emoji literal or image URL.
func iconString(icon *notion.Icon) string {
	if icon == nil {
		return ""
	}
	if icon.Emoji != "" {
		return icon.Emoji
	}
	if icon.External != nil && icon.External.URL != "" {
		return icon.External.URL
	}
	if icon.File != nil {
		return icon.File.URL
	}
	return ""
}
