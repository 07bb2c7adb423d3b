package feed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// fakeSource is an in-memory BlockSource backed by fixed maps. Optional
// hooks intercept calls for error and timing scenarios.
type fakeSource struct {
	mu       sync.Mutex
	children map[string][]notion.Block
	rows     map[string][]Board
	icons    map[string]string

	fetchHook func(containerID string) error
	queryErr  map[string]error

	fetchCalls []string
	queryCalls []string
	iconCalls  []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		children: map[string][]notion.Block{},
		rows:     map[string][]Board{},
		icons:    map[string]string{},
		queryErr: map[string]error{},
	}
}

func (f *fakeSource) FetchChildren(ctx context.Context, containerID string, force bool) ([]notion.Block, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, containerID)
	f.mu.Unlock()
	if f.fetchHook != nil {
		if err := f.fetchHook(containerID); err != nil {
			return nil, err
		}
	}
	return f.children[containerID], nil
}

func (f *fakeSource) QueryDatabase(ctx context.Context, databaseID string, force bool) ([]Board, error) {
	f.mu.Lock()
	f.queryCalls = append(f.queryCalls, databaseID)
	f.mu.Unlock()
	if err := f.queryErr[databaseID]; err != nil {
		return nil, err
	}
	return f.rows[databaseID], nil
}

func (f *fakeSource) FetchPageIcon(ctx context.Context, pageID string) (string, error) {
	f.mu.Lock()
	f.iconCalls = append(f.iconCalls, pageID)
	f.mu.Unlock()
	icon, ok := f.icons[pageID]
	if !ok {
		return "", errors.New("no such page")
	}
	return icon, nil
}

func TestPipelineLoad(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = []notion.Block{
		{ID: "h1", Type: "heading_1", Heading1: &notion.TextBlock{RichText: rt("Welcome")}},
		{ID: "p1", Type: "paragraph", Paragraph: &notion.TextBlock{RichText: rt("intro text")}},
		{ID: "pg1", Type: "child_page", HasChildren: true, ChildPage: &notion.ChildPageBlock{Title: "Notes"}},
	}
	src.icons["pg1"] = "📒"

	p := NewPipeline(src, "root")
	res, err := p.Load(context.Background(), "", false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if res.BoardID != "root" {
		t.Errorf("board id = %q, want root", res.BoardID)
	}
	if res.Title != "Gallery" {
		t.Errorf("title = %q, want Gallery for unknown root", res.Title)
	}
	if len(res.Items) == 0 || res.Items[0].Kind != KindTitle {
		t.Fatalf("items = %+v, want leading title card", res.Items)
	}
	if res.Items[0].ID != "title-root" || res.Items[0].Content != "Gallery" {
		t.Errorf("title card = %+v", res.Items[0])
	}
	if len(res.Boards) != 1 || res.Boards[0].ID != "pg1" {
		t.Fatalf("boards = %+v, want [pg1]", res.Boards)
	}
	if res.Boards[0].Icon != "📒" {
		t.Errorf("board icon = %q, want enriched icon", res.Boards[0].Icon)
	}

	// The root itself only enters the catalog when extracted as a board;
	// loading an uncataloged root must not invent one.
	if b, ok := p.Catalog().Get("root"); ok {
		t.Errorf("root board = %+v, want absent from catalog", b)
	}
	if b, ok := p.Catalog().Get("pg1"); !ok || b.IsLoaded {
		t.Errorf("pg1 board = %+v, ok = %v; want cataloged and unloaded", b, ok)
	}
}

func TestPipelineLoadEmptyBoard(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = nil

	p := NewPipeline(src, "root")
	res, err := p.Load(context.Background(), "", false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	// No content, no title card.
	if len(res.Items) != 0 {
		t.Errorf("items = %+v, want none", res.Items)
	}
	if len(res.Groups) != 0 {
		t.Errorf("groups = %+v, want none", res.Groups)
	}
}

func TestPipelineLoadDatabaseBoard(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = []notion.Block{
		{ID: "db1", Type: "child_database", ChildDatabase: &notion.ChildDatabaseBlock{Title: "Tasks"}},
	}
	src.rows["db1"] = []Board{
		{ID: "row1", Title: "Task one", ParentID: "db1", Kind: BoardPage, IsLoaded: true},
	}

	p := NewPipeline(src, "root")
	if _, err := p.Load(context.Background(), "", false); err != nil {
		t.Fatalf("Load(root) error: %v", err)
	}

	// The database was auto-loaded during the root load.
	if b, ok := p.Catalog().Get("db1"); !ok || !b.IsLoaded {
		t.Fatalf("db1 = %+v, ok = %v; want loaded database board", b, ok)
	}
	if b, ok := p.Catalog().Get("row1"); !ok || b.Title != "Task one" {
		t.Fatalf("row1 = %+v, ok = %v; want row board", b, ok)
	}

	// A direct load of the database queries rows, never block children.
	res, err := p.Load(context.Background(), "db1", false)
	if err != nil {
		t.Fatalf("Load(db1) error: %v", err)
	}
	if res.Title != "Tasks" {
		t.Errorf("title = %q, want Tasks", res.Title)
	}
	for _, id := range src.fetchCalls {
		if id == "db1" {
			t.Error("database load fetched block children")
		}
	}
}

func TestPipelineLoadError(t *testing.T) {
	src := newFakeSource()
	boom := errors.New("api down")
	src.fetchHook = func(string) error { return boom }

	p := NewPipeline(src, "root")
	if _, err := p.Load(context.Background(), "", false); !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want %v", err, boom)
	}
}

func TestPipelineLoadStale(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = []notion.Block{
		{ID: "p1", Type: "paragraph", Paragraph: &notion.TextBlock{RichText: rt("old")}},
		{ID: "pgslow", Type: "child_page", ChildPage: &notion.ChildPageBlock{Title: "From the slow load"}},
	}
	src.children["other"] = []notion.Block{
		{ID: "p2", Type: "paragraph", Paragraph: &notion.TextBlock{RichText: rt("new")}},
	}

	p := NewPipeline(src, "root")

	slowStarted := make(chan struct{})
	release := make(chan struct{})
	src.fetchHook = func(containerID string) error {
		if containerID == "root" {
			close(slowStarted)
			<-release
		}
		return nil
	}

	slowErr := make(chan error, 1)
	go func() {
		_, err := p.Load(context.Background(), "", false)
		slowErr <- err
	}()
	<-slowStarted

	// A newer load for another board starts and finishes while the first
	// one is stuck in its fetch.
	if _, err := p.Load(context.Background(), "other", false); err != nil {
		t.Fatalf("newer Load() error: %v", err)
	}
	close(release)

	if err := <-slowErr; !errors.Is(err, ErrStale) {
		t.Fatalf("superseded Load() error = %v, want ErrStale", err)
	}
	// The stale load committed nothing: its extracted boards never reach
	// the catalog.
	if b, ok := p.Catalog().Get("pgslow"); ok {
		t.Errorf("stale load committed board %+v", b)
	}
}

func TestPipelineReorder(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = []notion.Block{
		{ID: "p1", Type: "paragraph", Paragraph: &notion.TextBlock{RichText: rt("alpha")}},
		{ID: "e1", Type: "paragraph", Paragraph: &notion.TextBlock{}},
		{ID: "img1", Type: "image", Image: &notion.MediaBlock{External: &notion.FileRef{URL: "https://x/a.png"}}},
	}

	p := NewPipeline(src, "root")
	res, err := p.Reorder(context.Background(), "", "img1", "p1")
	if err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}

	// Title card first, then the moved image before the paragraph.
	var ids []string
	for _, g := range res.Groups {
		ids = append(ids, g.ID)
	}
	want := []string{"title-root", "img1", "p1"}
	if len(ids) != len(want) {
		t.Fatalf("groups = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("group %d = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestPipelineReorderNoOp(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = []notion.Block{
		{ID: "p1", Type: "paragraph", Paragraph: &notion.TextBlock{RichText: rt("alpha")}},
	}

	p := NewPipeline(src, "root")
	res, err := p.Reorder(context.Background(), "", "ghost", "p1")
	if err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}
	if len(res.Groups) != 2 || res.Groups[1].ID != "p1" {
		t.Errorf("groups changed on unknown move: %+v", res.Groups)
	}
}

func TestPipelineIconEnrichmentBestEffort(t *testing.T) {
	src := newFakeSource()
	src.children["root"] = []notion.Block{
		{ID: "pg1", Type: "child_page", ChildPage: &notion.ChildPageBlock{Title: "Has icon"}},
		{ID: "pg2", Type: "child_page", ChildPage: &notion.ChildPageBlock{Title: "No icon"}},
	}
	src.icons["pg1"] = "🌱"
	// pg2 has no icon entry; the fake returns an error for it.

	p := NewPipeline(src, "root")
	res, err := p.Load(context.Background(), "", false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	byID := map[string]Board{}
	for _, b := range res.Boards {
		byID[b.ID] = b
	}
	if byID["pg1"].Icon != "🌱" {
		t.Errorf("pg1 icon = %q, want enriched", byID["pg1"].Icon)
	}
	if byID["pg2"].Icon != "" {
		t.Errorf("pg2 icon = %q, want empty after failed fetch", byID["pg2"].Icon)
	}
}
