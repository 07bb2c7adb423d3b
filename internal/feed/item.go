// Defines the feed domain types: boards, content items and groups.

package feed

import (
	"context"

	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// ItemKind identifies what a content item displays.
type ItemKind string

// Content item kinds.
const (
	KindImage        ItemKind = "image"
	KindVideo        ItemKind = "video"
	KindYouTube      ItemKind = "youtube"
	KindLoom         ItemKind = "loom"
	KindCanva        ItemKind = "canva"
	KindText         ItemKind = "text"
	KindHeading      ItemKind = "heading"
	KindCode         ItemKind = "code"
	KindLink         ItemKind = "link"
	KindTitle        ItemKind = "title"
	KindFile         ItemKind = "file"
	KindProperties   ItemKind = "properties"
	KindBulletedList ItemKind = "bulleted_list"
	KindNumberedList ItemKind = "numbered_list"
	KindToDo         ItemKind = "todo"
	KindQuote        ItemKind = "quote"
	KindCallout      ItemKind = "callout"
)

// BoardKind identifies the navigation node variety.
type BoardKind string

// Board kinds.
const (
	BoardToggle   BoardKind = "toggle"
	BoardPage     BoardKind = "page"
	BoardDatabase BoardKind = "database"
)

// Board is a navigable container node in the sidebar tree. Boards form a
// forest keyed by ParentID; root boards have an empty ParentID.
type Board struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ParentID    string     `json:"parentId,omitempty"`
	Kind        BoardKind  `json:"type"`
	HasChildren bool       `json:"hasChildren"`
	IsLoaded    bool       `json:"isLoaded"`
	Properties  []Property `json:"properties,omitempty"`
	Icon        string     `json:"icon,omitempty"`
}

// Property is one typed key/value pair extracted from a database row.
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
	Color string `json:"color,omitempty"`
}

// Metadata carries kind-specific item details.
type Metadata struct {
	Language string `json:"language,omitempty"` // code blocks
	Level    int    `json:"level,omitempty"`    // headings
	FileName string `json:"fileName,omitempty"` // files
	VideoID  string `json:"videoId,omitempty"`  // youtube/loom embeds
	Checked  bool   `json:"checked,omitempty"`  // to-do items
	Icon     string `json:"icon,omitempty"`     // callouts
	Color    string `json:"color,omitempty"`    // callouts
	Number   int    `json:"number,omitempty"`   // numbered list ordinal
	// ParentTitle gives a title card its breadcrumb context.
	ParentTitle string `json:"parentTitle,omitempty"`
}

// ContentItem is one displayable unit derived from a block. ID is stable
// and equals the originating block id, except for synthetic separators and
// compound groups.
type ContentItem struct {
	ID       string   `json:"id"`
	Kind     ItemKind `json:"type"`
	URL      string   `json:"url,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Content  string   `json:"content,omitempty"`
	Metadata Metadata `json:"metadata,omitzero"`
	ParentID string   `json:"parentId"`
}

// GroupedItem is a ContentItem that may represent a compound reading
// section. When IsGroup is true, GroupItems holds the original members in
// order and Headings the heading-kind subset.
type GroupedItem struct {
	ContentItem
	IsGroup    bool          `json:"isGroup"`
	GroupItems []ContentItem `json:"groupItems,omitempty"`
	Headings   []ContentItem `json:"headings,omitempty"`
}

// Separator returns a synthetic zero-width item used to keep group
// boundaries apart after a manual reorder. It is never rendered: the next
// grouping pass consumes it.
func Separator(id, parentID string) ContentItem {
	return ContentItem{ID: id, Kind: KindText, ParentID: parentID}
}

// IsSeparator reports whether an item acts as a group boundary: a text
// item whose content is empty or whitespace-only.
func IsSeparator(it *ContentItem) bool {
	return it.Kind == KindText && isBlank(it.Content)
}

// BlockSource is the injected collaborator the pipeline fetches from.
// Implementations own pagination and caching.
type BlockSource interface {
	// FetchChildren returns the full ordered child block list of a
	// container. force bypasses any cache.
	FetchChildren(ctx context.Context, containerID string, force bool) ([]notion.Block, error)
	// QueryDatabase returns one Board of kind page per database row.
	QueryDatabase(ctx context.Context, databaseID string, force bool) ([]Board, error)
	// FetchPageIcon returns the page icon, or "" when the page has none.
	FetchPageIcon(ctx context.Context, pageID string) (string, error)
}
