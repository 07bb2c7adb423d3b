// Defines Notion API response types.

package notion

import "time"

// PaginatedResponse is the common structure for paginated API responses.
type PaginatedResponse[T any] struct {
	Object     string  `json:"object"`
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// BlocksResponse is the response from the block children endpoint.
type BlocksResponse = PaginatedResponse[Block]

// QueryResponse is the response from the database query endpoint.
type QueryResponse = PaginatedResponse[Page]

// Block represents a Notion block. Only the field matching Type is
// populated by the API; the rest stay nil.
type Block struct {
	Object      string `json:"object"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`
	Archived    bool   `json:"archived"`

	Paragraph        *TextBlock          `json:"paragraph,omitempty"`
	Heading1         *TextBlock          `json:"heading_1,omitempty"`
	Heading2         *TextBlock          `json:"heading_2,omitempty"`
	Heading3         *TextBlock          `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock          `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock          `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock          `json:"to_do,omitempty"`
	Toggle           *TextBlock          `json:"toggle,omitempty"`
	Quote            *TextBlock          `json:"quote,omitempty"`
	Callout          *CalloutBlock       `json:"callout,omitempty"`
	Code             *CodeBlock          `json:"code,omitempty"`
	Image            *MediaBlock         `json:"image,omitempty"`
	Video            *MediaBlock         `json:"video,omitempty"`
	File             *MediaBlock         `json:"file,omitempty"`
	Bookmark         *BookmarkBlock      `json:"bookmark,omitempty"`
	Embed            *EmbedBlock         `json:"embed,omitempty"`
	ColumnList       *struct{}           `json:"column_list,omitempty"`
	Column           *struct{}           `json:"column,omitempty"`
	ChildPage        *ChildPageBlock     `json:"child_page,omitempty"`
	ChildDatabase    *ChildDatabaseBlock `json:"child_database,omitempty"`
}

// TextBlock is the shared shape of paragraph, heading, list item, toggle
// and quote payloads.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color,omitempty"`
}

// ToDoBlock represents a to-do block.
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    string     `json:"color,omitempty"`
}

// CalloutBlock represents a callout block.
type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    string     `json:"color,omitempty"`
}

// CodeBlock represents a code block.
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Caption  []RichText `json:"caption,omitempty"`
	Language string     `json:"language,omitempty"`
}

// MediaBlock represents an image, video or file block.
type MediaBlock struct {
	Type     string     `json:"type"` // "file" or "external"
	File     *FileRef   `json:"file,omitempty"`
	External *FileRef   `json:"external,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// BookmarkBlock represents a bookmark block.
type BookmarkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

// EmbedBlock represents an embed block.
type EmbedBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

// ChildPageBlock represents a child page block.
type ChildPageBlock struct {
	Title string `json:"title"`
}

// ChildDatabaseBlock represents a child database block.
type ChildDatabaseBlock struct {
	Title string `json:"title"`
}

// FileRef is a file or external URL reference.
type FileRef struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time,omitempty"`
}

// RichText represents one run of formatted text.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text"`
	Href      *string      `json:"href,omitempty"`
}

// TextContent is the writable part of a rich text run.
type TextContent struct {
	Content string `json:"content"`
}

// Page represents a Notion page, including database rows.
type Page struct {
	Object         string                   `json:"object"`
	ID             string                   `json:"id"`
	CreatedTime    time.Time                `json:"created_time"`
	LastEditedTime time.Time                `json:"last_edited_time"`
	Archived       bool                     `json:"archived"`
	Properties     map[string]PropertyValue `json:"properties"`
	Icon           *Icon                    `json:"icon,omitempty"`
	URL            string                   `json:"url,omitempty"`
}

// Icon represents a page or callout icon.
type Icon struct {
	Type     string   `json:"type"` // "emoji", "external", "file"
	Emoji    string   `json:"emoji,omitempty"`
	External *FileRef `json:"external,omitempty"`
	File     *FileRef `json:"file,omitempty"`
}

// PropertyValue represents a property value on a page or database row.
type PropertyValue struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`

	Title          []RichText    `json:"title,omitempty"`
	RichText       []RichText    `json:"rich_text,omitempty"`
	Number         *float64      `json:"number,omitempty"`
	Checkbox       *bool         `json:"checkbox,omitempty"`
	Select         *SelectValue  `json:"select,omitempty"`
	MultiSelect    []SelectValue `json:"multi_select,omitempty"`
	Status         *SelectValue  `json:"status,omitempty"`
	Date           *DateValue    `json:"date,omitempty"`
	URL            *string       `json:"url,omitempty"`
	Email          *string       `json:"email,omitempty"`
	PhoneNumber    *string       `json:"phone_number,omitempty"`
	People         []Person      `json:"people,omitempty"`
	CreatedTime    *time.Time    `json:"created_time,omitempty"`
	LastEditedTime *time.Time    `json:"last_edited_time,omitempty"`
}

// SelectValue represents a select, multi-select or status option value.
type SelectValue struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue represents a date property value.
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// Person represents a Notion user.
type Person struct {
	Object    string  `json:"object,omitempty"`
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Error represents a Notion API error response.
type Error struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
