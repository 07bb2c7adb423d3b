package source

import (
	"reflect"
	"testing"
	"time"

	"github.com/wilzamguerrero/notionfeed/internal/feed"
	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

func TestRowToBoard(t *testing.T) {
	num := 3.5
	checked := true
	page := notion.Page{
		ID:   "row1",
		Icon: &notion.Icon{Type: "emoji", Emoji: "✅"},
		Properties: map[string]notion.PropertyValue{
			"Name":   {Type: "title", Title: []notion.RichText{{PlainText: "My row"}}},
			"Score":  {Type: "number", Number: &num},
			"Done":   {Type: "checkbox", Checkbox: &checked},
			"Status": {Type: "status", Status: &notion.SelectValue{Name: "In progress", Color: "blue"}},
			"Odd":    {Type: "rollup"},
		},
	}
	b := rowToBoard(&page, "db1")

	if b.ID != "row1" || b.Title != "My row" || b.ParentID != "db1" {
		t.Errorf("board = %+v", b)
	}
	if b.Kind != feed.BoardPage || !b.HasChildren {
		t.Errorf("board = %+v", b)
	}
	if b.Icon != "✅" {
		t.Errorf("icon = %q", b.Icon)
	}

	// Title and unsupported types are excluded; the rest sort by name.
	want := []feed.Property{
		{Name: "Done", Type: "checkbox", Value: true},
		{Name: "Score", Type: "number", Value: 3.5},
		{Name: "Status", Type: "status", Value: "In progress", Color: "blue"},
	}
	if !reflect.DeepEqual(b.Properties, want) {
		t.Errorf("properties = %+v, want %+v", b.Properties, want)
	}
}

func TestRowToBoardUntitled(t *testing.T) {
	page := notion.Page{ID: "row2", Properties: map[string]notion.PropertyValue{
		"Name": {Type: "title"},
	}}
	if b := rowToBoard(&page, "db1"); b.Title != "Untitled" {
		t.Errorf("title = %q, want Untitled", b.Title)
	}
}

func TestPropertyValue(t *testing.T) {
	u := "https://example.com"
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	tests := []struct {
		name string
		in   notion.PropertyValue
		want feed.Property
		ok   bool
	}{
		{
			name: "rich text",
			in:   notion.PropertyValue{Type: "rich_text", RichText: []notion.RichText{{PlainText: "note"}}},
			want: feed.Property{Name: "p", Type: "rich_text", Value: "note"},
			ok:   true,
		},
		{
			name: "nil number degrades",
			in:   notion.PropertyValue{Type: "number"},
			want: feed.Property{Name: "p", Type: "number", Value: ""},
			ok:   true,
		},
		{
			name: "multi select",
			in: notion.PropertyValue{Type: "multi_select", MultiSelect: []notion.SelectValue{
				{Name: "a"}, {Name: "b"},
			}},
			want: feed.Property{Name: "p", Type: "multi_select", Value: []string{"a", "b"}},
			ok:   true,
		},
		{
			name: "date",
			in:   notion.PropertyValue{Type: "date", Date: &notion.DateValue{Start: "2026-05-01"}},
			want: feed.Property{Name: "p", Type: "date", Value: "2026-05-01"},
			ok:   true,
		},
		{
			name: "url",
			in:   notion.PropertyValue{Type: "url", URL: &u},
			want: feed.Property{Name: "p", Type: "url", Value: u},
			ok:   true,
		},
		{
			name: "people joined",
			in: notion.PropertyValue{Type: "people", People: []notion.Person{
				{ID: "1", Name: "Ada"}, {ID: "2", Name: "Linus"}, {ID: "3"},
			}},
			want: feed.Property{Name: "p", Type: "people", Value: "Ada, Linus"},
			ok:   true,
		},
		{
			name: "created time formatted",
			in:   notion.PropertyValue{Type: "created_time", CreatedTime: &created},
			want: feed.Property{Name: "p", Type: "created_time", Value: "2026-03-14 09:26"},
			ok:   true,
		},
		{
			name: "unsupported type",
			in:   notion.PropertyValue{Type: "formula"},
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := propertyValue("p", &tt.in)
			if ok != tt.ok {
				t.Fatalf("propertyValue() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("propertyValue() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSortByNumericProperty(t *testing.T) {
	board := func(id string, order float64, has bool) feed.Board {
		b := feed.Board{ID: id}
		if has {
			b.Properties = []feed.Property{{Name: "Order", Type: "number", Value: order}}
		}
		return b
	}
	boards := []feed.Board{
		board("none1", 0, false),
		board("low", 1, true),
		board("none2", 0, false),
		board("high", 9, true),
	}
	sortByNumericProperty(boards)

	want := []string{"high", "low", "none1", "none2"}
	for i, id := range want {
		if boards[i].ID != id {
			t.Errorf("board %d = %q, want %q", i, boards[i].ID, id)
		}
	}
}
