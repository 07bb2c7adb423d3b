// Maps database rows to boards with typed properties.

package source

import (
	"sort"
	"strings"

	"github.com/wilzamguerrero/notionfeed/internal/feed"
	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// rowToBoard converts one database row page to a navigable board of kind
// page. The title comes from the row's title property, every other
// supported property is attached as a typed key/value pair, and the page
// icon rides along when present.
func rowToBoard(page *notion.Page, databaseID string) feed.Board {
	title := untitledTitle(page)

	var props []feed.Property
	for name, pv := range page.Properties {
		if pv.Type == "title" {
			continue
		}
		if p, ok := propertyValue(name, &pv); ok {
			props = append(props, p)
		}
	}
	// Map iteration order is random; keep output deterministic.
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })

	return feed.Board{
		ID:          page.ID,
		Title:       title,
		ParentID:    databaseID,
		Kind:        feed.BoardPage,
		HasChildren: true,
		Properties:  props,
		Icon:        iconString(page.Icon),
	}
}

func untitledTitle(page *notion.Page) string {
	for _, pv := range page.Properties {
		if pv.Type == "title" {
			if t := notion.PlainText(pv.Title); t != "" {
				return t
			}
		}
	}
	return "Untitled"
}

// propertyValue converts one Notion property value to a typed pair. The
// second return value is false for property types the feed does not
// surface. Missing nested fields degrade to zero values, never panic.
func propertyValue(name string, pv *notion.PropertyValue) (feed.Property, bool) {
	p := feed.Property{Name: name, Type: pv.Type}

	switch pv.Type {
	case "rich_text":
		p.Value = notion.PlainText(pv.RichText)
	case "number":
		if pv.Number != nil {
			p.Value = *pv.Number
		}
	case "checkbox":
		p.Value = pv.Checkbox != nil && *pv.Checkbox
	case "select":
		if pv.Select != nil {
			p.Value = pv.Select.Name
			p.Color = pv.Select.Color
		}
	case "status":
		if pv.Status != nil {
			p.Value = pv.Status.Name
			p.Color = pv.Status.Color
		}
	case "multi_select":
		names := make([]string, 0, len(pv.MultiSelect))
		for _, opt := range pv.MultiSelect {
			names = append(names, opt.Name)
		}
		p.Value = names
	case "date":
		if pv.Date != nil {
			p.Value = pv.Date.Start
		}
	case "url":
		if pv.URL != nil {
			p.Value = *pv.URL
		}
	case "email":
		if pv.Email != nil {
			p.Value = *pv.Email
		}
	case "phone_number":
		if pv.PhoneNumber != nil {
			p.Value = *pv.PhoneNumber
		}
	case "people":
		var names []string
		for _, person := range pv.People {
			if person.Name != "" {
				names = append(names, person.Name)
			}
		}
		p.Value = strings.Join(names, ", ")
	case "created_time":
		if pv.CreatedTime != nil {
			p.Value = pv.CreatedTime.Format("2006-01-02 15:04")
		}
	case "last_edited_time":
		if pv.LastEditedTime != nil {
			p.Value = pv.LastEditedTime.Format("2006-01-02 15:04")
		}
	default:
		return p, false
	}

	if p.Value == nil {
		p.Value = ""
	}
	return p, true
}

// sortByNumericProperty orders boards descending by the value of each
// board's first numeric property. Boards without one keep their relative
// order at the end.
func sortByNumericProperty(boards []feed.Board) {
	sort.SliceStable(boards, func(i, j int) bool {
		vi, oki := firstNumeric(&boards[i])
		vj, okj := firstNumeric(&boards[j])
		if oki && okj {
			return vi > vj
		}
		return oki && !okj
	})
}

func firstNumeric(b *feed.Board) (float64, bool) {
	for _, p := range b.Properties {
		if p.Type == "number" {
			if v, ok := p.Value.(float64); ok {
				return v, true
			}
		}
	}
	return 0, false
}
