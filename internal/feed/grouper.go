// Groups adjacent content items into reading sections.

package feed

import "strings"

// standaloneKinds never merge into a group, regardless of adjacency.
var standaloneKinds = map[ItemKind]struct{}{
	KindImage:      {},
	KindVideo:      {},
	KindYouTube:    {},
	KindLoom:       {},
	KindCanva:      {},
	KindCode:       {},
	KindLink:       {},
	KindFile:       {},
	KindProperties: {},
	KindTitle:      {},
}

// IsStandalone reports whether a kind always renders as its own card.
func IsStandalone(kind ItemKind) bool {
	_, ok := standaloneKinds[kind]
	return ok
}

// Group partitions items into reading sections. Everything adjacent (no
// blank paragraph in between) lands in the same group; a blank paragraph
// separates groups and is consumed; standalone kinds always flush the
// current group and stay on their own. Identical input yields identical
// groups and group ids.
func Group(items []ContentItem) []GroupedItem {
	if len(items) == 0 {
		return nil
	}

	var result []GroupedItem
	var current []ContentItem

	flush := func() {
		if len(current) > 0 {
			result = append(result, makeGroup(current))
			current = nil
		}
	}

	for _, item := range items {
		if IsSeparator(&item) {
			flush()
			continue
		}
		if IsStandalone(item.Kind) {
			flush()
			result = append(result, GroupedItem{ContentItem: item})
			continue
		}
		current = append(current, item)
	}
	flush()

	return result
}

// makeGroup turns a flush buffer into one grouped item. A single-item
// buffer stays a plain item; two or more become a compound group whose id
// is the dash-joined member ids and whose displayed content and heading
// level come from the leading members.
func makeGroup(members []ContentItem) GroupedItem {
	if len(members) == 1 {
		return GroupedItem{ContentItem: members[0]}
	}

	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	var headings []ContentItem
	for _, m := range members {
		if m.Kind == KindHeading {
			headings = append(headings, m)
		}
	}

	group := GroupedItem{
		ContentItem: ContentItem{
			ID:       strings.Join(ids, "-"),
			Kind:     KindText,
			Content:  members[0].Content,
			ParentID: members[0].ParentID,
		},
		IsGroup:    true,
		GroupItems: members,
		Headings:   headings,
	}
	if len(headings) > 0 {
		group.Metadata.Level = headings[0].Metadata.Level
	}
	return group
}
