// Classifies raw Notion blocks into typed content items.

package feed

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// Classify maps one raw block to a content item. The second return value
// is false when the block carries nothing displayable.
//
// Text-bearing kinds are emitted only when their plain text is non-empty
// after trimming, with one exception: an empty paragraph IS emitted,
// because the grouper consumes it as a section separator. Media kinds are
// emitted whenever a URL resolves, caption or not.
func Classify(block *notion.Block, parentID string) (ContentItem, bool) {
	item := ContentItem{ID: block.ID, ParentID: parentID}

	switch block.Type {
	case "paragraph":
		item.Kind = KindText
		if block.Paragraph != nil {
			item.Content = notion.PlainText(block.Paragraph.RichText)
		}
		// Empty paragraphs pass through as separators.
		return item, true

	case "heading_1", "heading_2", "heading_3":
		item.Kind = KindHeading
		item.Metadata.Level = headingLevel(block.Type)
		item.Content = notion.PlainText(headingText(block))
		return item, !isBlank(item.Content)

	case "bulleted_list_item":
		item.Kind = KindBulletedList
		if block.BulletedListItem != nil {
			item.Content = notion.PlainText(block.BulletedListItem.RichText)
		}
		return item, !isBlank(item.Content)

	case "numbered_list_item":
		item.Kind = KindNumberedList
		if block.NumberedListItem != nil {
			item.Content = notion.PlainText(block.NumberedListItem.RichText)
		}
		return item, !isBlank(item.Content)

	case "to_do":
		item.Kind = KindToDo
		if block.ToDo != nil {
			item.Content = notion.PlainText(block.ToDo.RichText)
			item.Metadata.Checked = block.ToDo.Checked
		}
		return item, !isBlank(item.Content)

	case "quote":
		item.Kind = KindQuote
		if block.Quote != nil {
			item.Content = notion.PlainText(block.Quote.RichText)
		}
		return item, !isBlank(item.Content)

	case "callout":
		item.Kind = KindCallout
		if block.Callout != nil {
			item.Content = notion.PlainText(block.Callout.RichText)
			item.Metadata.Icon = iconString(block.Callout.Icon)
			item.Metadata.Color = block.Callout.Color
		}
		return item, !isBlank(item.Content)

	case "code":
		item.Kind = KindCode
		if block.Code != nil {
			item.Content = notion.PlainText(block.Code.RichText)
			item.Metadata.Language = block.Code.Language
		}
		return item, !isBlank(item.Content)

	case "image":
		item.Kind = KindImage
		item.URL = mediaURL(block.Image)
		item.Caption = mediaCaption(block.Image)
		return item, item.URL != ""

	case "video":
		item.URL = mediaURL(block.Video)
		item.Caption = mediaCaption(block.Video)
		item.Kind, item.Metadata.VideoID = classifyVideoURL(item.URL)
		return item, item.URL != ""

	case "file":
		item.Kind = KindFile
		item.URL = mediaURL(block.File)
		name := mediaCaption(block.File)
		if name == "" {
			name = fileNameFromURL(item.URL)
		}
		item.Metadata.FileName = name
		return item, item.URL != ""

	case "bookmark":
		item.Kind = KindLink
		if block.Bookmark != nil {
			item.URL = block.Bookmark.URL
			item.Caption = notion.PlainText(block.Bookmark.Caption)
		}
		item.Content = item.URL
		return item, item.URL != ""

	case "embed":
		if block.Embed == nil {
			return item, false
		}
		item.URL = block.Embed.URL
		item.Caption = notion.PlainText(block.Embed.Caption)
		kind, videoID, embedURL := classifyEmbedURL(item.URL)
		if kind == "" {
			// Unrecognized embed hosts are skipped.
			return item, false
		}
		item.Kind = kind
		item.Metadata.VideoID = videoID
		if embedURL != "" {
			item.URL = embedURL
		}
		return item, true
	}

	return item, false
}

// headingLevel parses the numeric suffix of a heading kind tag.
func headingLevel(kind string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(kind, "heading_"))
	if err != nil {
		return 1
	}
	return n
}

func headingText(block *notion.Block) []notion.RichText {
	switch {
	case block.Heading1 != nil:
		return block.Heading1.RichText
	case block.Heading2 != nil:
		return block.Heading2.RichText
	case block.Heading3 != nil:
		return block.Heading3.RichText
	}
	return nil
}

// mediaURL resolves the hosted or external URL of a media payload.
func mediaURL(m *notion.MediaBlock) string {
	if m == nil {
		return ""
	}
	if m.File != nil && m.File.URL != "" {
		return m.File.URL
	}
	if m.External != nil {
		return m.External.URL
	}
	return ""
}

func mediaCaption(m *notion.MediaBlock) string {
	if m == nil {
		return ""
	}
	return notion.PlainText(m.Caption)
}

// iconString flattens a callout icon to an emoji literal or image URL.
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

// fileNameFromURL extracts the last path segment, without query string.
func fileNameFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	trimmed := rawURL
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

// classifyVideoURL reclassifies a generic video by its host. Videos hosted
// on YouTube or Loom render as platform embeds; anything else stays a
// plain video.
func classifyVideoURL(rawURL string) (ItemKind, string) {
	if id := youTubeVideoID(rawURL); id != "" {
		return KindYouTube, id
	}
	if id := loomVideoID(rawURL); id != "" {
		return KindLoom, id
	}
	return KindVideo, ""
}

// classifyEmbedURL classifies a generic embed by its host. Returns an
// empty kind for unrecognized hosts. For Canva designs the returned URL is
// the normalized /view?embed form.
func classifyEmbedURL(rawURL string) (kind ItemKind, videoID, embedURL string) {
	if id := youTubeVideoID(rawURL); id != "" {
		return KindYouTube, id, ""
	}
	if id := loomVideoID(rawURL); id != "" {
		return KindLoom, id, ""
	}
	if id, u := canvaDesign(rawURL); id != "" {
		return KindCanva, id, u
	}
	return "", "", ""
}

// youTubeVideoID extracts the video id from watch, short and embed URL
// forms. Returns "" for non-YouTube URLs.
func youTubeVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		return pathSegmentAfter(u.Path, "embed")
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	}
	return ""
}

// loomVideoID extracts the video id from share and embed URL forms.
// Returns "" for non-Loom URLs.
func loomVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(u.Hostname(), "loom.com") {
		return ""
	}
	if id := pathSegmentAfter(u.Path, "share"); id != "" {
		return id
	}
	return pathSegmentAfter(u.Path, "embed")
}

// canvaDesign extracts the design id from a Canva URL and rewrites it to
// the embeddable /design/<id>/<shareKey>/view?embed form.
func canvaDesign(rawURL string) (id, embedURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	if !strings.HasSuffix(u.Hostname(), "canva.com") {
		return "", ""
	}
	segs := splitPath(u.Path)
	for i, s := range segs {
		if s == "design" && i+1 < len(segs) {
			id = segs[i+1]
			if i+2 < len(segs) {
				u.Path = "/design/" + id + "/" + segs[i+2] + "/view"
				u.RawQuery = "embed"
				return id, u.String()
			}
			return id, ""
		}
	}
	return "", ""
}

// pathSegmentAfter returns the path segment that follows marker, or "".
func pathSegmentAfter(path, marker string) string {
	segs := splitPath(path)
	for i, s := range segs {
		if s == marker && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	return ""
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
