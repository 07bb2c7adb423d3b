// Package notion provides a minimal client for the Notion API.
//
// It covers the three endpoints the feed pipeline needs:
//   - block children listing (paginated)
//   - database queries
//   - page retrieval (for icon enrichment)
//
// plus appending child blocks for board creation. Requests are rate
// limited to 3 req/sec to respect Notion's API limits.
package notion
