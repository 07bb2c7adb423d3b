// Package feed reconstructs an ordered card feed from a flat Notion block
// sequence.
//
// The pipeline runs in fixed stages: fetch children, expand multi-column
// layouts, extract navigable boards, classify blocks into content items,
// number ordered-list runs, and group adjacent items into reading sections.
// A reorder expander performs the inverse of grouping when the user drags a
// card, re-inserting synthetic separators so the next grouping pass keeps
// the boundaries the drag created.
//
// All transformations are pure and deterministic: identical input blocks
// always produce identical items, ids and groups.
package feed
