// Package io reads layout trees from JSON and TOML files and writes
// computed layouts as JSON.
//
// # Tree Formats
//
// A layout tree is a root box with nested children. The same structure is
// accepted as JSON:
//
//	{
//	  "id": "root",
//	  "direction": "column",
//	  "width": 500,
//	  "height": 500,
//	  "padding": [10, 20, 30, 20],
//	  "children": [
//	    {"id": "title", "width": "100%", "height": 50},
//	    {"id": "content", "width": "100%", "height": "auto"}
//	  ]
//	}
//
// and as TOML, with children as arrays of tables:
//
//	id = "root"
//	direction = "row"
//	width = 500
//	height = 500
//
//	[[children]]
//	id = "aside"
//	width = 100
//
// # Fields
//
// Root:
//   - id, width, height: required; width and height must be numbers
//   - top, left: optional absolute offset (default 0)
//
// Every box:
//   - width, height: a number, "auto" or a percentage such as "50%"
//     (default "auto")
//   - direction: "row" or "column"; required when children are present
//   - padding: 20, [10, 20], [10, 20, 30, 20] or {"top": 5} (default 0)
//
// Ids must be non-empty and free of control characters. Uniqueness is not
// enforced here; see layout.CheckIDs.
//
// # Layout Export
//
// [WriteLayout] encodes a computed layout with its root id:
//
//	{
//	  "root": "root",
//	  "blocks": {
//	    "title": {"id": "title", "width": 460, "height": 50, "top": 10, ...}
//	  }
//	}
//
// [ReadLayout] decodes the same document, which the pipeline uses as its
// cache format.
package io
