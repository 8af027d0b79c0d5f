// Package layout resolves a declarative tree of nested boxes into absolute
// pixel geometry.
//
// # Overview
//
// A layout tree is a [Root] with nested [Node] children. Every node declares
// how wide and tall it wants to be as a [Dimension] (a fixed pixel amount, a
// percentage of the parent's available space, or auto), an inner [Padding],
// and, when it has children, the [Direction] in which they flow.
//
// [Resolve] walks the tree top-down in a single pass and returns a [Layout]:
// one [Block] per node id with absolute top, left, width, height, right and
// bottom.
//
// # Sizing
//
// Children are laid out inside their parent's padding box. Along the main
// axis (width for [Row], height for [Column]) auto children share whatever
// space the fixed and percentage siblings leave over. Along the cross axis
// every auto child stretches to the full available space. When the main axis
// sizes add up to more than the available space, resolution fails with an
// [OverflowError]; the cross axis is never checked.
//
// # Errors
//
// Resolution is fail-fast: [PaddingFormatError], [PercentageFormatError],
// [MissingDirectionError] and [OverflowError] abort the whole pass and no
// partial layout is returned. Each error type carries a code from
// pkg/errors.
//
// Duplicate ids are not an error for [Resolve]: the block resolved last
// wins. Use [CheckIDs] or [ResolveStrict] to reject such trees.
//
// # Example
//
//	root := layout.Root{
//	    ID: "root", Width: 500, Height: 500,
//	    Direction: layout.Column,
//	    Padding:   layout.PadList(10, 20, 30, 20),
//	    Children: []layout.Node{
//	        {ID: "title", Width: layout.Percent(100), Height: layout.Fixed(50)},
//	        {ID: "content", Width: layout.Percent(100)},
//	        {ID: "footer", Width: layout.Percent(100), Height: layout.Fixed(50)},
//	    },
//	}
//	l, err := layout.Resolve(root)
//	// l["content"].Height == 360
//
// Resolve is a pure function of its input and is safe to call concurrently.
package layout
