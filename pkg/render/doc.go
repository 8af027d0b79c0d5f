// Package render draws resolved layouts.
//
// # Outputs
//
//   - [RenderSVG]: every block as a rectangle in absolute coordinates,
//     optionally labelled with its id
//   - [ToDOT] and [RenderTreeSVG]: the containment tree as a Graphviz
//     diagram, one node per box annotated with its resolved geometry
//   - [ToPDF] and [ToPNG]: conversion of any SVG through rsvg-convert
//
//	svg := render.RenderSVG(l, render.WithTree(root), render.WithLabels())
//	png, err := render.ToPNG(svg, 2.0)
//
// # Styles
//
// A [Style] decides how blocks and labels look. [Outline] strokes each
// block; [Filled] shades blocks by nesting depth. Use [StyleByName] to pick
// one from a command-line flag.
package render
