package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/boxlayout/pkg/layout"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  Style
	labels bool
	depths map[string]int
}

// WithStyle selects the drawing style. The default is [Outline].
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithLabels writes each block's id inside it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithTree supplies the tree the layout came from, so that blocks are
// drawn parents first and styled by depth. Without it, blocks are drawn
// largest first.
func WithTree(root layout.Root) SVGOption {
	return func(r *svgRenderer) {
		r.depths = map[string]int{root.ID: 0}
		_ = root.Walk(func(_ string, n layout.Node, depth int) error {
			r.depths[n.ID] = depth
			return nil
		})
	}
}

// RenderSVG draws every block of l as a rectangle. The canvas spans the
// origin to the furthest block edge.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: Outline{}}
	for _, opt := range opts {
		opt(&r)
	}

	boxes := r.boxes(l)
	w, h := extent(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	r.style.RenderDefs(&buf)
	for _, b := range boxes {
		r.style.RenderBlock(&buf, b)
	}
	if r.labels {
		for _, b := range boxes {
			r.style.RenderText(&buf, b)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) boxes(l layout.Layout) []Box {
	boxes := make([]Box, 0, len(l))
	for id, b := range l {
		boxes = append(boxes, Box{
			ID: id,
			X:  b.Left, Y: b.Top, W: b.Width, H: b.Height,
			CX: b.CenterX(), CY: b.CenterY(),
			Depth: r.depths[id],
		})
	}
	slices.SortFunc(boxes, func(a, b Box) int {
		if r.depths != nil {
			if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
				return c
			}
		} else if c := cmp.Compare(b.W*b.H, a.W*a.H); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return boxes
}

func extent(l layout.Layout) (w, h float64) {
	for _, b := range l {
		w = max(w, b.Right)
		h = max(h, b.Bottom)
	}
	return w, h
}
