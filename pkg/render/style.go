package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/boxlayout/pkg/errors"
)

// Style defines the visual appearance of a rendered layout.
type Style interface {
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the shape of a single block.
	RenderBlock(buf *bytes.Buffer, b Box)
	// RenderText writes the label of a single block.
	RenderText(buf *bytes.Buffer, b Box)
}

// Box is a block prepared for drawing.
type Box struct {
	ID         string
	X, Y, W, H float64
	CX, CY     float64
	Depth      int // 0 for the root
}

// Style names accepted by [StyleByName].
const (
	StyleOutline = "outline"
	StyleFilled  = "filled"
)

// StyleNames lists the built-in styles.
func StyleNames() []string { return []string{StyleOutline, StyleFilled} }

// StyleByName returns a built-in style. The empty name selects [Outline].
func StyleByName(name string) (Style, error) {
	switch name {
	case "", StyleOutline:
		return Outline{}, nil
	case StyleFilled:
		return Filled{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (valid: %s)", name, strings.Join(StyleNames(), ", "))
}

// Outline draws each block as a stroked rectangle with no fill.
type Outline struct{}

func (Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <style>.block { fill: none; stroke: #333; stroke-width: 1; } .label { fill: #333; font-family: sans-serif; }</style>\n")
}

func (Outline) RenderBlock(buf *bytes.Buffer, b Box) {
	writeRect(buf, b, "")
}

func (Outline) RenderText(buf *bytes.Buffer, b Box) { writeLabel(buf, b) }

// Filled shades blocks by depth so that nesting stays visible.
type Filled struct{}

var depthPalette = []string{"#f4f1ea", "#dbe9f4", "#f9e0c7", "#d8f0d2", "#eadcf2", "#f7d6d6"}

func (Filled) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <style>.block { stroke: #555; stroke-width: 1; } .label { fill: #222; font-family: sans-serif; }</style>\n")
}

func (Filled) RenderBlock(buf *bytes.Buffer, b Box) {
	writeRect(buf, b, depthPalette[b.Depth%len(depthPalette)])
}

func (Filled) RenderText(buf *bytes.Buffer, b Box) { writeLabel(buf, b) }

func writeRect(buf *bytes.Buffer, b Box, fill string) {
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f"`,
		escapeXML(b.ID), b.X, b.Y, b.W, b.H)
	if fill != "" {
		fmt.Fprintf(buf, ` fill="%s"`, fill)
	}
	buf.WriteString("/>\n")
}

const (
	fontSizeMin   = 6.0
	fontSizeMax   = 18.0
	fontCharWidth = 0.55
)

func writeLabel(buf *bytes.Buffer, b Box) {
	size := fontSize(b)
	if size < fontSizeMin {
		return
	}
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		b.CX, b.Y+min(b.H/2, size), size, escapeXML(b.ID))
}

// fontSize fits the id on one line near the top of the block.
func fontSize(b Box) float64 {
	n := float64(max(1, len(b.ID)))
	byWidth := b.W * 0.9 / (n * fontCharWidth)
	return min(fontSizeMax, byWidth, b.H*0.6)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

