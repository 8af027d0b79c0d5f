package pipeline

import (
	"context"
	"fmt"

	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/render"
)

// Render generates output artifacts in the requested formats without
// touching any cache. PNG and PDF are converted from the block SVG.
func Render(ctx context.Context, root layout.Root, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	style, err := render.StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}

	svgOpts := []render.SVGOption{render.WithTree(root), render.WithStyle(style)}
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}

	var svg []byte
	blockSVG := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(l, svgOpts...)
		}
		return svg
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = boxio.MarshalLayout(l, root.ID)
		case FormatSVG:
			data = blockSVG()
		case FormatDOT:
			data = []byte(render.ToDOT(root, l))
		case FormatTreeSVG:
			data, err = render.RenderTreeSVG(ctx, render.ToDOT(root, l))
		case FormatPNG:
			data, err = render.ToPNG(blockSVG(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(blockSVG())
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
