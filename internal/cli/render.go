package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/pkg/errors"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
	"github.com/matzehuels/boxlayout/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // base output path
	formats []string // output formats
	style   string
	labels  bool
	scale   float64 // PNG scale factor
	strict  bool
	noCache bool
	refresh bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <tree.json|tree.toml>",
		Short: "Draw a resolved layout",
		Long: `Render resolves a layout tree and writes one file per format:

  svg       every block as a rectangle
  png, pdf  the same drawing converted with rsvg-convert
  dot       the box hierarchy as a Graphviz digraph
  tree-svg  the box hierarchy drawn by Graphviz
  json      the resolved blocks

Files are named <base><ext>, where base defaults to the tree path without
its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.formats = c.Config.Render.Formats
			} else {
				formats, err := pipeline.ParseFormats(formatsStr)
				if err != nil {
					return err
				}
				opts.formats = formats
			}
			if !cmd.Flags().Changed("style") {
				opts.style = c.Config.Render.Style
			}
			if !cmd.Flags().Changed("labels") {
				opts.labels = c.Config.Render.Labels
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base output path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", pipeline.DefaultStyle, "block style: "+strings.Join(render.StyleNames(), ", "))
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "write box ids into the blocks")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on duplicate box ids")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")

	_ = cmd.RegisterFlagCompletionFunc("style", cobra.FixedCompletions(render.StyleNames(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	root, err := boxio.ImportTree(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		StrictIDs: opts.strict,
		Refresh:   opts.refresh,
		Formats:   opts.formats,
		Style:     opts.style,
		Labels:    opts.labels,
		Scale:     opts.scale,
		Logger:    logger,
	}

	var spinner *Spinner
	if slices.Contains(opts.formats, pipeline.FormatPNG) || slices.Contains(opts.formats, pipeline.FormatPDF) {
		spinner = newSpinnerWithContext(ctx, "Rendering...")
		spinner.Start()
	}
	res, err := runner.Execute(ctx, root, pipeOpts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	var written []string
	for _, format := range pipeline.FormatNames {
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		path := base + pipeline.Extension(format)
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

	printSuccess("Rendered %s", StyleHighlight.Render(root.ID))
	printStats(res.Stats.BlockCount, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	for _, p := range written {
		printFile(p)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return trimTreeExt(input)
	}
	if strings.HasSuffix(output, ".tree.svg") {
		return strings.TrimSuffix(output, ".tree.svg")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
