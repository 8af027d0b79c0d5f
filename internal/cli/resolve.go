package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/pkg/errors"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	output  string // output path; "-" writes to stdout
	strict  bool   // reject duplicate ids
	noCache bool
	refresh bool
}

func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <tree.json|tree.toml>",
		Short: "Compute the absolute position and size of every box",
		Long: `Resolve reads a layout tree and writes every block's width, height, top,
left, right and bottom as JSON. The default output is <tree>.layout.json;
use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on duplicate box ids")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, input string, opts resolveOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	root, err := boxio.ImportTree(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded tree", "root", root.ID, "nodes", root.Count())

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	l, hit, err := runner.ResolveWithCacheInfo(ctx, root, pipeline.Options{StrictIDs: opts.strict, Refresh: opts.refresh})
	if err != nil {
		return err
	}

	if opts.output == "-" {
		return boxio.WriteLayout(l, root.ID, os.Stdout)
	}
	out := opts.output
	if out == "" {
		out = trimTreeExt(input) + ".layout.json"
	}
	if err := errors.ValidateOutputPath(out); err != nil {
		return err
	}
	if err := boxio.ExportLayout(l, root.ID, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done(fmt.Sprintf("Resolved %d blocks", len(l)))

	printSuccess("Resolved %s", StyleHighlight.Render(root.ID))
	printStats(len(l), hit)
	printFile(out)
	printNextStep("Draw it", "boxlayout render "+input)
	return nil
}

// trimTreeExt strips a .json or .toml extension from a tree path.
func trimTreeExt(path string) string {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".json", ".toml":
		return strings.TrimSuffix(path, ext)
	}
	return path
}
