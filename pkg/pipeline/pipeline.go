// Package pipeline runs the resolve → render pipeline with caching.
//
// The CLI and the HTTP API both drive layouts through a [Runner], so the
// two entry points share defaults, validation and cache behavior.
//
// # Stages
//
//  1. Resolve: compute every block of a layout tree ([layout.Resolve])
//  2. Render: produce artifacts from the resolved layout (JSON, SVG, DOT,
//     a Graphviz tree diagram, PNG, PDF)
//
// Each stage can run on its own or through [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, root, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	    Labels:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/errors"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/render"
)

// Format constants for output formats.
const (
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatDOT     = "dot"
	FormatTreeSVG = "tree-svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
)

// Defaults shared by the CLI and the API.
const (
	DefaultStyle = render.StyleOutline
	DefaultScale = 2.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:    true,
	FormatSVG:     true,
	FormatDOT:     true,
	FormatTreeSVG: true,
	FormatPNG:     true,
	FormatPDF:     true,
}

// FormatNames lists the output formats in display order.
var FormatNames = []string{FormatJSON, FormatSVG, FormatDOT, FormatTreeSVG, FormatPNG, FormatPDF}

// Extension returns the file extension for an output format.
func Extension(format string) string {
	switch format {
	case FormatTreeSVG:
		return ".tree.svg"
	default:
		return "." + format
	}
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG, FormatTreeSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Input options
	InputFormat string `json:"input_format,omitempty"`
	StrictIDs   bool   `json:"strict,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string

	Root     layout.Root
	TreeHash string
	Layout   layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	BlockCount  int
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list and validates it.
func ParseFormats(s string) ([]string, error) {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	return formats, nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputFormat == "" {
		o.InputFormat = string(boxio.FormatJSON)
	}
	if o.InputFormat != string(boxio.FormatJSON) && o.InputFormat != string(boxio.FormatTOML) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be json or toml)", o.InputFormat)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if _, err := render.StyleByName(o.Style); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for resolving.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Strict: o.StrictIDs}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Style: o.Style, Labels: o.Labels}
	if format == FormatPNG {
		opts.Style += fmt.Sprintf("@%gx", o.Scale)
	}
	return opts
}

// ParseTree decodes a tree in opts.InputFormat.
func ParseTree(data []byte, opts Options) (layout.Root, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Root{}, err
	}
	return boxio.ParseTree(data, boxio.Format(opts.InputFormat))
}
