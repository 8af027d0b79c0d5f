package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

// Format identifies a layout tree file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the tree format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot infer tree format from %q (expected .json or .toml)", path)
	}
}

// rootFile mirrors layout.Root with pointer sizes so that a missing root
// width or height can be told apart from zero.
type rootFile struct {
	ID        string           `json:"id" toml:"id"`
	Width     *float64         `json:"width" toml:"width"`
	Height    *float64         `json:"height" toml:"height"`
	Top       float64          `json:"top" toml:"top"`
	Left      float64          `json:"left" toml:"left"`
	Direction layout.Direction `json:"direction" toml:"direction"`
	Padding   layout.Padding   `json:"padding" toml:"padding"`
	Children  []layout.Node    `json:"children" toml:"children"`
}

// ReadTree decodes a layout tree in the given format from r.
//
// ReadTree returns an error if:
//   - The document is malformed (INVALID_FORMAT)
//   - The root width or height is missing or not a number (INVALID_INPUT)
//   - A dimension string is not "auto" or a percentage (INVALID_PERCENTAGE)
//   - A padding value has an unknown shape (INVALID_PADDING)
//   - A direction is not "row" or "column" (INVALID_INPUT)
//   - An id is empty or contains control characters (INVALID_INPUT)
//
// ReadTree does not close r.
func ReadTree(r io.Reader, format Format) (layout.Root, error) {
	var data rootFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&data); err != nil {
			return layout.Root{}, decodeError(err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
			return layout.Root{}, decodeError(err)
		}
	default:
		return layout.Root{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format %q", format)
	}

	if data.Width == nil || data.Height == nil {
		return layout.Root{}, errors.New(errors.ErrCodeInvalidInput, "root %q must declare a numeric width and height", data.ID)
	}

	root := layout.Root{
		ID:        data.ID,
		Width:     *data.Width,
		Height:    *data.Height,
		Top:       data.Top,
		Left:      data.Left,
		Direction: data.Direction,
		Padding:   data.Padding,
		Children:  data.Children,
	}
	if err := validateIDs(root); err != nil {
		return layout.Root{}, err
	}
	return root, nil
}

// ParseTree decodes a layout tree held in memory.
func ParseTree(data []byte, format Format) (layout.Root, error) {
	return ReadTree(bytes.NewReader(data), format)
}

// ImportTree reads the layout tree file at path, choosing the format from
// its extension. Errors are wrapped with the file path for context.
func ImportTree(path string) (layout.Root, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return layout.Root{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Root{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return layout.Root{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	root, err := ReadTree(f, format)
	if err != nil {
		return layout.Root{}, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// decodeError keeps coded errors raised by the layout codecs and classifies
// everything else the decoders report.
func decodeError(err error) error {
	if errors.GetCode(err) != "" {
		return fmt.Errorf("decode: %w", err)
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "field %q has the wrong type", typeErr.Field)
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
}

func validateIDs(root layout.Root) error {
	if err := errors.ValidateNodeID(root.ID); err != nil {
		return err
	}
	return root.Walk(func(parentID string, n layout.Node, _ int) error {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return fmt.Errorf("child of %q: %w", parentID, err)
		}
		return nil
	})
}
