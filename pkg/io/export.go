package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

// document is the on-disk form of a computed layout.
type document struct {
	Root   string        `json:"root"`
	Blocks layout.Layout `json:"blocks"`
}

// WriteLayout encodes l as indented JSON with rootID recorded alongside the
// blocks. Blocks are keyed by id, in sorted order.
func WriteLayout(l layout.Layout, rootID string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Root: rootID, Blocks: l}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalLayout is WriteLayout into a byte slice.
func MarshalLayout(l layout.Layout, rootID string) ([]byte, error) {
	return json.MarshalIndent(document{Root: rootID, Blocks: l}, "", "  ")
}

// ReadLayout decodes a document written by [WriteLayout] and returns the
// root id and blocks. Right and Bottom are recomputed from the other
// fields, so hand-edited documents stay consistent.
func ReadLayout(r io.Reader) (string, layout.Layout, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if doc.Blocks == nil {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "layout document has no blocks")
	}
	if _, ok := doc.Blocks[doc.Root]; !ok {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "root %q is not among the blocks", doc.Root)
	}
	for id, b := range doc.Blocks {
		b.ID = id
		b.Right = b.Left + b.Width
		b.Bottom = b.Top + b.Height
		doc.Blocks[id] = b
	}
	return doc.Root, doc.Blocks, nil
}

// ExportLayout writes l to a JSON file at path.
// This is a convenience wrapper around [WriteLayout] for file-based output.
func ExportLayout(l layout.Layout, rootID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(l, rootID, f)
}

// WriteTree encodes a layout tree as indented JSON. The encoding is
// deterministic, so its hash identifies the tree for caching.
func WriteTree(root layout.Root, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalTree is WriteTree into a compact byte slice.
func MarshalTree(root layout.Root) ([]byte, error) {
	return json.Marshal(root)
}
