package layout

import "fmt"

// Direction specifies the main axis along which children are laid out.
// The zero value means no direction was declared.
type Direction uint8

const (
	DirectionUnset Direction = iota // Not declared; invalid for containers
	Row                             // Children laid out left-to-right
	Column                          // Children laid out top-to-bottom
)

// String returns "row", "column" or "" for an unset direction.
func (d Direction) String() string {
	switch d {
	case Row:
		return "row"
	case Column:
		return "column"
	default:
		return ""
	}
}

// Valid reports whether d is Row or Column.
func (d Direction) Valid() bool {
	return d == Row || d == Column
}

// ParseDirection parses "row" or "column". The empty string yields
// DirectionUnset.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "row":
		return Row, nil
	case "column":
		return Column, nil
	case "":
		return DirectionUnset, nil
	default:
		return DirectionUnset, fmt.Errorf("unknown direction %q (must be 'row' or 'column')", s)
	}
}

// Node is a box in a layout tree.
//
// A non-nil Children slice makes the node a container, even when it is
// empty; containers must declare a Direction. Children and Direction are
// always encoded (as null and "" when absent) so a leaf and an empty
// container never share a JSON form.
type Node struct {
	ID        string    `json:"id" toml:"id"`
	Width     Dimension `json:"width" toml:"width"`
	Height    Dimension `json:"height" toml:"height"`
	Direction Direction `json:"direction" toml:"direction"`
	Padding   Padding   `json:"padding" toml:"padding"`
	Children  []Node    `json:"children" toml:"children"`
}

// IsContainer reports whether the node declares children.
func (n Node) IsContainer() bool {
	return n.Children != nil
}

// Root is the top of a layout tree. Its size is absolute because there is
// no enclosing container to take a percentage of; Top and Left offset the
// whole layout.
type Root struct {
	ID        string    `json:"id" toml:"id"`
	Width     float64   `json:"width" toml:"width"`
	Height    float64   `json:"height" toml:"height"`
	Top       float64   `json:"top,omitempty" toml:"top"`
	Left      float64   `json:"left,omitempty" toml:"left"`
	Direction Direction `json:"direction" toml:"direction"`
	Padding   Padding   `json:"padding" toml:"padding"`
	Children  []Node    `json:"children" toml:"children"`
}

// Walk calls fn for every descendant of r in depth-first pre-order, passing
// the id of the node's parent and its depth below the root (direct children
// are at depth 1). Walk stops at the first error fn returns.
func (r Root) Walk(fn func(parentID string, n Node, depth int) error) error {
	return walk(r.ID, r.Children, 1, fn)
}

func walk(parentID string, nodes []Node, depth int, fn func(string, Node, int) error) error {
	for _, n := range nodes {
		if err := fn(parentID, n, depth); err != nil {
			return err
		}
		if err := walk(n.ID, n.Children, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of boxes in the tree, root included.
func (r Root) Count() int {
	count := 1
	_ = r.Walk(func(string, Node, int) error {
		count++
		return nil
	})
	return count
}
