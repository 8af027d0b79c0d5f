package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/boxlayout/pkg/errors"
)

// PaddingFormatError reports a padding value that matches none of the
// accepted shapes. Value holds the offending input.
type PaddingFormatError struct {
	NodeID string
	Value  any
}

func (e *PaddingFormatError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("unrecognized padding format for %q: %v", e.NodeID, e.Value)
	}
	return fmt.Sprintf("unrecognized padding format: %v", e.Value)
}

// Code returns [errors.ErrCodeInvalidPadding].
func (e *PaddingFormatError) Code() errors.Code { return errors.ErrCodeInvalidPadding }

// PercentageFormatError reports a dimension string that is neither "auto"
// nor a number followed by "%".
type PercentageFormatError struct {
	Value string
}

func (e *PercentageFormatError) Error() string {
	return fmt.Sprintf("invalid percentage %q: expected a number followed by %%", e.Value)
}

// Code returns [errors.ErrCodeInvalidPercentage].
func (e *PercentageFormatError) Code() errors.Code { return errors.ErrCodeInvalidPercentage }

// MissingDirectionError reports a node with children but no direction.
type MissingDirectionError struct {
	NodeID string
}

func (e *MissingDirectionError) Error() string {
	return fmt.Sprintf("node %q has children but no direction", e.NodeID)
}

// Code returns [errors.ErrCodeMissingDirection].
func (e *MissingDirectionError) Code() errors.Code { return errors.ErrCodeMissingDirection }

// OverflowError reports main axis sizes that do not fit the available space.
// Its message lists every resolved size, for example
// "Block heights are overflowing! 500+1 > 500".
type OverflowError struct {
	NodeID    string
	Direction Direction
	Sizes     []float64
	Available float64
}

func (e *OverflowError) Error() string {
	parts := make([]string, len(e.Sizes))
	for i, s := range e.Sizes {
		parts[i] = formatNumber(s)
	}
	axis := "heights"
	if e.Direction == Row {
		axis = "widths"
	}
	return fmt.Sprintf("Block %s are overflowing! %s > %s",
		axis, strings.Join(parts, "+"), formatNumber(e.Available))
}

// Code returns [errors.ErrCodeOverflow].
func (e *OverflowError) Code() errors.Code { return errors.ErrCodeOverflow }

// DuplicateIDError reports an id used by more than one node in a tree.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id %q", e.ID)
}

// Code returns [errors.ErrCodeDuplicateID].
func (e *DuplicateIDError) Code() errors.Code { return errors.ErrCodeDuplicateID }
