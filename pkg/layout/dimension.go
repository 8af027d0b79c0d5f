package layout

import (
	"strconv"
	"strings"
)

// Unit specifies how a Dimension is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // Filled from the space left by siblings
	UnitFixed               // Absolute pixels
	UnitPercent             // Percentage of the parent's available space
)

// autoKeyword is the textual form of an auto dimension.
const autoKeyword = "auto"

// Dimension is a width or height that can be fixed, a percentage, or auto.
// The zero value is auto.
type Dimension struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Dimension computed from the available space.
func Auto() Dimension {
	return Dimension{Unit: UnitAuto}
}

// Fixed returns a Dimension of px absolute pixels.
func Fixed(px float64) Dimension {
	return Dimension{Amount: px, Unit: UnitFixed}
}

// Percent returns a Dimension representing a percentage of the available
// space. The value is on a 0-100 scale (50.0 = 50%).
func Percent(p float64) Dimension {
	return Dimension{Amount: p, Unit: UnitPercent}
}

// ParseDimension parses the textual form of a dimension: "auto" or a
// percentage such as "50%" or "12.5%". Fixed sizes are numbers, not strings,
// so any other string (including "120") fails with a [PercentageFormatError].
func ParseDimension(s string) (Dimension, error) {
	if s == autoKeyword {
		return Auto(), nil
	}
	num, ok := strings.CutSuffix(s, "%")
	if !ok {
		return Dimension{}, &PercentageFormatError{Value: s}
	}
	p, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Dimension{}, &PercentageFormatError{Value: s}
	}
	return Percent(p), nil
}

// IsAuto reports whether the dimension is computed from available space.
func (d Dimension) IsAuto() bool {
	return d.Unit != UnitFixed && d.Unit != UnitPercent
}

// String returns the textual form accepted by [ParseDimension] for
// percentages and auto, and the plain number for fixed values.
func (d Dimension) String() string {
	switch d.Unit {
	case UnitFixed:
		return formatNumber(d.Amount)
	case UnitPercent:
		return formatNumber(d.Amount) + "%"
	default:
		return autoKeyword
	}
}

// resolve returns the pixel size for a fixed or percentage dimension given
// the available space on its axis. ok is false for auto dimensions.
func (d Dimension) resolve(available float64) (px float64, ok bool) {
	switch d.Unit {
	case UnitFixed:
		return d.Amount, true
	case UnitPercent:
		return available * (d.Amount / 100), true
	default:
		return 0, false
	}
}

// formatNumber renders f with the fewest digits that round-trip, so 500
// prints as "500" and 100/3 as "33.333333333333336".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
