package layout

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/boxlayout/pkg/errors"
)

// The methods in this file let Node and Root be decoded from JSON (via
// encoding/json) and TOML (via github.com/BurntSushi/toml, which calls
// UnmarshalTOML with the already-decoded value). Both decoders funnel into
// the same fromValue functions so the accepted shapes are identical.

// MarshalJSON encodes fixed dimensions as numbers and the rest as strings.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.Unit == UnitFixed {
		return json.Marshal(d.Amount)
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a number, "auto", a percentage string or null.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.UnmarshalTOML(v)
}

// UnmarshalTOML accepts an integer, a float, "auto" or a percentage string.
func (d *Dimension) UnmarshalTOML(v any) error {
	dim, err := dimensionFromValue(v)
	if err != nil {
		return err
	}
	*d = dim
	return nil
}

func dimensionFromValue(v any) (Dimension, error) {
	if v == nil {
		return Auto(), nil
	}
	if s, ok := v.(string); ok {
		return ParseDimension(s)
	}
	if f, ok := toFloat(v); ok {
		return Fixed(f), nil
	}
	return Dimension{}, errors.New(errors.ErrCodeInvalidInput,
		"dimension must be a number, \"auto\" or a percentage, got %v", v)
}

// MarshalText encodes the direction as "row" or "column".
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses "row" or "column".
func (d *Direction) UnmarshalText(text []byte) error {
	dir, err := ParseDirection(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "direction")
	}
	*d = dir
	return nil
}

// MarshalJSON encodes the padding back into the shape it was declared in.
func (p Padding) MarshalJSON() ([]byte, error) {
	switch p.shape {
	case padAll:
		return json.Marshal(p.list[0])
	case padVH, padList:
		return json.Marshal(p.list)
	case padSides:
		return json.Marshal(map[string]float64{
			"top":    p.sides.Top,
			"right":  p.sides.Right,
			"bottom": p.sides.Bottom,
			"left":   p.sides.Left,
		})
	default:
		return []byte("0"), nil
	}
}

// UnmarshalJSON accepts a number, an array of one to four numbers, or an
// object with any of "top", "right", "bottom" and "left".
func (p *Padding) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return p.UnmarshalTOML(v)
}

// UnmarshalTOML accepts the same shapes as UnmarshalJSON.
func (p *Padding) UnmarshalTOML(v any) error {
	pad, err := paddingFromValue(v)
	if err != nil {
		return err
	}
	*p = pad
	return nil
}

func paddingFromValue(v any) (Padding, error) {
	switch t := v.(type) {
	case nil:
		return Padding{}, nil
	case []any:
		values := make([]float64, len(t))
		for i, e := range t {
			f, ok := toFloat(e)
			if !ok {
				return Padding{}, &PaddingFormatError{Value: v}
			}
			values[i] = f
		}
		pad := PadList(values...)
		if _, err := pad.Normalize(); err != nil {
			return Padding{}, &PaddingFormatError{Value: v}
		}
		return pad, nil
	case map[string]any:
		var e Edges
		for side, raw := range t {
			f, ok := toFloat(raw)
			if !ok {
				return Padding{}, &PaddingFormatError{Value: v}
			}
			switch side {
			case "top":
				e.Top = f
			case "right":
				e.Right = f
			case "bottom":
				e.Bottom = f
			case "left":
				e.Left = f
			default:
				return Padding{}, &PaddingFormatError{Value: v}
			}
		}
		return PadSides(e), nil
	default:
		if f, ok := toFloat(v); ok {
			return PadAll(f), nil
		}
		return Padding{}, &PaddingFormatError{Value: v}
	}
}

// toFloat converts the numeric types produced by the JSON and TOML decoders.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// String implements fmt.Stringer for debugging output.
func (p Padding) String() string {
	e, err := p.Normalize()
	if err != nil {
		return fmt.Sprintf("invalid(%v)", p.list)
	}
	return fmt.Sprintf("%s %s %s %s",
		formatNumber(e.Top), formatNumber(e.Right), formatNumber(e.Bottom), formatNumber(e.Left))
}
