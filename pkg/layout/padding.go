package layout

// Edges holds a value for each of the four sides of a box.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

type paddingShape uint8

const (
	padNone  paddingShape = iota // no padding declared
	padAll                       // single value for every side
	padVH                        // [vertical, horizontal]
	padList                      // [top, right, bottom, left], trailing sides optional
	padSides                     // per-side record
)

// Padding describes the inset between a box's edge and its children in one
// of the accepted shapes. The zero value means no padding.
//
// Build values with [PadAll], [PadVH], [PadList] or [PadSides] and turn them
// into four explicit sides with [Padding.Normalize].
type Padding struct {
	shape paddingShape
	list  []float64
	sides Edges
}

// PadAll returns padding of m on every side.
func PadAll(m float64) Padding {
	return Padding{shape: padAll, list: []float64{m}}
}

// PadVH returns padding of v on top and bottom and h on left and right.
func PadVH(v, h float64) Padding {
	return Padding{shape: padVH, list: []float64{v, h}}
}

// PadList returns positional padding in top, right, bottom, left order.
// Missing trailing sides are zero. Two values are read as [vertical,
// horizontal], like [PadVH]. An empty list or more than four values is
// rejected by Normalize.
func PadList(values ...float64) Padding {
	return Padding{shape: padList, list: append([]float64(nil), values...)}
}

// PadSides returns padding with the given sides. Sides left unset in e are
// zero, which makes a partial record such as Edges{Top: 5} valid.
func PadSides(e Edges) Padding {
	return Padding{shape: padSides, sides: e}
}

// IsZero reports whether no padding was declared.
func (p Padding) IsZero() bool {
	return p.shape == padNone
}

// Normalize converts the padding into four explicit sides.
func (p Padding) Normalize() (Edges, error) {
	switch p.shape {
	case padNone:
		return Edges{}, nil
	case padAll:
		m := p.list[0]
		return Edges{Top: m, Right: m, Bottom: m, Left: m}, nil
	case padVH:
		return vh(p.list[0], p.list[1]), nil
	case padSides:
		return p.sides, nil
	}

	switch n := len(p.list); {
	case n == 2:
		return vh(p.list[0], p.list[1]), nil
	case n == 0 || n > 4:
		return Edges{}, &PaddingFormatError{Value: append([]float64(nil), p.list...)}
	}
	var side [4]float64
	copy(side[:], p.list)
	return Edges{Top: side[0], Right: side[1], Bottom: side[2], Left: side[3]}, nil
}

func vh(v, h float64) Edges {
	return Edges{Top: v, Right: h, Bottom: v, Left: h}
}
