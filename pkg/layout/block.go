package layout

import (
	"cmp"
	"slices"
)

// Block is the resolved rectangle of one node in absolute coordinates.
// Right and Bottom are derived from Left+Width and Top+Height.
type Block struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func newBlock(id string, width, height, top, left float64) Block {
	return Block{
		ID:     id,
		Width:  width,
		Height: height,
		Top:    top,
		Left:   left,
		Right:  left + width,
		Bottom: top + height,
	}
}

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Contains reports whether o lies entirely within b.
func (b Block) Contains(o Block) bool {
	return o.Left >= b.Left-eps && o.Top >= b.Top-eps &&
		o.Right <= b.Right+eps && o.Bottom <= b.Bottom+eps
}

// Layout maps every node id in a tree, root included, to its block.
type Layout map[string]Block

// IDs returns the ids in the layout in sorted order.
func (l Layout) IDs() []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Blocks returns every block sorted by id.
func (l Layout) Blocks() []Block {
	blocks := make([]Block, 0, len(l))
	for _, b := range l {
		blocks = append(blocks, b)
	}
	slices.SortFunc(blocks, func(a, b Block) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return blocks
}

// Block returns the block for id and whether it exists.
func (l Layout) Block(id string) (Block, bool) {
	b, ok := l[id]
	return b, ok
}
