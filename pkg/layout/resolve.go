package layout

// eps absorbs floating point noise when comparing summed sizes, so three
// auto children sharing 100px never overflow by 1e-14.
const eps = 1e-9

// container is the geometry children are resolved against: the parent's
// own block plus the padding and direction it declares.
type container struct {
	block     Block
	direction Direction
	padding   Padding
}

// Resolve computes the absolute block of every node in the tree.
//
// The root block is taken directly from root.Width, root.Height, root.Top
// and root.Left; its padding only affects its children. Resolution fails on
// the first invalid padding, missing direction or main axis overflow, and
// never returns a partial layout.
//
// Ids are expected to be unique. When they are not, the block resolved last
// (deepest, then latest sibling) silently replaces earlier ones; see
// [ResolveStrict] to reject such trees instead.
func Resolve(root Root) (Layout, error) {
	rootBlock := newBlock(root.ID, root.Width, root.Height, root.Top, root.Left)
	blocks := []Block{rootBlock}

	if root.Children != nil {
		c := container{block: rootBlock, direction: root.Direction, padding: root.Padding}
		children, err := resolveChildren(c, root.Children)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, children...)
	}

	l := make(Layout, len(blocks))
	for _, b := range blocks {
		l[b.ID] = b
	}
	return l, nil
}

// ResolveStrict is [Resolve] preceded by [CheckIDs].
func ResolveStrict(root Root) (Layout, error) {
	if err := CheckIDs(root); err != nil {
		return nil, err
	}
	return Resolve(root)
}

// CheckIDs returns a [DuplicateIDError] for the first id that appears more
// than once in the tree, root included.
func CheckIDs(root Root) error {
	seen := map[string]bool{root.ID: true}
	return root.Walk(func(_ string, n Node, _ int) error {
		if seen[n.ID] {
			return &DuplicateIDError{ID: n.ID}
		}
		seen[n.ID] = true
		return nil
	})
}

// resolveChildren lays out nodes inside c and recurses into every node that
// declares children. The result lists the direct children first, in order,
// followed by each child's descendants.
func resolveChildren(c container, nodes []Node) ([]Block, error) {
	pad, err := c.padding.Normalize()
	if err != nil {
		if pe, ok := err.(*PaddingFormatError); ok {
			pe.NodeID = c.block.ID
		}
		return nil, err
	}
	if !c.direction.Valid() {
		return nil, &MissingDirectionError{NodeID: c.block.ID}
	}

	availWidth := c.block.Width - pad.Horizontal()
	availHeight := c.block.Height - pad.Vertical()

	widthSpecs := make([]Dimension, len(nodes))
	heightSpecs := make([]Dimension, len(nodes))
	for i, n := range nodes {
		widthSpecs[i], heightSpecs[i] = n.Width, n.Height
	}
	widths := resolveAxis(widthSpecs, availWidth, c.direction == Row)
	heights := resolveAxis(heightSpecs, availHeight, c.direction == Column)

	mainSizes, mainAvail := heights, availHeight
	if c.direction == Row {
		mainSizes, mainAvail = widths, availWidth
	}
	if sum(mainSizes) > mainAvail+eps {
		return nil, &OverflowError{
			NodeID:    c.block.ID,
			Direction: c.direction,
			Sizes:     mainSizes,
			Available: mainAvail,
		}
	}

	tops, lefts := position(widths, heights, c.block.Top+pad.Top, c.block.Left+pad.Left, c.direction)

	blocks := make([]Block, len(nodes))
	for i, n := range nodes {
		blocks[i] = newBlock(n.ID, widths[i], heights[i], tops[i], lefts[i])
	}

	for i, n := range nodes {
		if !n.IsContainer() {
			continue
		}
		nested, err := resolveChildren(container{block: blocks[i], direction: n.Direction, padding: n.Padding}, n.Children)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, nested...)
	}
	return blocks, nil
}

// resolveAxis turns sibling dimensions along one axis into pixels.
//
// Fixed and percentage values are resolved first. On the main axis the
// auto siblings split what is left of available evenly; if there are none,
// the leftover goes unused. On the cross axis each auto sibling receives
// all of available.
func resolveAxis(specs []Dimension, available float64, main bool) []float64 {
	sizes := make([]float64, len(specs))
	var fixed float64
	autos := 0
	for i, d := range specs {
		px, ok := d.resolve(available)
		if !ok {
			autos++
			continue
		}
		sizes[i] = px
		fixed += px
	}
	if autos == 0 {
		return sizes
	}

	share := available
	if main {
		share = (available - fixed) / float64(autos)
	}
	for i, d := range specs {
		if d.IsAuto() {
			sizes[i] = share
		}
	}
	return sizes
}

// position stacks siblings from the container origin along the direction.
// Every sibling shares the origin on the cross axis.
func position(widths, heights []float64, top, left float64, dir Direction) (tops, lefts []float64) {
	tops = make([]float64, len(widths))
	lefts = make([]float64, len(widths))
	var offset float64
	for i := range widths {
		tops[i], lefts[i] = top, left
		if dir == Column {
			tops[i] = top + offset
			offset += heights[i]
		} else {
			lefts[i] = left + offset
			offset += widths[i]
		}
	}
	return tops, lefts
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
