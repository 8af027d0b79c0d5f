package layout_test

import (
	"fmt"

	"github.com/matzehuels/boxlayout/pkg/layout"
)

func ExampleResolve() {
	root := layout.Root{
		ID:        "root",
		Direction: layout.Column,
		Width:     500,
		Height:    500,
		Padding:   layout.PadList(10, 20, 30, 20),
		Children: []layout.Node{
			{ID: "title", Width: layout.Percent(100), Height: layout.Fixed(50)},
			{ID: "content", Width: layout.Percent(100), Height: layout.Auto()},
			{ID: "footer", Width: layout.Percent(100), Height: layout.Fixed(50)},
		},
	}

	l, err := layout.Resolve(root)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, b := range l.Blocks() {
		fmt.Printf("%s: top=%v left=%v width=%v height=%v\n", b.ID, b.Top, b.Left, b.Width, b.Height)
	}
	// Output:
	// content: top=60 left=20 width=460 height=360
	// footer: top=420 left=20 width=460 height=50
	// root: top=0 left=0 width=500 height=500
	// title: top=10 left=20 width=460 height=50
}

func ExampleResolve_row() {
	root := layout.Root{
		ID:        "root",
		Direction: layout.Row,
		Width:     500,
		Height:    500,
		Children: []layout.Node{
			{ID: "aside", Width: layout.Fixed(100)},
			{ID: "content-1"},
			{ID: "content-2"},
		},
	}

	l, _ := layout.Resolve(root)
	for _, id := range []string{"aside", "content-1", "content-2"} {
		b := l[id]
		fmt.Printf("%s: left=%v width=%v height=%v\n", id, b.Left, b.Width, b.Height)
	}
	// Output:
	// aside: left=0 width=100 height=500
	// content-1: left=100 width=200 height=500
	// content-2: left=300 width=200 height=500
}

func ExampleResolve_overflow() {
	root := layout.Root{
		ID:        "root",
		Direction: layout.Column,
		Width:     500,
		Height:    500,
		Children: []layout.Node{
			{ID: "content-1", Height: layout.Fixed(500)},
			{ID: "content-2", Height: layout.Fixed(1)},
		},
	}

	_, err := layout.Resolve(root)
	fmt.Println(err)
	// Output:
	// Block heights are overflowing! 500+1 > 500
}

func ExamplePadding_Normalize() {
	for _, p := range []layout.Padding{
		layout.PadAll(20),
		layout.PadVH(10, 20),
		layout.PadList(10, 20, 30, 20),
		layout.PadSides(layout.Edges{Top: 5}),
	} {
		e, _ := p.Normalize()
		fmt.Printf("%+v\n", e)
	}
	// Output:
	// {Top:20 Right:20 Bottom:20 Left:20}
	// {Top:10 Right:20 Bottom:10 Left:20}
	// {Top:10 Right:20 Bottom:30 Left:20}
	// {Top:5 Right:0 Bottom:0 Left:0}
}
