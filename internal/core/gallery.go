package core

import (
	"fmt"
	"time"
)

type Caption struct {
	Year      int
	Signature string
}

func (c Caption) String() string {
	return fmt.Sprintf("© %d %s", c.Year, c.Signature)
}

func NewCaption(now time.Time, signature string) Caption {
	return Caption{Year: now.Year(), Signature: signature}
}

type Breakpoint struct {
	MinWidth int
	Columns  int
}

// GalleryBreakpoints drive the masonry column count. Columns are filled
// top to bottom, so rows do not line up across columns.
var GalleryBreakpoints = []Breakpoint{
	{MinWidth: 0, Columns: 1},
	{MinWidth: 640, Columns: 2},
	{MinWidth: 1024, Columns: 3},
}

func columnsForWidth(width int) int {
	cols := 1
	for _, bp := range GalleryBreakpoints {
		if width >= bp.MinWidth {
			cols = bp.Columns
		}
	}
	return cols
}

type Gallery struct {
	Tiles []Tile
}

func (g Gallery) Len() int {
	return len(g.Tiles)
}

func (g Gallery) CountLabel() string {
	return fmt.Sprintf("Showing %d works", len(g.Tiles))
}

func (g Gallery) FallbackCount() int {
	n := 0
	for _, t := range g.Tiles {
		if t.Fallback() {
			n++
		}
	}
	return n
}

// AssembleGallery builds one tile per ref in input order. A nil or short
// states slice leaves the remaining tiles Displaying.
func AssembleGallery(refs []ImageRef, states []TileState, now time.Time, signature string) Gallery {
	caption := NewCaption(now, signature)
	tiles := make([]Tile, len(refs))
	for i, ref := range refs {
		var state TileState = Displaying{}
		if i < len(states) && states[i] != nil {
			state = states[i]
		}
		tiles[i] = Tile{
			Index:   i + 1,
			Ref:     ref,
			State:   state,
			Caption: caption,
		}
	}
	return Gallery{Tiles: tiles}
}
