package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrIrreversibleFallback = errors.New("tile already fell back; no transition back to displaying")

// TileState is either Displaying or Fallback. The only edge is
// Displaying -> Fallback.
type TileState interface {
	tileState()
	String() string
}

type Displaying struct{}

type Fallback struct {
	Ref ImageRef
}

func (Displaying) tileState() {}
func (Fallback) tileState()   {}

func (Displaying) String() string { return "displaying" }
func (Fallback) String() string   { return "fallback" }

func IsFallback(s TileState) bool {
	_, ok := s.(Fallback)
	return ok
}

// FailLoad applies the load-failure event. Applying it to a Fallback state
// returns the same state.
func FailLoad(s TileState, ref ImageRef) TileState {
	if fb, ok := s.(Fallback); ok {
		return fb
	}
	return Fallback{Ref: ref}
}

// Transition validates from -> to. Fallback -> Displaying is rejected.
func Transition(from, to TileState) (TileState, error) {
	switch f := from.(type) {
	case Displaying:
		return to, nil
	case Fallback:
		if t, ok := to.(Fallback); ok {
			if t.Ref != f.Ref {
				return f, fmt.Errorf("fallback ref mismatch: %q -> %q", f.Ref, t.Ref)
			}
			return f, nil
		}
		return f, ErrIrreversibleFallback
	default:
		return from, fmt.Errorf("unknown tile state %T", from)
	}
}

// PlaceholderText is what a fallen-back tile shows. Local refs are reported
// under the public directory they were expected in.
func PlaceholderText(ref ImageRef) string {
	if ref.IsRemote() {
		return string(ref) + " not found"
	}
	path := string(ref)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "/public" + path + " not found"
}

type Tile struct {
	Index   int
	Ref     ImageRef
	State   TileState
	Caption Caption
}

func (t Tile) Fallback() bool {
	return IsFallback(t.State)
}

func (t Tile) Placeholder() string {
	return PlaceholderText(t.Ref)
}

func (t Tile) Alt() string {
	return fmt.Sprintf("Artwork %d", t.Index)
}
