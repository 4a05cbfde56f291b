// Package layout is a minimal layout tree for the dock's visual surfaces.
//
// Elements form a tree with single parents; appending an element that
// already has a parent moves it, the way DOM nodes behave. Each element
// carries an explicit pixel size set by whoever lays it out and a small
// style record for visibility and hit-testing.
package layout

import (
	"errors"
	"sync/atomic"
)

// ErrHierarchy is returned when an append would create a cycle.
var ErrHierarchy = errors.New("layout: element cannot contain its ancestor")

// Position values for Style.Position.
const (
	PositionStatic   = "static"
	PositionAbsolute = "absolute"
)

// Style holds the presentational attributes the dock relies on.
type Style struct {
	Position       string
	Top, Left      int
	Hidden         bool
	OverflowHidden bool
	// NoPointerEvents stops the element from receiving pointer and scroll input.
	NoPointerEvents bool
}

var nextElementID atomic.Uint64

// Element is a node in the layout tree.
type Element struct {
	Class string
	Style Style

	id       uint64
	parent   *Element
	children []*Element
	width    int
	height   int
}

// NewElement creates a detached element.
func NewElement(class string) *Element {
	return &Element{
		Class: class,
		Style: Style{Position: PositionStatic},
		id:    nextElementID.Add(1),
	}
}

// ID returns a process-unique element number.
func (e *Element) ID() uint64 { return e.id }

// Parent returns the containing element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) error {
	if child == nil {
		return nil
	}
	if child == e || child.Contains(e) {
		return ErrHierarchy
	}
	child.Remove()
	child.parent = e
	e.children = append(e.children, child)
	return nil
}

// RemoveChild detaches child if it is a direct child of e.
func (e *Element) RemoveChild(child *Element) bool {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor.
func (e *Element) Root() *Element {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// SetSize sets the laid-out size in pixels.
func (e *Element) SetSize(width, height int) {
	e.width, e.height = max(width, 0), max(height, 0)
}

// Size returns the laid-out size in pixels.
func (e *Element) Size() (width, height int) {
	return e.width, e.height
}

// Visible reports whether neither e nor any ancestor is hidden.
func (e *Element) Visible() bool {
	for n := e; n != nil; n = n.parent {
		if n.Style.Hidden {
			return false
		}
	}
	return true
}
