// Package geom holds the pure geometry computations of the window manager:
// constraint solving for resize requests, anchor-corner math and gravity
// offsets. Nothing in here touches the X connection.
package geom

import "github.com/jezek/xgb/xproto"

type Point struct {
	X int
	Y int
}

type Size struct {
	W int
	H int
}

type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Strut is the screen-edge margin a window reserves as unusable for other
// window placement.
type Strut struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

func (s Strut) Zero() bool {
	return s == Strut{}
}

// Max returns the per-edge maximum of two struts.
func (s Strut) Max(o Strut) Strut {
	return Strut{
		Left:   max(s.Left, o.Left),
		Right:  max(s.Right, o.Right),
		Top:    max(s.Top, o.Top),
		Bottom: max(s.Bottom, o.Bottom),
	}
}

// Inset shrinks the rectangle by the strut's margins. The result never
// inverts; a strut larger than the rectangle collapses it to zero size.
func (r Rect) Inset(s Strut) Rect {
	r.X += s.Left
	r.Y += s.Top
	r.W = max(r.W-s.Left-s.Right, 0)
	r.H = max(r.H-s.Top-s.Bottom, 0)
	return r
}

// Corner names the anchor corners used when resizing.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Anchor computes the new rectangle for a resize of area to w by h that
// keeps the given corner fixed, moving the opposite corner.
func Anchor(area Rect, anchor Corner, w, h int) Rect {
	x, y := area.X, area.Y
	switch anchor {
	case TopRight:
		x = area.X + area.W - w
	case BottomLeft:
		y = area.Y + area.H - h
	case BottomRight:
		x = area.X + area.W - w
		y = area.Y + area.H - h
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// BorderOffset is the displacement the client's position gains when its own
// border of width bw is removed while managed. Restoring the border on
// unmanage applies the negation. The offset depends on the window's gravity,
// per ICCCM: gravities that reference the right or bottom edge see the border
// twice, centered gravities once.
func BorderOffset(gravity int, bw int) (dx, dy int) {
	switch gravity {
	case xproto.GravityNorthWest, xproto.GravityWest, xproto.GravitySouthWest:
		// left-anchored, x unchanged
	case xproto.GravityNorthEast, xproto.GravityEast, xproto.GravitySouthEast:
		dx = 2 * bw
	default: // north/south/center/static/forget
		dx = bw
	}
	switch gravity {
	case xproto.GravityNorthWest, xproto.GravityNorth, xproto.GravityNorthEast:
		// top-anchored, y unchanged
	case xproto.GravitySouthWest, xproto.GravitySouth, xproto.GravitySouthEast:
		dy = 2 * bw
	default:
		dy = bw
	}
	return dx, dy
}
