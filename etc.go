// Copyright 2026 The Druid Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package druid

import (
	"modernc.org/interval"
	"modernc.org/mathutil"
)

// Position represents 2D coordinates.
type Position struct {
	X, Y int
}

// In returns whether p is inside r.
func (p Position) In(r Rectangle) bool { return r.Has(p) }

// Size represents 2D dimensions.
type Size struct {
	Width, Height int
}

func newSize(w, h int) Size { return Size{w, h} }

// IsZero returns whether s.Width or s.Height is zero.
func (s *Size) IsZero() bool { return s.Width <= 0 || s.Height <= 0 }

// Rectangle represents a 2D area.
type Rectangle struct {
	Position
	Size
}

// NewRectangle returns a Rectangle from 4 coordinates.
func NewRectangle(x1, y1, x2, y2 int) Rectangle {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rectangle{Position{x1, y1}, Size{x2 - x1 + 1, y2 - y1 + 1}}
}

// Clip sets r to the intersection of r and s and returns a boolean value
// indicating whether the result is of non zero size.
func (r *Rectangle) Clip(s Rectangle) bool {
	a := interval.Int{Cls: interval.LeftClosed, A: r.X, B: r.X + r.Width}
	b := interval.Int{Cls: interval.LeftClosed, A: s.X, B: s.X + s.Width}
	h0 := interval.Intersection(&a, &b)
	if h0.Class() == interval.Empty {
		return false
	}

	a = interval.Int{Cls: interval.LeftClosed, A: r.Y, B: r.Y + r.Height}
	b = interval.Int{Cls: interval.LeftClosed, A: s.Y, B: s.Y + s.Height}
	v0 := interval.Intersection(&a, &b)
	if v0.Class() == interval.Empty {
		return false
	}

	h := h0.(*interval.Int)
	v := v0.(*interval.Int)
	var y Rectangle
	y.X = h.A
	y.Y = v.A
	y.Width = h.B - h.A
	y.Height = v.B - v.A
	*r = y
	return true
}

func (r *Rectangle) join(s Rectangle) {
	if s.IsZero() {
		return
	}

	if r.IsZero() {
		*r = s
		return
	}

	x := mathutil.Min(r.X, s.X)
	y := mathutil.Min(r.Y, s.Y)
	r.Width = mathutil.Max(r.X+r.Width, s.X+s.Width) - x
	r.Height = mathutil.Max(r.Y+r.Height, s.Y+s.Height) - y
	r.X = x
	r.Y = y
}

// Has returns whether r contains p.
func (r Rectangle) Has(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

func (r *Rectangle) contains(s Rectangle) bool {
	return s.X >= r.X && s.X+s.Width <= r.X+r.Width &&
		s.Y >= r.Y && s.Y+s.Height <= r.Y+r.Height
}

// Region is a set of rectangles requiring repaint. An empty Region stands
// for the whole target area: a paint callback receiving one is expected to
// redraw everything.
//
// The zero value is an empty Region ready for use.
type Region struct {
	rects []Rectangle
}

// Add adds area to the region. Zero sized areas and areas already covered by
// a previously added rectangle are dropped.
func (g *Region) Add(area Rectangle) {
	if area.IsZero() {
		return
	}

	for i := range g.rects {
		if g.rects[i].contains(area) {
			return
		}
	}
	g.rects = append(g.rects, area)
}

// Clear empties the region.
func (g *Region) Clear() { g.rects = g.rects[:0] }

// IsEmpty returns whether the region contains no rectangles.
func (g *Region) IsEmpty() bool { return len(g.rects) == 0 }

// Rects returns the rectangles the region consists of. The returned slice is
// owned by the region and valid only until the next mutation.
func (g *Region) Rects() []Rectangle { return g.rects }

// BoundingBox returns the smallest rectangle covering the whole region. The
// result is the zero Rectangle if the region is empty.
func (g *Region) BoundingBox() (r Rectangle) {
	for _, s := range g.rects {
		r.join(s)
	}
	return r
}

// Intersects returns whether any rectangle of the region intersects area.
func (g *Region) Intersects(area Rectangle) bool {
	for _, s := range g.rects {
		if r := s; r.Clip(area) {
			return true
		}
	}
	return false
}
