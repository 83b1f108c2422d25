package video

import "math"

// DefaultBezierSegments is used when a bezier call passes 0 segments
const DefaultBezierSegments = 16

// maxBezierSegments caps guest-supplied segment counts
const maxBezierSegments = 1024

// Limits that keep integer rasterization free of overflow and bound the
// work a single call can cause.
const (
	maxRadius    = 1 << 16
	maxCoord     = 1 << 28
	longLineSpan = 1 << 16
)

// Point plots one pixel
func (f *Framebuffer) Point(x, y int32) {
	f.plot(int(x), int(y))
}

// Line draws a Bresenham line; every pixel is bounds-checked.
func (f *Framebuffer) Line(x0, y0, x1, y1 int32) {
	f.line(int(x0), int(y0), int(x1), int(y1))
}

func (f *Framebuffer) line(x0, y0, x1, y1 int) {
	if abs(x1-x0) > longLineSpan || abs(y1-y0) > longLineSpan {
		var ok bool
		if x0, y0, x1, y1, ok = f.clipLine(x0, y0, x1, y1); !ok {
			return
		}
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		f.plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect fills a rectangle, clipped to the framebuffer
func (f *Framebuffer) Rect(x, y int32, w, h uint32) {
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1 := min(int(x)+int(w), f.Width)
	y1 := min(int(y)+int(h), f.Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for yy := y0; yy < y1; yy++ {
		f.span(yy, x0, x1)
	}
}

// RectOutline draws the four edges from (x, y) to (x+w, y+h)
func (f *Framebuffer) RectOutline(x, y int32, w, h uint32) {
	x0, y0 := int(x), int(y)
	x1, y1 := x0+int(w), y0+int(h)
	f.line(x0, y0, x1, y0)
	f.line(x0, y1, x1, y1)
	f.line(x0, y0, x0, y1)
	f.line(x1, y0, x1, y1)
}

// Circle fills pixels with dx²+dy² <= r² inside [cx-r, cx+r)²
func (f *Framebuffer) Circle(cx, cy int32, r uint32) {
	c, rr := int(cx), int(min(r, maxRadius))
	cyi := int(cy)
	r2 := rr * rr
	y0, y1 := max(cyi-rr, 0), min(cyi+rr, f.Height)
	x0, x1 := max(c-rr, 0), min(c+rr, f.Width)
	for y := y0; y < y1; y++ {
		dy := y - cyi
		for x := x0; x < x1; x++ {
			dx := x - c
			if dx*dx+dy*dy <= r2 {
				f.Pixels[y*f.Width+x] = f.Color
			}
		}
	}
}

// CircleOutline draws a midpoint circle with 8-way symmetry
func (f *Framebuffer) CircleOutline(cx, cy int32, r uint32) {
	c, cyi := int(cx), int(cy)
	r = min(r, maxRadius)
	x, y := 0, int(r)
	d := 3 - 2*int(r)
	for y >= x {
		f.plot(c+x, cyi+y)
		f.plot(c-x, cyi+y)
		f.plot(c+x, cyi-y)
		f.plot(c-x, cyi-y)
		f.plot(c+y, cyi+x)
		f.plot(c-y, cyi+x)
		f.plot(c+y, cyi-x)
		f.plot(c-y, cyi-x)
		x++
		if d > 0 {
			y--
			d += 4*(x-y) + 10
		} else {
			d += 4*x + 6
		}
	}
}

// Triangle fills a triangle. Pixels whose corner lies inside or on an edge
// are painted; the covered set does not depend on vertex winding, and a
// collinear triangle paints nothing.
func (f *Framebuffer) Triangle(x1, y1, x2, y2, x3, y3 int32) {
	ax, ay := clampCoord(x1), clampCoord(y1)
	bx, by := clampCoord(x2), clampCoord(y2)
	cx, cy := clampCoord(x3), clampCoord(y3)

	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 {
		return
	}
	if area < 0 {
		bx, by, cx, cy = cx, cy, bx, by
	}

	minX := max(min(ax, bx, cx), 0)
	maxX := min(max(ax, bx, cx), f.Width-1)
	minY := max(min(ay, by, cy), 0)
	maxY := min(max(ay, by, cy), f.Height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if edge(bx, by, cx, cy, x, y) >= 0 &&
				edge(cx, cy, ax, ay, x, y) >= 0 &&
				edge(ax, ay, bx, by, x, y) >= 0 {
				f.Pixels[y*f.Width+x] = f.Color
			}
		}
	}
}

// TriangleOutline draws the three edges
func (f *Framebuffer) TriangleOutline(x1, y1, x2, y2, x3, y3 int32) {
	f.Line(x1, y1, x2, y2)
	f.Line(x2, y2, x3, y3)
	f.Line(x3, y3, x1, y1)
}

// BezierQuadratic draws a quadratic curve as segments line pieces
func (f *Framebuffer) BezierQuadratic(x1, y1, cx, cy, x2, y2 int32, segments uint32) {
	n := bezierSegments(segments)
	px, py := float64(x1), float64(y1)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		nx := u*u*float64(x1) + 2*u*t*float64(cx) + t*t*float64(x2)
		ny := u*u*float64(y1) + 2*u*t*float64(cy) + t*t*float64(y2)
		f.line(round(px), round(py), round(nx), round(ny))
		px, py = nx, ny
	}
}

// BezierCubic draws a cubic curve as segments line pieces
func (f *Framebuffer) BezierCubic(x1, y1, cx1, cy1, cx2, cy2, x2, y2 int32, segments uint32) {
	n := bezierSegments(segments)
	px, py := float64(x1), float64(y1)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		nx := a*float64(x1) + b*float64(cx1) + c*float64(cx2) + d*float64(x2)
		ny := a*float64(y1) + b*float64(cy1) + c*float64(cy2) + d*float64(y2)
		f.line(round(px), round(py), round(nx), round(ny))
		px, py = nx, ny
	}
}

// Pill fills a rounded rectangle with corner radius min(w, h)/2
func (f *Framebuffer) Pill(x, y int32, w, h uint32) {
	f.eachPill(x, y, w, h, func(px, py int, inside func(int, int) bool) {
		f.Pixels[py*f.Width+px] = f.Color
	})
}

// PillOutline draws the boundary of a rounded rectangle: pixels of the
// filled shape with at least one 4-neighbour outside it.
func (f *Framebuffer) PillOutline(x, y int32, w, h uint32) {
	f.eachPill(x, y, w, h, func(px, py int, inside func(int, int) bool) {
		if !inside(px-1, py) || !inside(px+1, py) || !inside(px, py-1) || !inside(px, py+1) {
			f.Pixels[py*f.Width+px] = f.Color
		}
	})
}

func (f *Framebuffer) eachPill(x, y int32, w, h uint32, fn func(px, py int, inside func(int, int) bool)) {
	if w == 0 || h == 0 {
		return
	}
	left, top := int(x), int(y)
	right, bottom := left+int(w)-1, top+int(h)-1
	r := int(min(w, h)) / 2

	inside := func(px, py int) bool {
		if px < left || px > right || py < top || py > bottom {
			return false
		}
		dx := max(left+r-px, px-(right-r), 0)
		dy := max(top+r-py, py-(bottom-r), 0)
		if dx > r || dy > r {
			return false
		}
		return dx*dx+dy*dy <= r*r
	}

	y0, y1 := max(top, 0), min(bottom, f.Height-1)
	x0, x1 := max(left, 0), min(right, f.Width-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			if inside(px, py) {
				fn(px, py, inside)
			}
		}
	}
}

// clipLine clips a segment to the framebuffer grown by a 2 pixel margin
// (Liang-Barsky). It reports false when nothing remains.
func (f *Framebuffer) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	minX, minY := -2.0, -2.0
	maxX, maxY := float64(f.Width+1), float64(f.Height+1)
	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0
	for _, c := range [4][2]float64{
		{-dx, fx0 - minX},
		{dx, maxX - fx0},
		{-dy, fy0 - minY},
		{dy, maxY - fy0},
	} {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return round(fx0 + t0*dx), round(fy0 + t0*dy), round(fx0 + t1*dx), round(fy0 + t1*dy), true
}

func clampCoord(v int32) int {
	return min(max(int(v), -maxCoord), maxCoord)
}

func bezierSegments(n uint32) int {
	if n == 0 {
		return DefaultBezierSegments
	}
	return int(min(n, maxBezierSegments))
}

// edge is twice the signed area of (a, b, p)
func edge(ax, ay, bx, by, px, py int) int {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
