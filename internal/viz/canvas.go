package viz

import (
	"math"
	"strings"

	"github.com/san-kum/testparticle/internal/analysis"
)

// Braille cell dot layout, offsets from U+2800:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, Width*2 by Height*4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the drawable resolution.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y); out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a Bresenham line. With dash > 0 only the first dash dots
// of every 2*dash are lit.
func (c *Canvas) DrawLine(x0, y0, x1, y1, dash int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for n := 0; ; n++ {
		if dash <= 0 || n%(2*dash) < dash {
			c.Set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas dots, y up.
type Viewport struct {
	minX, maxX, minY, maxY float64
	w, h                   int
}

func NewViewport(pts []analysis.Point, c *Canvas) Viewport {
	pts = finitePoints(pts)
	if len(pts) == 0 {
		pts = []analysis.Point{{}}
	}
	minX, maxX, minY, maxY := analysis.Bounds(pts)
	w, h := c.Dots()
	return Viewport{minX: minX, maxX: maxX, minY: minY, maxY: maxY, w: w, h: h}
}

func (v Viewport) Map(p analysis.Point) (int, int) {
	x := (p.X - v.minX) / (v.maxX - v.minX) * float64(v.w-1)
	y := (v.maxY - p.Y) / (v.maxY - v.minY) * float64(v.h-1)
	return int(x + 0.5), int(y + 0.5)
}

// Polyline joins consecutive points; non-finite points break the line.
func (c *Canvas) Polyline(v Viewport, pts []analysis.Point, dash int) {
	prevOK := false
	var px, py int
	for _, p := range pts {
		if !finite(p) {
			prevOK = false
			continue
		}
		x, y := v.Map(p)
		if prevOK {
			c.DrawLine(px, py, x, y, dash)
		} else {
			c.Set(x, y)
		}
		px, py, prevOK = x, y, true
	}
}

func finite(p analysis.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// finitePoints drops samples that cannot be placed on a canvas.
func finitePoints(pts []analysis.Point) []analysis.Point {
	out := make([]analysis.Point, 0, len(pts))
	for _, p := range pts {
		if finite(p) {
			out = append(out, p)
		}
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
