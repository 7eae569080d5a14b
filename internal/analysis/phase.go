package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/testparticle/internal/dynamo"
)

// Point is one projected sample.
type Point struct{ X, Y float64 }

// Plane names the two position components drawn on the horizontal and
// vertical axes.
type Plane struct {
	H, V int
}

var axisNames = [3]string{"x", "y", "z"}

var PlaneXY = Plane{H: 0, V: 1}

func (p Plane) String() string { return axisNames[p.H] + axisNames[p.V] }

func (p Plane) Labels() (string, string) { return axisNames[p.H], axisNames[p.V] }

// ParsePlane accepts "xy"-style names or digit pairs such as "13".
func ParsePlane(s string) (Plane, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Plane{}, fmt.Errorf("analysis: invalid plane %q", s)
	}
	axis := func(c byte) int {
		switch c {
		case 'x', '1':
			return 0
		case 'y', '2':
			return 1
		case 'z', '3':
			return 2
		}
		return -1
	}
	h, v := axis(s[0]), axis(s[1])
	if h < 0 || v < 0 || h == v {
		return Plane{}, fmt.Errorf("analysis: invalid plane %q", s)
	}
	return Plane{H: h, V: v}, nil
}

func component(s dynamo.State, i int) float64 {
	switch i {
	case 0:
		return s.Position.X
	case 1:
		return s.Position.Y
	default:
		return s.Position.Z
	}
}

// Project returns the orbit as seen in plane.
func Project(tr *dynamo.Trajectory, plane Plane) []Point {
	pts := make([]Point, tr.Len())
	for i := range pts {
		s := tr.State(i)
		pts[i] = Point{X: component(s, plane.H), Y: component(s, plane.V)}
	}
	return pts
}

// Bounds returns the extent of pts padded by 10% on each side.
func Bounds(pts []Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

// PortraitASCII renders pts on a width x height character grid, drawing
// the axes where they cross the visible area.
func PortraitASCII(pts []Point, width, height int) string {
	if len(pts) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := Bounds(pts)
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range pts {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
