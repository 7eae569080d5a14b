package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/testparticle/internal/analysis"
)

// TrajectorySVG draws the projected orbit as a single polyline path with
// start and end markers. Axis labels come from plane.
func TrajectorySVG(points []analysis.Point, plane analysis.Plane, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX, minY, maxY := analysis.Bounds(points)
	rangeX := maxX - minX
	rangeY := maxY - minY

	px := func(p analysis.Point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x, y := px(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	sx, sy := px(points[0])
	ex, ey := px(points[len(points)-1])
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#00ff88"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="#ff4444"/>
`, sx, sy, ex, ey))

	h, v := plane.Labels()
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#888899" font-size="12">%s</text>
<text x="4" y="14" fill="#888899" font-size="12">%s</text>
</svg>`, width-14, height-4, h, v))
	return sb.String()
}
