package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/planetsim/internal/experiment"
	"github.com/san-kum/planetsim/internal/sim"
)

const (
	background = "#0a0a0a"
	padding    = 0.1
	minDot     = 1.5
)

// bounds is the square region of the XY plane mapped onto the image.
type bounds struct {
	minX, minY, span float64
}

func fit(frames []experiment.Frame) bounds {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range frames {
		for _, b := range f.Bodies {
			minX = min(minX, b.Position.X-b.Radius)
			maxX = max(maxX, b.Position.X+b.Radius)
			minY = min(minY, b.Position.Y-b.Radius)
			maxY = max(maxY, b.Position.Y+b.Radius)
		}
	}
	if math.IsInf(minX, 1) {
		return bounds{minX: -1, minY: -1, span: 2}
	}

	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := span * padding
	return bounds{minX: minX - pad, minY: minY - pad, span: span + 2*pad}
}

// project maps a world point to pixel space with y pointing up.
func (b bounds) project(x, y float64, size int) (float64, float64) {
	s := float64(size) / b.span
	return (x - b.minX) * s, float64(size) - (y-b.minY)*s
}

func (b bounds) scale(r float64, size int) float64 {
	return max(r*float64(size)/b.span, minDot)
}

func header(sb *strings.Builder, size int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background)
}

func circles(sb *strings.Builder, b bounds, views []sim.BodyView, size int) {
	for _, v := range views {
		cx, cy := b.project(v.Position.X, v.Position.Y, size)
		fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, b.scale(v.Radius, size), v.Color.Hex())
	}
}

// SnapshotSVG draws one snapshot projected onto the XY plane, each body as a
// disc of its own radius and colour.
func SnapshotSVG(views []sim.BodyView, size int) string {
	b := fit([]experiment.Frame{{Bodies: views}})

	var sb strings.Builder
	header(&sb, size)
	circles(&sb, b, views, size)
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the path of every body across the recorded frames and
// the bodies at their final positions.
func TrajectoryToSVG(frames []experiment.Frame, size int) string {
	var sb strings.Builder
	header(&sb, size)
	if len(frames) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	b := fit(frames)
	last := frames[len(frames)-1].Bodies

	for i, v := range last {
		var path strings.Builder
		for _, f := range frames {
			if i >= len(f.Bodies) {
				continue
			}
			x, y := b.project(f.Bodies[i].Position.X, f.Bodies[i].Position.Y, size)
			if path.Len() == 0 {
				fmt.Fprintf(&path, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&path, " L%.1f,%.1f", x, y)
			}
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" d="%s"/>
`, v.Color.Hex(), path.String())
	}

	circles(&sb, b, last, size)
	sb.WriteString("</svg>")
	return sb.String()
}
