// Package geometry implements hit-testing for the shape union. All
// functions are pure and screen-independent: erase and select/move on the
// client both dispatch through HitTest.
package geometry

import (
	"math"
	"strings"

	"github.com/iudanet/drawboard/internal/models"
)

// SegmentTolerance is the pick distance, in pixels, for zero-width
// primitives (line, arrow).
const SegmentTolerance = 5.0

// degenerateArea is the squared-area floor below which a triangle is
// treated as collinear and never hit.
const degenerateArea = 1e-9

// Point is a position in canvas coordinates.
type Point struct {
	X float64
	Y float64
}

// TextMeasurer reports the rendered bounding box of a text block. The
// rendering layer owns glyph metrics; geometry only consumes the result.
type TextMeasurer interface {
	Measure(content string) (width, height float64)
}

// FixedMeasurer approximates text bounds without a rasterizer: a constant
// glyph advance per rune and a fixed line height per line. Matches the
// 16px/18px font the canvas renders with closely enough for picking.
type FixedMeasurer struct {
	GlyphWidth float64
	LineHeight float64
}

// DefaultMeasurer is the measurer used when the consumer supplies none.
var DefaultMeasurer = FixedMeasurer{GlyphWidth: 9, LineHeight: 18}

func (m FixedMeasurer) Measure(content string) (float64, float64) {
	lines := strings.Split(content, "\n")
	longest := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > longest {
			longest = n
		}
	}
	return float64(longest) * m.GlyphWidth, float64(len(lines)) * m.LineHeight
}

// HitTest reports whether p falls on the shape. Boundary points count as
// hits for area primitives; line-like primitives hit within
// SegmentTolerance of the segment. A nil measurer falls back to
// DefaultMeasurer.
func HitTest(p Point, s models.Shape, m TextMeasurer) bool {
	if m == nil {
		m = DefaultMeasurer
	}

	switch v := s.(type) {
	case models.Rect:
		return hitRect(p, v)
	case models.Circle:
		return hitCircle(p, v)
	case models.Line:
		return hitSegment(p, v.X1, v.Y1, v.X2, v.Y2)
	case models.Arrow:
		return hitSegment(p, v.X1, v.Y1, v.X2, v.Y2)
	case models.Ellipse:
		return hitEllipse(p, v)
	case models.Triangle:
		return hitTriangle(p, v)
	case models.Text:
		return hitText(p, v, m)
	default:
		return false
	}
}

// Translate returns a copy of the shape shifted by (dx, dy). Used by the
// drag/move gesture to preview and commit a moved shape.
func Translate(s models.Shape, dx, dy float64) models.Shape {
	switch v := s.(type) {
	case models.Rect:
		v.X += dx
		v.Y += dy
		return v
	case models.Circle:
		v.CenterX += dx
		v.CenterY += dy
		return v
	case models.Line:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		return v
	case models.Arrow:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		return v
	case models.Ellipse:
		v.CenterX += dx
		v.CenterY += dy
		return v
	case models.Triangle:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		v.X3 += dx
		v.Y3 += dy
		return v
	case models.Text:
		v.X += dx
		v.Y += dy
		return v
	default:
		return s
	}
}

// hitRect: closed bounds test, edges inclusive. Width/height may be
// negative when the gesture was dragged up-left; normalize first.
func hitRect(p Point, r models.Rect) bool {
	x1, x2 := ordered(r.X, r.X+r.Width)
	y1, y2 := ordered(r.Y, r.Y+r.Height)
	return p.X >= x1 && p.X <= x2 && p.Y >= y1 && p.Y <= y2
}

func hitCircle(p Point, c models.Circle) bool {
	if c.Radius < 0 {
		return false
	}
	dx := p.X - c.CenterX
	dy := p.Y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// hitEllipse: normalized-coordinate quadratic (x/rx)^2 + (y/ry)^2 <= 1.
// Zero radii would divide by zero; such an ellipse has no area and is
// never hit.
func hitEllipse(p Point, e models.Ellipse) bool {
	if e.RadiusX <= 0 || e.RadiusY <= 0 {
		return false
	}
	nx := (p.X - e.CenterX) / e.RadiusX
	ny := (p.Y - e.CenterY) / e.RadiusY
	return nx*nx+ny*ny <= 1
}

// hitSegment: perpendicular distance from p to the segment, clamped to
// the endpoints, compared against SegmentTolerance.
func hitSegment(p Point, x1, y1, x2, y2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	lengthSq := dx*dx + dy*dy

	var t float64
	if lengthSq > 0 {
		t = ((p.X-x1)*dx + (p.Y-y1)*dy) / lengthSq
		t = math.Max(0, math.Min(1, t))
	}

	cx := x1 + t*dx
	cy := y1 + t*dy
	distSq := (p.X-cx)*(p.X-cx) + (p.Y-cy)*(p.Y-cy)
	return distSq <= SegmentTolerance*SegmentTolerance
}

// hitTriangle: barycentric sign test. All three cross products sharing a
// sign (or lying on an edge) means inside. Collinear vertices make the
// signed area vanish and the test unstable, so degenerate triangles never
// report a hit.
func hitTriangle(p Point, t models.Triangle) bool {
	area := (t.X2-t.X1)*(t.Y3-t.Y1) - (t.X3-t.X1)*(t.Y2-t.Y1)
	if area*area < degenerateArea {
		return false
	}

	d1 := cross(p.X, p.Y, t.X1, t.Y1, t.X2, t.Y2)
	d2 := cross(p.X, p.Y, t.X2, t.Y2, t.X3, t.Y3)
	d3 := cross(p.X, p.Y, t.X3, t.Y3, t.X1, t.Y1)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func hitText(p Point, t models.Text, m TextMeasurer) bool {
	w, h := m.Measure(t.Content)
	return p.X >= t.X && p.X <= t.X+w && p.Y >= t.Y && p.Y <= t.Y+h
}

func cross(px, py, ax, ay, bx, by float64) float64 {
	return (px-ax)*(by-ay) - (bx-ax)*(py-ay)
}

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
