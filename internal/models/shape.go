package models

import (
	"encoding/json"
	"fmt"
)

// ShapeKind identifies one of the closed set of drawable primitives.
type ShapeKind string

const (
	ShapeRect     ShapeKind = "rect"
	ShapeCircle   ShapeKind = "circle"
	ShapeLine     ShapeKind = "line"
	ShapeEllipse  ShapeKind = "ellipse"
	ShapeTriangle ShapeKind = "triangle"
	ShapeArrow    ShapeKind = "arrow"
	ShapeText     ShapeKind = "text"
)

// Shape is the closed union over the seven drawable primitives.
// Shapes carry no intrinsic identity: identity is assigned by the
// persisted event that created them.
type Shape interface {
	Kind() ShapeKind
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Rect) Kind() ShapeKind { return ShapeRect }

// Circle is a circle given by center and radius.
type Circle struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

func (Circle) Kind() ShapeKind { return ShapeCircle }

// Line is a segment between two endpoints.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (Line) Kind() ShapeKind { return ShapeLine }

// Arrow is a directed segment; geometry-wise it behaves like Line,
// the head is a rendering concern.
type Arrow struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (Arrow) Kind() ShapeKind { return ShapeArrow }

// Ellipse is an axis-aligned ellipse given by center and the two radii.
type Ellipse struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	RadiusX float64 `json:"radiusX"`
	RadiusY float64 `json:"radiusY"`
}

func (Ellipse) Kind() ShapeKind { return ShapeEllipse }

// Triangle is given by its three vertices.
type Triangle struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	X3 float64 `json:"x3"`
	Y3 float64 `json:"y3"`
}

func (Triangle) Kind() ShapeKind { return ShapeTriangle }

// Text is a text block anchored at its top-left corner. Its bounding box
// depends on rendered glyph metrics, so hit-testing needs a measurer.
type Text struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"text"`
}

func (Text) Kind() ShapeKind { return ShapeText }

// MarshalShape serializes a shape to its wire form: the concrete fields
// plus a "type" discriminator.
func MarshalShape(s Shape) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot marshal nil shape")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shape fields: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to reshape fields: %w", err)
	}
	fields["type"] = s.Kind()

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shape envelope: %w", err)
	}
	return out, nil
}

// UnmarshalShape parses the wire form back into a concrete shape.
// Unknown or missing "type" tags are an error; the caller decides whether
// that aborts anything (during replay it must not).
func UnmarshalShape(data []byte) (Shape, error) {
	var envelope struct {
		Type ShapeKind `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse shape envelope: %w", err)
	}

	switch envelope.Type {
	case ShapeRect:
		return unmarshalAs[Rect](data)
	case ShapeCircle:
		return unmarshalAs[Circle](data)
	case ShapeLine:
		return unmarshalAs[Line](data)
	case ShapeArrow:
		return unmarshalAs[Arrow](data)
	case ShapeEllipse:
		return unmarshalAs[Ellipse](data)
	case ShapeTriangle:
		return unmarshalAs[Triangle](data)
	case ShapeText:
		return unmarshalAs[Text](data)
	case "":
		return nil, fmt.Errorf("shape payload has no type tag")
	default:
		return nil, fmt.Errorf("unknown shape type %q", envelope.Type)
	}
}

func unmarshalAs[T Shape](data []byte) (Shape, error) {
	var s T
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s shape: %w", s.Kind(), err)
	}
	return s, nil
}
