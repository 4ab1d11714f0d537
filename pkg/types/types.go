package types

// LabelScore pairs a class label with its normalized confidence in [0,1]
type LabelScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Point is a location in content-native (source image pixel) coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in content-native coordinates
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center point of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Empty reports whether the rectangle has no positive extent
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// TextLine is a single recognized line of text with its bounding frame
type TextLine struct {
	Text  string `json:"text"`
	Frame Rect   `json:"frame"`
}

// TextBlock is a recognized paragraph-level block of text
type TextBlock struct {
	Text  string     `json:"text"`
	Frame Rect       `json:"frame"`
	Lines []TextLine `json:"lines,omitempty"`
}

// TextResult contains the complete output of a text recognition pass
type TextResult struct {
	Blocks   []TextBlock `json:"blocks"`
	FullText string      `json:"full_text"`
}

// Contour is a named sequence of points tracing a facial feature
type Contour struct {
	Kind   string  `json:"kind"`
	Points []Point `json:"points"`
}

// Face is a detected face with its bounding frame and feature contours
type Face struct {
	Frame    Rect      `json:"frame"`
	Contours []Contour `json:"contours,omitempty"`
}
