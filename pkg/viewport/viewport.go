// Package viewport maps detection geometry from content-native pixel space
// into the aspect-fit display space of a containing view.
package viewport

import "github.com/dkosev/vision-overlay/pkg/types"

// Size is a width/height pair in a single coordinate space
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// SizeOf returns the size of a rectangle's extent
func SizeOf(w, h int) Size {
	return Size{W: float64(w), H: float64(h)}
}

// Transform maps points from content-native space into display space
// using a single uniform scale followed by a translation.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// Identity returns the no-op transform
func Identity() Transform {
	return Transform{Scale: 1}
}

// IsIdentity reports whether the transform leaves coordinates unchanged
func (t Transform) IsIdentity() bool {
	return t.Scale == 1 && t.TranslateX == 0 && t.TranslateY == 0
}

// Point maps a content-native point into display space
func (t Transform) Point(p types.Point) types.Point {
	return types.Point{
		X: p.X*t.Scale + t.TranslateX,
		Y: p.Y*t.Scale + t.TranslateY,
	}
}

// Rect maps a content-native rectangle into display space
func (t Transform) Rect(r types.Rect) types.Rect {
	return types.Rect{
		X: r.X*t.Scale + t.TranslateX,
		Y: r.Y*t.Scale + t.TranslateY,
		W: r.W * t.Scale,
		H: r.H * t.Scale,
	}
}

// ComputeTransform returns the transform that places content inside
// container using aspect-fit scaling: the content is scaled uniformly by
// its constraining axis so it fits entirely inside the container, then
// centered, leaving letterbox or pillarbox bands on the free axis.
//
// A container or content with zero or negative extent yields the identity
// transform. Layout data can arrive before a view has been sized, and a
// no-op transform lets overlay drawing proceed until it does.
func ComputeTransform(container, content Size) Transform {
	if container.W <= 0 || container.H <= 0 || content.W <= 0 || content.H <= 0 {
		return Identity()
	}

	containerAspect := container.W / container.H
	contentAspect := content.W / content.H

	var scale float64
	if containerAspect > contentAspect {
		// Container is relatively wider: height constrains
		scale = container.H / content.H
	} else {
		scale = container.W / content.W
	}

	scaledW := content.W * scale
	scaledH := content.H * scale

	return Transform{
		Scale:      scale,
		TranslateX: (container.W - scaledW) / 2,
		TranslateY: (container.H - scaledH) / 2,
	}
}
