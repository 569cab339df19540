package common

import "github.com/go-gl/mathgl/mgl32"

// NormalizePointer converts a cursor position in window coordinates into normalized device coordinates.
// The left edge maps to x = -1, the right edge to x = 1, the top edge to y = 1 and the bottom edge to y = -1.
// A zero-sized viewport yields the origin.
//
// Parameters:
//   - x, y: cursor position relative to the top-left corner of the viewport
//   - width, height: viewport size
//
// Returns:
//   - mgl32.Vec2: the pointer in normalized device coordinates
func NormalizePointer(x, y float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(x/float64(width)*2 - 1),
		float32(-(y/float64(height))*2 + 1),
	}
}
