package render

import "github.com/go-gl/mathgl/mgl32"

// ScreenProjection returns the orthographic projection used by every render
// pass: origin at the top-left corner of the screen, fixed 0..1 depth range.
func ScreenProjection(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), 0, float32(height), 0, 1)
}

// Translation returns a model-view matrix translated by (x, y) pixels.
func Translation(x, y float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, 0)
}
