package render

// Device abstracts the drawing API the orchestrator issues calls against.
// Rasterization fidelity belongs to the backend; the core only guarantees
// call order.
type Device interface {
	// Clear clears the color and depth buffers.
	Clear()
	// SetViewport applies the viewport and scissor rectangle, in pixels.
	SetViewport(width, height int)
	// DrawTriangles issues one draw call over the given vertex range.
	DrawTriangles(first, count int)
}
