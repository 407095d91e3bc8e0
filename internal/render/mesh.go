package render

import (
	"image/color"

	"chosenoffset.com/lightcaster/internal/core/mesh"
)

// MeshVertices converts a light mesh into renderer vertices placed around
// center. Alpha fades from full at the center to zero at the edge of the
// falloff band; vertices past the band are fully transparent. All vertices
// sample the same source pixel at (srcX, srcY).
func MeshVertices(m *mesh.Mesh, center mesh.Point, clr color.NRGBA, srcX, srcY float32) []Vertex {
	vertices := make([]Vertex, len(m.Vertices))
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	b := float32(clr.B) / 255
	a := float32(clr.A) / 255

	for i, v := range m.Vertices {
		alpha := a * Falloff(m.UVs[i].X)
		vertices[i] = Vertex{
			DstX: float32(center.X + v.X),
			DstY: float32(center.Y + v.Y),
			SrcX: srcX,
			SrcY: srcY,
			// Premultiplied
			ColorR: r * alpha,
			ColorG: g * alpha,
			ColorB: b * alpha,
			ColorA: alpha,
		}
	}
	return vertices
}

// Falloff maps a mesh UV coordinate to a brightness in [0, 1].
func Falloff(uv float64) float32 {
	dist := 0.5 - uv
	f := 1 - dist/mesh.FalloffBand
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return float32(f)
}
