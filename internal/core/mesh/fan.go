// Package mesh turns a visibility polygon into a triangle fan anchored at the
// light's center, with radial falloff encoded in the texture coordinates.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/lightcaster/internal/core/visibility"
)

// FalloffBand is the largest UV distance from the center that still lies
// inside the intended soft-edge band.
const FalloffBand = 0.6

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = math.MaxUint16 + 1

var (
	// ErrDegenerate is returned when the polygon has fewer than three points
	// and so encloses no visible region.
	ErrDegenerate = errors.New("no visible region")

	// ErrInvalidUVRange is returned for a non-positive UV range.
	ErrInvalidUVRange = errors.New("invalid uv range")

	// ErrTooManyVertices is returned when the fan would overflow 16-bit indices.
	ErrTooManyVertices = errors.New("too many vertices for 16-bit indices")
)

// Point is a 2D position in scene space.
type Point = visibility.Point

// Mesh is a triangulated visibility disc. Vertices are relative to the
// center; vertex 0 is the center itself.
type Mesh struct {
	Vertices []Point
	Indices  []uint16
	UVs      []Point
	Normals  []mgl64.Vec3

	// OutOfBand lists vertices whose UV distance exceeded FalloffBand. Their
	// UVs are left unclamped.
	OutOfBand []int
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Triangulate builds a fan mesh from poly around center. UV distance is the
// vertex distance divided by uvRange.
func Triangulate(center Point, poly visibility.Polygon, uvRange float64) (*Mesh, error) {
	if !(uvRange > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUVRange, uvRange)
	}
	if poly.Degenerate() {
		return nil, fmt.Errorf("%w: polygon has %d points", ErrDegenerate, poly.Count)
	}
	count := poly.Count
	if count+1 > MaxVertices {
		return nil, fmt.Errorf("%w: %d", ErrTooManyVertices, count+1)
	}

	m := &Mesh{
		Vertices: make([]Point, count+1),
		UVs:      make([]Point, count+1),
		Indices:  make([]uint16, 0, 3*count),
	}
	m.UVs[0] = Point{X: 0.5, Y: 0.5}

	for i := 0; i < count; i++ {
		v := poly.Points[i].Sub(center)
		m.Vertices[i+1] = v

		dist := v.Length() / uvRange
		if dist > FalloffBand {
			m.OutOfBand = append(m.OutOfBand, i+1)
		}
		m.UVs[i+1] = Point{X: 0.5 - dist, Y: 0.5 - dist}
	}

	for i := 0; i < count-1; i++ {
		m.Indices = append(m.Indices, 0, uint16(i+1), uint16(i+2))
	}
	// Close the fan back onto the first boundary vertex.
	m.Indices = append(m.Indices, 0, uint16(count), 1)

	m.RecalculateNormals()
	return m, nil
}

// RecalculateNormals recomputes per-vertex normals from the triangle winding.
// Face normals are area weighted and averaged at shared vertices.
func (m *Mesh) RecalculateNormals() {
	acc := make([]mgl64.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := lift(m.Vertices[a]), lift(m.Vertices[b]), lift(m.Vertices[c])

		face := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}

	for i, n := range acc {
		if n.Len() > 0 {
			acc[i] = n.Normalize()
		}
	}
	m.Normals = acc
}

func lift(p Point) mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, 0}
}
