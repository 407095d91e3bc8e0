package mesh

import (
	"errors"
	"math"
	"testing"

	"chosenoffset.com/lightcaster/internal/core/visibility"
)

func squarePolygon(center Point, half float64) visibility.Polygon {
	pts := []Point{
		{X: center.X + half, Y: center.Y},
		{X: center.X, Y: center.Y + half},
		{X: center.X - half, Y: center.Y},
		{X: center.X, Y: center.Y - half},
	}
	return visibility.Polygon{Points: pts, Count: len(pts)}
}

func TestTriangulateFan(t *testing.T) {
	center := Point{X: 100, Y: 50}
	m, err := Triangulate(center, squarePolygon(center, 10), 30)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}

	if len(m.Vertices) != 5 {
		t.Fatalf("Expected 5 vertices, got %d", len(m.Vertices))
	}
	if m.Vertices[0] != (Point{}) {
		t.Errorf("Expected vertex 0 at local origin, got %v", m.Vertices[0])
	}
	if m.Vertices[1] != (Point{X: 10}) {
		t.Errorf("Expected vertex 1 at (10, 0), got %v", m.Vertices[1])
	}

	expected := []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 1}
	if len(m.Indices) != len(expected) {
		t.Fatalf("Expected %d indices, got %d", len(expected), len(m.Indices))
	}
	for i := range expected {
		if m.Indices[i] != expected[i] {
			t.Errorf("Expected index %d to be %d, got %d", i, expected[i], m.Indices[i])
		}
	}
	if m.Triangles() != 4 {
		t.Errorf("Expected 4 triangles, got %d", m.Triangles())
	}
}

func TestTriangulateUVs(t *testing.T) {
	m, err := Triangulate(Point{}, squarePolygon(Point{}, 15), 30)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}

	if m.UVs[0] != (Point{X: 0.5, Y: 0.5}) {
		t.Errorf("Expected center UV (0.5, 0.5), got %v", m.UVs[0])
	}
	for i := 1; i < len(m.UVs); i++ {
		if math.Abs(m.UVs[i].X-0) > 1e-12 || math.Abs(m.UVs[i].Y-0) > 1e-12 {
			t.Errorf("Expected UV %d at (0, 0), got %v", i, m.UVs[i])
		}
	}
	if len(m.OutOfBand) != 0 {
		t.Errorf("Expected no out-of-band vertices, got %v", m.OutOfBand)
	}
}

func TestTriangulateFlagsOutOfBand(t *testing.T) {
	pts := []Point{{X: 10}, {Y: 25}, {X: -10}}
	poly := visibility.Polygon{Points: pts, Count: 3}

	m, err := Triangulate(Point{}, poly, 30)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(m.OutOfBand) != 1 || m.OutOfBand[0] != 2 {
		t.Errorf("Expected vertex 2 out of band, got %v", m.OutOfBand)
	}

	// The UV is still produced, unclamped.
	want := 0.5 - 25.0/30.0
	if math.Abs(m.UVs[2].X-want) > 1e-12 {
		t.Errorf("Expected unclamped UV %f, got %f", want, m.UVs[2].X)
	}
}

func TestTriangulateNormals(t *testing.T) {
	m, err := Triangulate(Point{}, squarePolygon(Point{}, 10), 30)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}

	// Counter-clockwise fan in the XY plane faces +Z.
	for i, n := range m.Normals {
		if math.Abs(n.Z()-1) > 1e-12 || math.Abs(n.X()) > 1e-12 || math.Abs(n.Y()) > 1e-12 {
			t.Errorf("Expected normal %d to be (0, 0, 1), got %v", i, n)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	for count := 1; count < 3; count++ {
		pts := make([]Point, count)
		for i := range pts {
			pts[i] = Point{X: float64(i + 1)}
		}
		_, err := Triangulate(Point{}, visibility.Polygon{Points: pts, Count: count}, 30)
		if !errors.Is(err, ErrDegenerate) {
			t.Errorf("Expected ErrDegenerate for %d points, got %v", count, err)
		}
	}
}

func TestTriangulateInvalidUVRange(t *testing.T) {
	_, err := Triangulate(Point{}, squarePolygon(Point{}, 10), 0)
	if !errors.Is(err, ErrInvalidUVRange) {
		t.Errorf("Expected ErrInvalidUVRange, got %v", err)
	}
}

func TestTriangulateTooManyVertices(t *testing.T) {
	pts := make([]Point, MaxVertices)
	_, err := Triangulate(Point{}, visibility.Polygon{Points: pts, Count: len(pts)}, 30)
	if !errors.Is(err, ErrTooManyVertices) {
		t.Errorf("Expected ErrTooManyVertices, got %v", err)
	}
}

func TestSampleTriangulateRoundTrip(t *testing.T) {
	empty := visibility.RayCasterFunc(func(origin, dir Point, maxRange float64) visibility.RayResult {
		return visibility.Miss(origin, dir, maxRange)
	})

	center := Point{X: 7, Y: -3}
	for _, skip := range []int{0, 1, 4} {
		cfg := visibility.Config{RayCount: 48, Range: 10, SkipFactor: skip, IterationCount: 4}
		poly, err := visibility.Sample(center, cfg, empty, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}

		m, err := Triangulate(center, poly, 20)
		if err != nil {
			t.Fatalf("Triangulate failed: %v", err)
		}
		if m.Triangles() != poly.Count {
			t.Errorf("Expected %d triangles, got %d", poly.Count, m.Triangles())
		}
		if m.Vertices[0] != (Point{}) {
			t.Errorf("Expected vertex 0 at local origin, got %v", m.Vertices[0])
		}

		// Circle of radius range: convex, all boundary vertices at distance 10.
		for i := 1; i < len(m.Vertices); i++ {
			if d := m.Vertices[i].Length(); math.Abs(d-10) > 1e-9 {
				t.Errorf("Expected boundary vertex %d at radius 10, got %f", i, d)
			}
		}
		for i := 0; i < m.Triangles(); i++ {
			a := m.Vertices[m.Indices[3*i+1]]
			b := m.Vertices[m.Indices[3*i+2]]
			if cross := a.X*b.Y - a.Y*b.X; cross <= 0 {
				t.Errorf("Expected triangle %d to wind counter-clockwise, cross %f", i, cross)
			}
		}
	}
}

func TestTriangulateNoMeshForCoarseScan(t *testing.T) {
	empty := visibility.RayCasterFunc(func(origin, dir Point, maxRange float64) visibility.RayResult {
		return visibility.Miss(origin, dir, maxRange)
	})
	cfg := visibility.Config{RayCount: 8, Range: 10, SkipFactor: 100, IterationCount: 5}
	poly, err := visibility.Sample(Point{}, cfg, empty, nil)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	if _, err := Triangulate(Point{}, poly, 30); !errors.Is(err, ErrDegenerate) {
		t.Errorf("Expected ErrDegenerate, got %v", err)
	}
}
