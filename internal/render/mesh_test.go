package render

import (
	"image/color"
	"math"
	"testing"

	"chosenoffset.com/lightcaster/internal/core/mesh"
	"chosenoffset.com/lightcaster/internal/core/visibility"
)

func square(r float64) visibility.Polygon {
	return visibility.Polygon{
		Points: []visibility.Point{{X: r}, {Y: r}, {X: -r}, {Y: -r}},
		Count:  4,
	}
}

func TestMeshVertices(t *testing.T) {
	m, err := mesh.Triangulate(visibility.Point{}, square(30), 100)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}

	verts := MeshVertices(m, visibility.Point{X: 200, Y: 100}, color.NRGBA{255, 0, 0, 255}, 1, 1)
	if len(verts) != 5 {
		t.Fatalf("Expected 5 vertices, got %d", len(verts))
	}

	center := verts[0]
	if center.DstX != 200 || center.DstY != 100 {
		t.Errorf("Expected center at (200, 100), got (%v, %v)", center.DstX, center.DstY)
	}
	if center.ColorA != 1 || center.ColorR != 1 || center.ColorG != 0 {
		t.Errorf("Expected opaque red center, got %+v", center)
	}

	// Distance 30 over range 100 gives uv distance 0.3, half the band.
	edge := verts[1]
	if edge.DstX != 230 || edge.DstY != 100 {
		t.Errorf("Expected edge vertex at (230, 100), got (%v, %v)", edge.DstX, edge.DstY)
	}
	if math.Abs(float64(edge.ColorA)-0.5) > 1e-6 {
		t.Errorf("Expected edge alpha 0.5, got %v", edge.ColorA)
	}
	if edge.ColorR != edge.ColorA {
		t.Errorf("Expected premultiplied red %v, got %v", edge.ColorA, edge.ColorR)
	}
	if edge.SrcX != 1 || edge.SrcY != 1 {
		t.Errorf("Expected source pixel (1, 1), got (%v, %v)", edge.SrcX, edge.SrcY)
	}
}

func TestFalloff(t *testing.T) {
	tests := []struct {
		uv   float64
		want float32
	}{
		{0.5, 1},
		{0.2, 0.5},
		{0.5 - mesh.FalloffBand, 0},
		{-0.5, 0}, // past the band
		{0.7, 1},  // never brighter than the center
	}
	for _, tt := range tests {
		if got := Falloff(tt.uv); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Falloff(%v): expected %v, got %v", tt.uv, tt.want, got)
		}
	}
}
