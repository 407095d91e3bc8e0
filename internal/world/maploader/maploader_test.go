package maploader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/lightcaster/internal/core/shadows"
)

const roomJSON = `{
	"name": "test_room",
	"width": 5,
	"height": 4,
	"tile_size": 10,
	"player_spawn": {"x": 25, "y": 20},
	"legend": {
		".": {"name": "floor", "properties": {"blocks_sight": false}},
		"#": {"name": "wall", "properties": {"blocks_sight": true, "color": "ff0000"}}
	},
	"tiles": [
		"#####",
		"#...#",
		"#...#",
		"#####"
	],
	"circles": [{"x": 25, "y": 20, "radius": 3}],
	"lights": [{"x": 15, "y": 15, "color": "ffffff"}]
}`

func TestParseMap(t *testing.T) {
	m, err := ParseMap([]byte(roomJSON))
	if err != nil {
		t.Fatalf("Failed to parse map: %v", err)
	}

	if m.Data.Name != "test_room" {
		t.Errorf("Expected name 'test_room', got '%s'", m.Data.Name)
	}
	if w, h := m.Size(); w != 5 || h != 4 {
		t.Errorf("Expected size 5x4, got %dx%d", w, h)
	}
	if w, h := m.Bounds(); w != 50 || h != 40 {
		t.Errorf("Expected bounds 50x40, got %vx%v", w, h)
	}
	if m.Data.PlayerSpawn.X != 25 || m.Data.PlayerSpawn.Y != 20 {
		t.Errorf("Expected spawn (25, 20), got (%v, %v)", m.Data.PlayerSpawn.X, m.Data.PlayerSpawn.Y)
	}
	if len(m.Data.Lights) != 1 {
		t.Errorf("Expected 1 light, got %d", len(m.Data.Lights))
	}
}

func TestBlocksSight(t *testing.T) {
	m, err := ParseMap([]byte(roomJSON))
	if err != nil {
		t.Fatalf("Failed to parse map: %v", err)
	}

	if !m.BlocksSight(0, 0) {
		t.Error("Expected wall tile to block sight")
	}
	if m.BlocksSight(1, 1) {
		t.Error("Expected floor tile to not block sight")
	}
	if m.BlocksSight(-1, 0) || m.BlocksSight(5, 0) {
		t.Error("Expected out-of-bounds tiles to not block sight")
	}

	tile, err := m.GetTileDefAt(0, 0)
	if err != nil {
		t.Fatalf("GetTileDefAt failed: %v", err)
	}
	if color := tile.GetTilePropertyString("color", ""); color != "ff0000" {
		t.Errorf("Expected color 'ff0000', got '%s'", color)
	}
}

func TestScene(t *testing.T) {
	m, err := ParseMap([]byte(roomJSON))
	if err != nil {
		t.Fatalf("Failed to parse map: %v", err)
	}

	scene := m.Scene()
	// The wall ring has an outer and an inner outline of four edges each.
	if len(scene.Segments) != 8 {
		t.Errorf("Expected 8 wall segments, got %d", len(scene.Segments))
	}
	if len(scene.Circles) != 1 || scene.Circles[0].Radius != 3 {
		t.Errorf("Expected one circle of radius 3, got %+v", scene.Circles)
	}

	res := scene.CastRay(shadows.Point{X: 15, Y: 15}, shadows.Point{X: -1}, 100)
	if !res.Hit || res.Point != (shadows.Point{X: 10, Y: 15}) {
		t.Errorf("Expected hit on the inner west wall at (10, 15), got %+v", res)
	}
	if res.Normal != (shadows.Point{X: 1, Y: 0}) {
		t.Errorf("Expected normal (1, 0), got %v", res.Normal)
	}
}

func TestParseMapValidation(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"bad json", `{`, "failed to parse map"},
		{"zero size", `{"width": 0, "height": 1, "tile_size": 1, "tiles": ["."]}`, "invalid map dimensions"},
		{"zero tile size", `{"width": 1, "height": 1, "tile_size": 0, "tiles": ["."]}`, "invalid tile size"},
		{"height mismatch", `{"width": 1, "height": 2, "tile_size": 1, "tiles": ["."]}`, "height mismatch"},
		{"width mismatch", `{"width": 2, "height": 1, "tile_size": 1, "tiles": ["."]}`, "width mismatch"},
		{"legend key", `{"width": 1, "height": 1, "tile_size": 1, "tiles": ["."], "legend": {"ab": {}}}`, "single character"},
		{"circle radius", `{"width": 1, "height": 1, "tile_size": 1, "tiles": ["."], "circles": [{"radius": 0}]}`, "invalid radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap([]byte(tt.json))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.json")
	if err := os.WriteFile(path, []byte(roomJSON), 0o644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}

	m, err := LoadMap(path)
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if m.Data.TileSize != 10 {
		t.Errorf("Expected tile size 10, got %d", m.Data.TileSize)
	}

	if _, err := LoadMap(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing map file")
	}
}

func TestLoadBundledScene(t *testing.T) {
	m, err := LoadMap(filepath.Join("..", "..", "..", "data", "scenes", "pillars.json"))
	if err != nil {
		t.Fatalf("Failed to load bundled scene: %v", err)
	}
	scene := m.Scene()
	if len(scene.Segments) == 0 || len(scene.Circles) != 2 {
		t.Errorf("Expected walls and 2 circles, got %d segments and %d circles", len(scene.Segments), len(scene.Circles))
	}
}
