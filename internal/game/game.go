package game

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"

	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/core/visibility"
	"chosenoffset.com/lightcaster/internal/render"
	"chosenoffset.com/lightcaster/internal/render/lighting"
	"chosenoffset.com/lightcaster/internal/simulation"
	"chosenoffset.com/lightcaster/internal/world/maploader"
)

// ErrQuit is returned from Update when the user asks to close the window.
var ErrQuit = errors.New("quit requested")

// Game holds the demo state: one scene, its lights and the input that moves
// the player light around.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	GameMap      *maploader.Map
	Scene        *shadows.Scene
	Camera       Camera
	Renderer     render.Renderer
	InputMgr     render.InputManager

	LightingManager *lighting.Manager
	WhiteImg        render.Image
	LightTexture    render.Image

	// Speed is how far the player light moves per tick, in pixels
	Speed float64

	// Ambient is the brightness of unlit areas (0.0 = black, 1.0 = fully lit)
	Ambient float64

	// Debug overlay
	ShowTrace bool
	TraceRays []TraceRay

	Messages []Message
}

// New builds a game for the map. The player light starts at the map's spawn
// point; every light placed in the map is added as a static light.
func New(gameMap *maploader.Map, config *simulation.Config, r render.Renderer, input render.InputManager, width, height int) (*Game, error) {
	lights, err := lighting.NewManager(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create lighting manager: %w", err)
	}

	g := &Game{
		ScreenWidth:     width,
		ScreenHeight:    height,
		GameMap:         gameMap,
		Scene:           gameMap.Scene(),
		Renderer:        r,
		InputMgr:        input,
		LightingManager: lights,
		Speed:           3,
		Ambient:         0.12,
		ShowTrace:       lights.Config().Debug.TraceRays,
	}
	lights.Trace = g.recordTrace

	spawn := gameMap.Data.PlayerSpawn
	lights.AddLight(PlayerLightID, spawn.X, spawn.Y, color.NRGBA{255, 236, 200, 255})
	for i, l := range gameMap.Data.Lights {
		id := fmt.Sprintf("static-%d", i)
		lights.AddLight(id, l.X, l.Y, lighting.ParseColor(l.Color, color.NRGBA{255, 200, 100, 255}))
	}

	log.Printf("Scene %q: %d wall segments, %d circles, %d lights",
		gameMap.Data.Name, len(g.Scene.Segments), len(g.Scene.Circles), len(lights.GetAllLights()))
	return g, nil
}

// Update handles input and recomputes the light meshes.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	if g.InputMgr.IsKeyPressed(render.KeyEscape) {
		return ErrQuit
	}

	var dx, dy float64
	if g.InputMgr.IsKeyPressed(render.KeyW) || g.InputMgr.IsKeyPressed(render.KeyUp) {
		dy -= 1
	}
	if g.InputMgr.IsKeyPressed(render.KeyS) || g.InputMgr.IsKeyPressed(render.KeyDown) {
		dy += 1
	}
	if g.InputMgr.IsKeyPressed(render.KeyA) || g.InputMgr.IsKeyPressed(render.KeyLeft) {
		dx -= 1
	}
	if g.InputMgr.IsKeyPressed(render.KeyD) || g.InputMgr.IsKeyPressed(render.KeyRight) {
		dx += 1
	}
	if dx != 0 || dy != 0 {
		g.MovePlayerLight(dx*g.Speed, dy*g.Speed)
	}

	// Toggle ray trace overlay with T key
	if g.InputMgr.IsKeyJustPressed(render.KeyT) {
		g.ShowTrace = !g.ShowTrace
		if g.ShowTrace {
			g.ShowMessage("Ray trace on")
		} else {
			g.ShowMessage("Ray trace off")
		}
	}

	// Toggle player light with L key
	if g.InputMgr.IsKeyJustPressed(render.KeyL) {
		if light, ok := g.LightingManager.GetLight(PlayerLightID); ok {
			light.Enabled = !light.Enabled
			if light.Enabled {
				g.ShowMessage("Light source activated")
			} else {
				g.ShowMessage("Light source deactivated")
			}
		}
	}

	g.UpdateCamera()

	if err := g.updateLights(); err != nil {
		return err
	}
	return nil
}

func (g *Game) updateLights() error {
	previous := g.TraceRays
	g.TraceRays = previous[:0]
	recomputed, err := g.LightingManager.Update(g.Scene)
	if err != nil {
		return fmt.Errorf("failed to update lights: %w", err)
	}
	if !recomputed {
		// Keep the overlay from the last recompute.
		g.TraceRays = previous
	}
	return nil
}

func (g *Game) recordTrace(origin, end visibility.Point) {
	if g.ShowTrace {
		g.TraceRays = append(g.TraceRays, TraceRay{Origin: origin, End: end})
	}
}

// MovePlayerLight moves the player light by (dx, dy), staying inside the map
// and out of sight-blocking tiles. Each axis is tried separately so the
// light slides along walls.
func (g *Game) MovePlayerLight(dx, dy float64) {
	light, ok := g.LightingManager.GetLight(PlayerLightID)
	if !ok {
		return
	}

	if nx := light.X + dx; g.IsOpen(nx, light.Y) {
		light.X = nx
	}
	if ny := light.Y + dy; g.IsOpen(light.X, ny) {
		light.Y = ny
	}
}

// IsOpen reports whether a world position is inside the map and not in a
// sight-blocking tile.
func (g *Game) IsOpen(x, y float64) bool {
	w, h := g.GameMap.Bounds()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	tileSize := float64(g.GameMap.Data.TileSize)
	return !g.GameMap.BlocksSight(int(math.Floor(x/tileSize)), int(math.Floor(y/tileSize)))
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	log.Printf("Message: %s", text)
}

// UpdateCamera updates the camera to follow the player light.
func (g *Game) UpdateCamera() {
	light, ok := g.LightingManager.GetLight(PlayerLightID)
	if !ok {
		return
	}
	// Center camera on the light
	g.Camera.X = light.X - float64(g.ScreenWidth)/2
	g.Camera.Y = light.Y - float64(g.ScreenHeight)/2

	// Clamp camera to map bounds
	mapWidth, mapHeight := g.GameMap.Bounds()
	g.Camera.X = clamp(g.Camera.X, 0, mapWidth-float64(g.ScreenWidth))
	g.Camera.Y = clamp(g.Camera.Y, 0, mapHeight-float64(g.ScreenHeight))
}

// clamp limits v to [lo, hi]. When the map is smaller than the view, hi is
// negative and the camera stays at the origin.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
