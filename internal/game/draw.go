package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/lightcaster/internal/render"
	"chosenoffset.com/lightcaster/internal/render/lighting"
)

var (
	backgroundColor = color.NRGBA{12, 12, 18, 255}
	floorColor      = color.NRGBA{96, 92, 84, 255}
	wallColor       = color.NRGBA{60, 64, 78, 255}
	circleColor     = color.NRGBA{140, 70, 60, 255}
	traceColor      = color.NRGBA{255, 255, 0, 48}
)

// Draw renders the scene to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()

	// Ensure render textures exist and are the right size
	if g.WhiteImg == nil {
		g.WhiteImg = g.Renderer.NewImage(3, 3)
		g.WhiteImg.Fill(color.White)
	}
	if g.LightTexture == nil || needsResize(g.LightTexture, w, h) {
		if g.LightTexture != nil {
			g.LightTexture.Dispose()
		}
		g.LightTexture = g.Renderer.NewImage(w, h)
	}

	// Step 1: Floors, darkened by the light map
	screen.Fill(backgroundColor)
	g.drawTiles(screen, false)
	g.applyLighting(screen)

	// Step 2: Occluders stay unlit so the shadow edges read clearly
	g.drawTiles(screen, true)
	g.drawCircles(screen)

	// Step 3: Overlays
	if g.ShowTrace {
		g.drawTrace(screen)
	}
	g.drawLightMarkers(screen)
	g.drawUI(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

// drawTiles draws either the sight-blocking tiles or the open ones.
func (g *Game) drawTiles(screen render.Image, walls bool) {
	tileSize := g.GameMap.Data.TileSize
	for y := 0; y < g.GameMap.Data.Height; y++ {
		for x := 0; x < g.GameMap.Data.Width; x++ {
			if g.GameMap.BlocksSight(x, y) != walls {
				continue
			}

			clr := floorColor
			if walls {
				clr = wallColor
			}
			if tile, err := g.GameMap.GetTileDefAt(x, y); err == nil {
				clr = lighting.ParseColor(tile.GetTilePropertyString("color", ""), clr)
			}

			screenX := float32(float64(x*tileSize) - g.Camera.X)
			screenY := float32(float64(y*tileSize) - g.Camera.Y)
			g.Renderer.FillRect(screen, screenX, screenY, float32(tileSize), float32(tileSize), clr)
		}
	}
}

func (g *Game) drawCircles(screen render.Image) {
	for _, c := range g.Scene.Circles {
		x := float32(c.Center.X - g.Camera.X)
		y := float32(c.Center.Y - g.Camera.Y)
		g.Renderer.FillCircle(screen, x, y, float32(c.Radius), circleColor)
	}
}

// applyLighting accumulates every light mesh into the light texture and
// multiplies it over the screen.
func (g *Game) applyLighting(screen render.Image) {
	a := uint8(255 * g.Ambient)
	g.LightTexture.Fill(color.NRGBA{a, a, a, 255})

	opts := &render.DrawTrianglesOptions{AntiAlias: true, Blend: render.BlendLighter}
	for _, light := range g.LightingManager.GetAllLights() {
		m := light.Mesh()
		if m == nil || !light.Enabled {
			continue
		}
		center := light.Center()
		center.X -= g.Camera.X
		center.Y -= g.Camera.Y
		vertices := render.MeshVertices(m, center, light.Color, 1, 1)
		g.LightTexture.DrawTriangles(vertices, m.Indices, g.WhiteImg, opts)
	}

	screen.DrawImage(g.LightTexture, &render.DrawImageOptions{Blend: render.BlendMultiply})
}

func (g *Game) drawTrace(screen render.Image) {
	for _, ray := range g.TraceRays {
		g.Renderer.StrokeLine(screen,
			float32(ray.Origin.X-g.Camera.X), float32(ray.Origin.Y-g.Camera.Y),
			float32(ray.End.X-g.Camera.X), float32(ray.End.Y-g.Camera.Y),
			1, traceColor)
	}
}

func (g *Game) drawLightMarkers(screen render.Image) {
	for _, light := range g.LightingManager.GetAllLights() {
		x := float32(light.X - g.Camera.X)
		y := float32(light.Y - g.Camera.Y)
		if light.Enabled {
			g.Renderer.FillCircle(screen, x, y, 5, light.Color)
		}
		g.Renderer.StrokeCircle(screen, x, y, 6, 1, color.White)
	}
}

func (g *Game) drawUI(screen render.Image) {
	if light, ok := g.LightingManager.GetLight(PlayerLightID); ok {
		stats := light.Stats()
		g.Renderer.DrawText(screen, fmt.Sprintf("light (%.0f, %.0f)  vertices %d  casts %d",
			light.X, light.Y, stats.Vertices, stats.Casts), 10, 10)
	}
	g.Renderer.DrawText(screen, "WASD move  T trace  L light  Esc quit", 10, 26)

	// Draw on-screen messages
	y := 50
	for _, msg := range g.Messages {
		g.Renderer.DrawText(screen, msg.Text, 20, y)
		y += 20
	}
}
