package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"seehuhn.de/go/geom/rect"

	"chosenoffset.com/lightcaster/internal/core/mesh"
	"chosenoffset.com/lightcaster/internal/core/visibility"
	"chosenoffset.com/lightcaster/internal/render/mask"
	"chosenoffset.com/lightcaster/internal/simulation"
	"chosenoffset.com/lightcaster/internal/world/maploader"
	"chosenoffset.com/lightcaster/internal/world/room"
	"chosenoffset.com/lightcaster/internal/world/scenes"
)

func main() {
	sceneArg := flag.String("scene", "pillars", "scene name in the scenes directory, or a path to a scene map")
	sceneDir := flag.String("scenes", "data/scenes", "scenes directory")
	configPath := flag.String("config", "data/lighting.json", "lighting config")
	x := flag.Float64("x", -1, "light x in scene pixels (default: every light in the scene)")
	y := flag.Float64("y", -1, "light y in scene pixels (default: every light in the scene)")
	out := flag.String("out", "shadowmask.png", "output PNG path")
	scale := flag.Float64("scale", 1, "mask pixels per scene pixel")
	seed := flag.Int64("seed", 0, "generate a random room with this seed instead of loading a scene")
	flag.Parse()

	fmt.Println("Lightcaster Shadow Mask Exporter")
	fmt.Println("================================")

	gameMap, err := loadScene(*sceneDir, *sceneArg, *seed)
	if err == nil {
		err = run(gameMap, *configPath, *x, *y, *out, *scale)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done! Mask written to %s\n", *out)
}

// loadScene generates a room when seed is set and loads the named scene
// otherwise.
func loadScene(sceneDir, sceneArg string, seed int64) (*maploader.Map, error) {
	if seed != 0 {
		config := room.DefaultConfig()
		config.Seed = seed
		return room.NewGenerator(config).Generate()
	}
	scenePath, err := scenes.Resolve(sceneDir, sceneArg)
	if err != nil {
		return nil, err
	}
	return maploader.LoadMap(scenePath)
}

func run(gameMap *maploader.Map, configPath string, x, y float64, out string, scale float64) error {
	config, err := simulation.LoadConfig(configPath)
	if err != nil {
		return err
	}
	scene := gameMap.Scene()

	lights := lightPositions(gameMap, x, y)
	if len(lights) == 0 {
		return errors.New("scene has no lights; pass -x and -y")
	}

	w, h := gameMap.Bounds()
	bounds := rect.Rect{URx: w, URy: h}
	img, err := mask.New(bounds, scale)
	if err != nil {
		return err
	}
	m := mask.Transform(bounds, scale)

	cfg := config.Visibility()
	buf := visibility.NewBuffer(cfg)
	for _, center := range lights {
		poly, stats, err := visibility.SampleWithStats(center, cfg, scene, buf)
		if err != nil {
			return fmt.Errorf("light at (%.1f, %.1f): %w", center.X, center.Y, err)
		}

		lightMesh, err := mesh.Triangulate(center, poly, config.Mesh.UVRange)
		if errors.Is(err, mesh.ErrDegenerate) {
			log.Printf("WARNING: Light at (%.1f, %.1f) sees nothing (%d vertices)", center.X, center.Y, poly.Count)
			continue
		}
		if err != nil {
			return err
		}

		log.Printf("Light at (%.1f, %.1f): %d vertices, %d triangles, %d casts",
			center.X, center.Y, stats.Vertices, lightMesh.Triangles(), stats.Casts)
		if n := len(lightMesh.OutOfBand); n > 0 {
			log.Printf("WARNING: %d vertices past the falloff band", n)
		}

		mask.Draw(img, mask.Path(poly), m)
	}

	log.Printf("Lit area: %.0f of %dx%d pixels", mask.Coverage(img), img.Bounds().Dx(), img.Bounds().Dy())
	return mask.SavePNG(img, out)
}

// lightPositions returns the light given on the command line, or the scene's
// spawn point plus its placed lights.
func lightPositions(gameMap *maploader.Map, x, y float64) []visibility.Point {
	if x >= 0 && y >= 0 {
		return []visibility.Point{{X: x, Y: y}}
	}
	spawn := gameMap.Data.PlayerSpawn
	lights := []visibility.Point{{X: spawn.X, Y: spawn.Y}}
	for _, l := range gameMap.Data.Lights {
		lights = append(lights, visibility.Point{X: l.X, Y: l.Y})
	}
	return lights
}
