package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"chosenoffset.com/lightcaster/internal/game"
	ebitenrender "chosenoffset.com/lightcaster/internal/render/ebiten"
	"chosenoffset.com/lightcaster/internal/simulation"
	"chosenoffset.com/lightcaster/internal/world/maploader"
	"chosenoffset.com/lightcaster/internal/world/room"
	"chosenoffset.com/lightcaster/internal/world/scenes"
)

func main() {
	sceneArg := flag.String("scene", "pillars", "scene name in the scenes directory, or a path to a scene map")
	sceneDir := flag.String("scenes", "data/scenes", "scenes directory")
	configPath := flag.String("config", "data/lighting.json", "lighting config")
	list := flag.Bool("list", false, "list available scenes and exit")
	seed := flag.Int64("seed", 0, "play a random room with this seed instead of a scene")
	flag.Parse()

	if *list {
		entries, err := scenes.Scan(*sceneDir)
		if err != nil {
			log.Fatalf("Failed to scan scenes: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("%-16s %s\n", e.Name, e.Path)
		}
		return
	}

	screenWidth := 640
	screenHeight := 480

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	config, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load lighting config: %v", err)
	}

	var gameMap *maploader.Map
	if *seed != 0 {
		genConfig := room.DefaultConfig()
		genConfig.Seed = *seed
		gameMap, err = room.NewGenerator(genConfig).Generate()
	} else {
		var scenePath string
		scenePath, err = scenes.Resolve(*sceneDir, *sceneArg)
		if err == nil {
			gameMap, err = maploader.LoadMap(scenePath)
		}
	}
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	g, err := game.New(gameMap, config, renderer, inputMgr, screenWidth, screenHeight)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	// Set up the window
	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("Lightcaster - " + gameMap.Data.Name)
	engine.SetWindowResizable(true)

	log.Println("Starting lightcaster...")
	if err := engine.RunGame(g); err != nil && !errors.Is(err, game.ErrQuit) {
		log.Fatal(err)
	}
}
