package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"ambientfx/fx/themes"
	"ambientfx/host"
	"ambientfx/host/config"
)

func main() {
	cfg := config.DefaultConfig()

	theme := flag.String("theme", "", "theme to show: "+strings.Join(themes.Names(), ", ")+" (or set "+config.EnvTheme+")")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 uses the clock)")
	flag.BoolVar(&cfg.Profile, "profile", false, "capture CPU profiles on FPS drops (or set "+config.EnvProfile+")")
	flag.Float64Var(&cfg.TopOffset, "top-offset", 0, "logical pixels at the top kept clear of particles")
	flag.IntVar(&cfg.ScreenWidth, "width", cfg.ScreenWidth, "window width")
	flag.IntVar(&cfg.ScreenHeight, "height", cfg.ScreenHeight, "window height")
	flag.Parse()

	cfg.Theme = *theme
	cfg.ApplyEnv(os.Getenv)

	g, err := host.NewGame(cfg, log.Default())
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle(cfg.Title + " - " + g.Theme())
	ebiten.SetWindowResizable(true)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
