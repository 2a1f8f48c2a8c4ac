// Command snapshot renders a theme headlessly and writes frames as PNG files
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ambientfx/fx"
	"ambientfx/fx/themes"
	"ambientfx/host/config"
	"ambientfx/render/raster"
)

func main() {
	cfg := config.DefaultConfig()
	theme := flag.String("theme", "", "theme to render: "+strings.Join(themes.Names(), ", ")+" (or set "+config.EnvTheme+")")
	frames := flag.Int("frames", 120, "number of frames to simulate")
	every := flag.Int("every", 0, "write every Nth frame (0 writes only the last)")
	out := flag.String("out", "snapshot.png", "output path; with -every use a %d verb for the frame number")
	width := flag.Float64("width", 800, "logical width")
	height := flag.Float64("height", 600, "logical height")
	scale := flag.Float64("scale", 1, "device pixel ratio")
	pointer := flag.String("pointer", "", "fixed pointer position as x,y")
	paused := flag.Bool("paused", false, "render with animation off (dimmed, frozen)")
	flag.Int64Var(&cfg.Seed, "seed", 1, "random seed")
	flag.Float64Var(&cfg.TopOffset, "top-offset", 0, "logical pixels at the top kept clear of particles")
	flag.Parse()

	cfg.Theme = *theme
	cfg.ApplyEnv(os.Getenv)

	if err := run(cfg, *frames, *every, *out, *width, *height, *scale, *pointer, !*paused); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config, frames, every int, out string, width, height, scale float64, pointer string, animate bool) error {
	theme, err := themes.Lookup(cfg.Theme, cfg.Seed)
	if err != nil {
		return err
	}
	p, err := parsePointer(pointer)
	if err != nil {
		return err
	}
	if every > 0 && !strings.Contains(out, "%") {
		return fmt.Errorf("-every needs a %%d verb in -out, got %q", out)
	}

	e := fx.New(theme, fx.Options{
		Config:    cfg.Engine,
		Animate:   fx.AnimateFunc(func() bool { return animate }),
		Pointer:   fx.StaticPointer(p),
		TopOffset: cfg.TopOffset,
		Seed:      cfg.Seed,
		Logger:    log.Default(),
	})
	canvas := raster.New(width, height, scale)
	queue := fx.NewFrameQueue()
	e.Resize(width, height, scale)
	e.Mount(canvas, queue)
	defer e.Unmount()

	now := time.Unix(0, 0)
	step := cfg.Engine.FrameInterval()
	written := 0
	for i := 1; i <= frames; i++ {
		now = now.Add(step)
		queue.Flush(now)
		if every > 0 && i%every == 0 {
			if err := writePNG(canvas, fmt.Sprintf(out, i)); err != nil {
				return err
			}
			written++
		}
	}
	if every <= 0 {
		if err := writePNG(canvas, out); err != nil {
			return err
		}
		written++
	}

	s := e.Stats()
	log.Printf("snapshot: %s: %d frames, %d particles, opacity %.2f, %d files written",
		s.Theme, s.Frames, s.Particles, s.Opacity, written)
	return nil
}

func writePNG(canvas *raster.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := canvas.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parsePointer reads "x,y"; an empty string means no pointer
func parsePointer(s string) (fx.Pointer, error) {
	if s == "" {
		return fx.Pointer{}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fx.Pointer{}, fmt.Errorf("pointer %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return fx.Pointer{}, fmt.Errorf("pointer %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return fx.Pointer{}, fmt.Errorf("pointer %q: %w", s, err)
	}
	return fx.Pointer{X: x, Y: y, Active: true}, nil
}
