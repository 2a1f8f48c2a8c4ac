// Command ambientterm plays an ambientfx theme in the terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"ambientfx/fx"
	"ambientfx/fx/themes"
	"ambientfx/host/config"
	"ambientfx/render/termsurface"
)

type app struct {
	screen  tcell.Screen
	surface *termsurface.Surface
	sched   *fx.TickerScheduler
	pointer *fx.PointerTracker
	animate *fx.AnimateFlag
	logger  *log.Logger

	config config.Config
	engine *fx.Engine
	names  []string
	theme  int
}

func main() {
	cfg := config.DefaultConfig()
	theme := flag.String("theme", "", "theme to show: "+strings.Join(themes.Names(), ", ")+" (or set "+config.EnvTheme+")")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 uses the clock)")
	cellW := flag.Float64("cell-width", termsurface.DefaultCellWidth, "logical pixels per character column")
	cellH := flag.Float64("cell-height", termsurface.DefaultCellHeight, "logical pixels per character row")
	logPath := flag.String("log", "", "write engine logs to this file")
	flag.Parse()

	cfg.Theme = *theme
	cfg.ApplyEnv(os.Getenv)

	// The screen owns stdout, so logs go to a file or nowhere
	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	a := &app{
		screen:  screen,
		surface: termsurface.New(screen, *cellW, *cellH),
		sched:   fx.NewTickerScheduler(cfg.Engine.FrameInterval()),
		pointer: fx.NewPointerTracker(),
		animate: fx.NewAnimateFlag(true),
		logger:  logger,
		config:  cfg,
		names:   themes.Names(),
	}
	if err := a.switchTheme(cfg.Theme); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	a.run()
	a.engine.Unmount()
	screen.Fini()
}

// run drives frames on the scheduler goroutine and handles input here until quit
func (a *app) run() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.sched.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	for {
		ev := a.screen.PollEvent()
		if ev == nil || !a.handle(ev) {
			return
		}
	}
}

func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		w, h := a.surface.Size()
		a.engine.Resize(w, h, 1)

	case *tcell.EventMouse:
		x, y := a.surface.ToLogical(ev.Position())
		if ev.Buttons()&tcell.Button1 != 0 {
			a.pointer.Press(x, y)
		} else {
			a.pointer.Move(x, y)
		}

	case *tcell.EventFocus:
		if !ev.Focused {
			a.pointer.Leave()
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			a.cycle(1)
		case tcell.KeyBacktab:
			a.cycle(-1)
		case tcell.KeyRune:
			switch r := ev.Rune(); {
			case r == 'q':
				return false
			case r == ' ':
				a.animate.Toggle()
			case r >= '1' && r <= '9' && int(r-'1') < len(a.names):
				a.cycle(int(r-'1') - a.theme)
			}
		}
	}
	return true
}

func (a *app) cycle(delta int) {
	n := len(a.names)
	next := ((a.theme+delta)%n + n) % n
	if err := a.switchTheme(a.names[next]); err != nil {
		a.logger.Printf("ambientterm: %v", err)
	}
}

// switchTheme replaces the running engine; the old one is fully stopped before
// the new one is mounted on the shared surface
func (a *app) switchTheme(name string) error {
	theme, err := themes.Lookup(name, a.config.Seed)
	if err != nil {
		return fmt.Errorf("switch theme: %w", err)
	}
	if a.engine != nil {
		a.engine.Unmount()
	}
	a.engine = fx.New(theme, fx.Options{
		Config:  a.config.Engine,
		Animate: a.animate,
		Pointer: a.pointer,
		Seed:    a.config.Seed,
		Logger:  a.logger,
	})
	w, h := a.surface.Size()
	a.engine.Resize(w, h, 1)
	a.engine.Mount(a.surface, a.sched)
	a.theme = slices.Index(a.names, name)
	return nil
}
