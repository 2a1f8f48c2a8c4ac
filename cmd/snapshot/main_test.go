package main

import (
	"errors"
	"go/build"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ambientfx/fx"
	"ambientfx/fx/themes"
	"ambientfx/host/config"
)

func TestParsePointer(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    fx.Pointer
		wantErr bool
	}{
		{"Empty is inactive", "", fx.Pointer{}, false},
		{"Position", "100,120.5", fx.Pointer{X: 100, Y: 120.5, Active: true}, false},
		{"Spaces", " 3 , 4 ", fx.Pointer{X: 3, Y: 4, Active: true}, false},
		{"Missing comma", "100", fx.Pointer{}, true},
		{"Not a number", "a,b", fx.Pointer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePointer(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRunWritesFrames(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Theme = "embers"
	cfg.Seed = 2

	if err := run(cfg, 6, 3, filepath.Join(dir, "f%03d.png"), 64, 48, 2, "32,24", true); err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}
	for _, name := range []string{"f003.png", "f006.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Expected %s written, got %v", name, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("Expected %s to decode, got %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 96 {
			t.Errorf("Expected %s at 128x96 device pixels, got %v", name, b)
		}
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	cfg.Theme = "plasma"
	if err := run(cfg, 1, 0, filepath.Join(dir, "x.png"), 10, 10, 1, "", true); !errors.Is(err, themes.ErrUnknownTheme) {
		t.Errorf("Expected ErrUnknownTheme, got %v", err)
	}

	cfg.Theme = "snow"
	if err := run(cfg, 4, 2, filepath.Join(dir, "x.png"), 10, 10, 1, "", true); err == nil {
		t.Errorf("Expected -every without a frame verb to fail")
	}
	if err := run(cfg, 1, 0, filepath.Join(dir, "missing", "x.png"), 10, 10, 1, "", true); err == nil {
		t.Errorf("Expected an unwritable path to fail")
	}
}

// TestHeadlessImports walks the module-local import graph of this command and
// fails if any package pulls in a windowing backend
func TestHeadlessImports(t *testing.T) {
	const module = "ambientfx"
	root := filepath.Join("..", "..")

	seen := map[string]bool{}
	queue := []string{module + "/cmd/snapshot"}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if seen[path] {
			continue
		}
		seen[path] = true

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, module)))
		pkg, err := build.ImportDir(dir, 0)
		if err != nil {
			t.Fatalf("Expected to read %s, got %v", path, err)
		}
		for _, imp := range pkg.Imports {
			if strings.HasPrefix(imp, "github.com/hajimehoshi/ebiten") {
				t.Errorf("Expected no ebiten dependency, got %s imported by %s", imp, path)
			}
			if strings.HasPrefix(imp, module+"/") {
				queue = append(queue, imp)
			}
		}
	}
	if !seen[module+"/render/raster"] || !seen[module+"/host/config"] {
		t.Errorf("Expected the walk to reach raster and config, got %v", seen)
	}
}
