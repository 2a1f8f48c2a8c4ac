// Package themes provides the built-in visual variants for the fx engine
package themes

import (
	"errors"
	"fmt"
	"sort"

	"ambientfx/fx"
)

// Default is the theme used when none is selected
const Default = "embers"

// ErrUnknownTheme is returned by Lookup for names not in the registry
var ErrUnknownTheme = errors.New("unknown theme")

// factory builds a fresh theme instance; seed drives any noise fields
type factory func(seed int64) (fx.Theme, error)

var registry = map[string]factory{
	"embers": func(seed int64) (fx.Theme, error) {
		return NewEmbers(DefaultEmbersConfig(), seed), nil
	},
	"fireflies": func(int64) (fx.Theme, error) {
		return NewFireflies(DefaultFirefliesConfig()), nil
	},
	"snow": func(seed int64) (fx.Theme, error) {
		return NewSnow(DefaultSnowConfig(), seed), nil
	},
	"rain": func(int64) (fx.Theme, error) {
		return NewRain(DefaultRainConfig()), nil
	},
	"bubbles": func(int64) (fx.Theme, error) {
		return NewBubbles(DefaultBubblesConfig()), nil
	},
	"nebula": func(seed int64) (fx.Theme, error) {
		return NewNebula(DefaultNebulaConfig(), seed), nil
	},
	"void": func(int64) (fx.Theme, error) {
		return NewVoid(DefaultVoidConfig()), nil
	},
	"starfield": func(int64) (fx.Theme, error) {
		return NewStarfield(DefaultStarfieldConfig()), nil
	},
	"constellation": func(int64) (fx.Theme, error) {
		return NewConstellation(DefaultConstellationConfig()), nil
	},
	"circuit": func(int64) (fx.Theme, error) {
		return NewCircuit(DefaultCircuitConfig()), nil
	},
	"hexgrid": func(int64) (fx.Theme, error) {
		return NewHexgrid(DefaultHexgridConfig()), nil
	},
	"lanterns": func(int64) (fx.Theme, error) {
		return NewLanterns(DefaultLanternsConfig())
	},
}

// Names returns the registered theme names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup creates a new instance of the named theme. Themes hold decoration
// state, so every engine needs its own instance.
func Lookup(name string, seed int64) (fx.Theme, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return build(seed)
}
