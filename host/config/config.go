// Package config holds the settings shared by the ambientfx players. It must not
// import a display backend.
package config

import (
	"strconv"
	"time"

	"ambientfx/fx"
	"ambientfx/fx/themes"
)

// Environment variables consulted when the matching flag is left empty
const (
	EnvTheme   = "AMBIENTFX_THEME"
	EnvProfile = "AMBIENTFX_PROFILE"
)

// Config holds player configuration. Window and profiling fields only apply to
// the windowed player.
type Config struct {
	// Theme is the registry name of the theme shown at start
	Theme string

	// ScreenWidth is the initial window width in logical pixels
	ScreenWidth int

	// ScreenHeight is the initial window height in logical pixels
	ScreenHeight int

	Title string

	// TopOffset keeps a band at the top of the window clear of particles
	TopOffset float64

	// Seed seeds every engine a player creates; 0 uses the wall clock
	Seed int64

	// Profile enables automatic CPU profile and trace capture on FPS drops
	Profile     bool
	ProfilesDir string

	// FPSThreshold is the frame rate below which a drop is reported
	FPSThreshold float64

	// Warmup ignores drops right after start while assets upload
	Warmup time.Duration

	// ProfileCooldown is the minimum time between two captures
	ProfileCooldown time.Duration

	Engine fx.Config
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		ScreenWidth:     1024,
		ScreenHeight:    768,
		Title:           "ambientfx",
		ProfilesDir:     "profiles",
		FPSThreshold:    55.0,
		Warmup:          3 * time.Second,
		ProfileCooldown: 10 * time.Second, // Don't capture more than once every 10 seconds
		Engine:          fx.DefaultConfig(),
	}
}

// ApplyEnv fills unset fields from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.Theme == "" {
		c.Theme = getenv(EnvTheme)
	}
	if c.Theme == "" {
		c.Theme = themes.Default
	}
	if !c.Profile {
		if on, err := strconv.ParseBool(getenv(EnvProfile)); err == nil {
			c.Profile = on
		}
	}
}
