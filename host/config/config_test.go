package config

import (
	"testing"

	"ambientfx/fx/themes"
)

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		env         map[string]string
		wantTheme   string
		wantProfile bool
	}{
		{"Defaults", Config{}, nil, themes.Default, false},
		{"Theme from env", Config{}, map[string]string{EnvTheme: "snow"}, "snow", false},
		{"Flag wins over env", Config{Theme: "rain"}, map[string]string{EnvTheme: "snow"}, "rain", false},
		{"Profile from env", Config{}, map[string]string{EnvProfile: "true"}, themes.Default, true},
		{"Malformed profile ignored", Config{}, map[string]string{EnvProfile: "maybe"}, themes.Default, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			cfg.ApplyEnv(func(k string) string { return tt.env[k] })
			if cfg.Theme != tt.wantTheme {
				t.Errorf("Expected theme %q, got %q", tt.wantTheme, cfg.Theme)
			}
			if cfg.Profile != tt.wantProfile {
				t.Errorf("Expected profile %v, got %v", tt.wantProfile, cfg.Profile)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := themes.Lookup(cfg.Theme, 1); err != nil {
		t.Errorf("Expected the default theme to be registered, got %v", err)
	}
	if cfg.Engine.FrameInterval() <= 0 {
		t.Errorf("Expected a positive frame interval, got %v", cfg.Engine.FrameInterval())
	}
}
