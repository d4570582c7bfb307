package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.World.GroundY != 730 {
		t.Errorf("GroundY = %v, want 730", cfg.World.GroundY)
	}
	if cfg.Physics.JumpImpulse != -10.5 {
		t.Errorf("JumpImpulse = %v, want -10.5", cfg.Physics.JumpImpulse)
	}
	if cfg.Obstacles.Gap != 200 {
		t.Errorf("Gap = %v, want 200", cfg.Obstacles.Gap)
	}
	if cfg.Agent.Shape != ShapeMask {
		t.Errorf("Shape = %q, want %q", cfg.Agent.Shape, ShapeMask)
	}
	if cfg.Derived.ScreenW != 550 || cfg.Derived.ScreenH != 800 {
		t.Errorf("screen = %dx%d, want 550x800", cfg.Derived.ScreenW, cfg.Derived.ScreenH)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := "physics:\n  gravity: 2.0\nworld:\n  ground_y: 600\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Physics.Gravity != 2.0 {
		t.Errorf("Gravity = %v, want 2.0", cfg.Physics.Gravity)
	}
	if cfg.World.GroundY != 600 {
		t.Errorf("GroundY = %v, want 600", cfg.World.GroundY)
	}
	// Untouched fields keep defaults
	if cfg.Physics.TerminalVelocity != 16 {
		t.Errorf("TerminalVelocity = %v, want default 16", cfg.Physics.TerminalVelocity)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults valid", func(c *Config) {}, ""},
		{"ground above ceiling", func(c *Config) { c.World.GroundY = -1 }, "ground_y"},
		{"positive impulse", func(c *Config) { c.Physics.JumpImpulse = 3 }, "jump_impulse"},
		{"inverted gap range", func(c *Config) { c.Obstacles.GapMin = 500 }, "gap_min"},
		{"unknown shape", func(c *Config) { c.Agent.Shape = "sprite" }, "agent.shape"},
		{"inset too large", func(c *Config) { c.Agent.HitboxInset = 30 }, "hitbox_inset"},
		{"elite too large", func(c *Config) { c.Population.Elite = 1000 }, "elite"},
		{"nan gravity", func(c *Config) { c.Physics.Gravity = math.NaN() }, "physics.gravity must be finite"},
		{"infinite terminal velocity", func(c *Config) { c.Physics.TerminalVelocity = math.Inf(1) }, "physics.terminal_velocity must be finite"},
		{"nan ground", func(c *Config) { c.World.GroundY = math.NaN() }, "world.ground_y must be finite"},
		{"negative floor margin", func(c *Config) { c.World.FloorMargin = -1 }, "floor_margin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaxFallTicks(t *testing.T) {
	cfg := Default()
	// From y=350 with 48px height, ground at 730: 1.5, 6, 13.5, then 16/tick.
	// After 3 ticks y=371; 16/tick needs y > 682 -> 20 more ticks (y=691).
	if cfg.Derived.MaxFallTicks != 23 {
		t.Errorf("MaxFallTicks = %d, want 23", cfg.Derived.MaxFallTicks)
	}
}

func TestLoadRejectsNaNGravity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: .nan\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "physics.gravity") {
		t.Fatalf("Load error = %v, want physics.gravity rejected", err)
	}
}

func TestMaxFallTicksFloorMargin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounds.yaml")
	data := "world:\n  ceiling_y: -50\n  floor_margin: 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	// The sprite may now sink 10 units: y > 692 takes one more 16-unit tick.
	if cfg.Derived.MaxFallTicks != 24 {
		t.Errorf("MaxFallTicks = %d, want 24", cfg.Derived.MaxFallTicks)
	}
	if !cfg.BelowGround(693) || cfg.BelowGround(692) {
		t.Error("BelowGround boundary should sit at y=692")
	}
	if !cfg.AboveCeiling(-50.5) || cfg.AboveCeiling(-50) {
		t.Error("AboveCeiling boundary should sit at y=-50")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sim.Seed = 7
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Sim.Seed != 7 {
		t.Errorf("Seed = %d, want 7", back.Sim.Seed)
	}
}
