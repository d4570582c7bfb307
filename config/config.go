// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Shape names accepted by AgentConfig.Shape.
const (
	ShapeMask = "mask"
	ShapeBox  = "box"
)

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Agent      AgentConfig      `yaml:"agent"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Sim        SimConfig        `yaml:"sim"`
	Population PopulationConfig `yaml:"population"`
	Screen     ScreenConfig     `yaml:"screen"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the world bounds in world units.
// y grows downward; the ground is a lower bound, the ceiling an upper one.
type WorldConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	GroundY     float64 `yaml:"ground_y"`     // Agents whose bottom edge, less FloorMargin, passes this are culled
	FloorMargin float64 `yaml:"floor_margin"` // How far the sprite may sink into the ground
	CeilingY    float64 `yaml:"ceiling_y"`    // Agents whose top edge passes this are culled
	LeftBound   float64 `yaml:"left_bound"`   // Obstacles are retired once fully left of this
}

// AgentConfig holds agent placement and silhouette.
type AgentConfig struct {
	StartX      float64 `yaml:"start_x"`
	StartY      float64 `yaml:"start_y"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	HitboxInset float64 `yaml:"hitbox_inset"` // Inset applied to the box shape on every side
	Shape       string  `yaml:"shape"`        // "mask" (pixel ellipse) or "box" (inset AABB)
}

// PhysicsConfig holds the vertical kinematics constants.
type PhysicsConfig struct {
	JumpImpulse      float64 `yaml:"jump_impulse"`      // Negative: up is -y
	Gravity          float64 `yaml:"gravity"`           // a in d = v*t + 0.5*a*t^2
	TerminalVelocity float64 `yaml:"terminal_velocity"` // Max downward displacement per tick
	UpwardBias       float64 `yaml:"upward_bias"`       // Extra lift subtracted while rising
}

// ObstacleConfig holds obstacle pair geometry and scrolling.
type ObstacleConfig struct {
	SpawnX         float64 `yaml:"spawn_x"`
	ScrollVelocity float64 `yaml:"scroll_velocity"`
	Gap            float64 `yaml:"gap"`
	GapMin         float64 `yaml:"gap_min"` // Gap top drawn uniformly in [GapMin, GapMax)
	GapMax         float64 `yaml:"gap_max"`
	Width          float64 `yaml:"width"`
	BarrierHeight  float64 `yaml:"barrier_height"`
}

// ScoringConfig holds fitness deltas and the policy output contract.
type ScoringConfig struct {
	SurvivalReward   float64 `yaml:"survival_reward"`
	CollisionPenalty float64 `yaml:"collision_penalty"`
	PassReward       float64 `yaml:"pass_reward"`
	JumpThreshold    float64 `yaml:"jump_threshold"`
	OutputMin        float64 `yaml:"output_min"` // Outputs outside [min, max] never jump
	OutputMax        float64 `yaml:"output_max"`
}

// SimConfig holds evaluation budget parameters.
type SimConfig struct {
	Seed        int64 `yaml:"seed"`
	MaxTicks    int   `yaml:"max_ticks"`   // 0 = unlimited
	ScoreLimit  int   `yaml:"score_limit"` // 0 = unlimited
	Generations int   `yaml:"generations"`
}

// PopulationConfig holds parameters for the demo evolution harness.
type PopulationConfig struct {
	Size          int     `yaml:"size"`
	Elite         int     `yaml:"elite"`
	MutationRate  float64 `yaml:"mutation_rate"`
	MutationSigma float64 `yaml:"mutation_sigma"`
	BigRate       float64 `yaml:"big_rate"`
	BigSigma      float64 `yaml:"big_sigma"`
}

// ScreenConfig holds viewer settings. Window size follows the world size.
type ScreenConfig struct {
	TargetFPS int     `yaml:"target_fps"`
	Scale     float64 `yaml:"scale"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	HallOfFameSize int `yaml:"hall_of_fame_size"`
	PerfWindow     int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW int32 // World.Width * Screen.Scale
	ScreenH int32 // World.Height * Screen.Scale
	// MaxFallTicks bounds how long a never-jumping agent can stay in bounds.
	MaxFallTicks int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they fail to parse,
// which can only happen if defaults.yaml is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run.
func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"world.ground_y", c.World.GroundY},
		{"world.ceiling_y", c.World.CeilingY},
		{"world.floor_margin", c.World.FloorMargin},
		{"agent.start_y", c.Agent.StartY},
		{"physics.jump_impulse", c.Physics.JumpImpulse},
		{"physics.gravity", c.Physics.Gravity},
		{"physics.terminal_velocity", c.Physics.TerminalVelocity},
		{"physics.upward_bias", c.Physics.UpwardBias},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be finite, got %v", f.name, f.v))
		}
	}
	if c.World.FloorMargin < 0 {
		errs = append(errs, errors.New("world.floor_margin must be non-negative"))
	}
	if c.World.GroundY <= c.World.CeilingY {
		errs = append(errs, fmt.Errorf("world.ground_y (%v) must be below world.ceiling_y (%v)", c.World.GroundY, c.World.CeilingY))
	}
	if c.Agent.Width <= 0 || c.Agent.Height <= 0 {
		errs = append(errs, errors.New("agent.width and agent.height must be positive"))
	}
	if 2*c.Agent.HitboxInset >= min(c.Agent.Width, c.Agent.Height) {
		errs = append(errs, errors.New("agent.hitbox_inset collapses the hitbox"))
	}
	if c.Agent.Shape != ShapeMask && c.Agent.Shape != ShapeBox {
		errs = append(errs, fmt.Errorf("agent.shape %q: want %q or %q", c.Agent.Shape, ShapeMask, ShapeBox))
	}
	if c.Physics.JumpImpulse >= 0 {
		errs = append(errs, errors.New("physics.jump_impulse must be negative"))
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, errors.New("physics.gravity must be positive"))
	}
	if c.Physics.TerminalVelocity <= 0 {
		errs = append(errs, errors.New("physics.terminal_velocity must be positive"))
	}
	if c.Obstacles.GapMin >= c.Obstacles.GapMax {
		errs = append(errs, fmt.Errorf("obstacles.gap_min (%v) must be less than obstacles.gap_max (%v)", c.Obstacles.GapMin, c.Obstacles.GapMax))
	}
	if c.Obstacles.Gap <= 0 || c.Obstacles.Width <= 0 || c.Obstacles.BarrierHeight <= 0 {
		errs = append(errs, errors.New("obstacles.gap, width and barrier_height must be positive"))
	}
	if c.Obstacles.ScrollVelocity <= 0 {
		errs = append(errs, errors.New("obstacles.scroll_velocity must be positive"))
	}
	if c.Scoring.OutputMin > c.Scoring.OutputMax {
		errs = append(errs, errors.New("scoring.output_min exceeds scoring.output_max"))
	}
	if c.Sim.MaxTicks < 0 || c.Sim.ScoreLimit < 0 {
		errs = append(errs, errors.New("sim.max_ticks and sim.score_limit must be non-negative"))
	}
	if c.Population.Elite > c.Population.Size {
		errs = append(errs, errors.New("population.elite exceeds population.size"))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	scale := c.Screen.Scale
	if scale <= 0 {
		scale = 1
	}
	c.Derived.ScreenW = int32(c.World.Width * scale)
	c.Derived.ScreenH = int32(c.World.Height * scale)
	c.Derived.MaxFallTicks = c.fallTicks()
}

// fallTicks simulates a never-jumping agent from the start position and
// returns the tick on which it first leaves the world bounds.
func (c *Config) fallTicks() int {
	y := c.Agent.StartY
	for t := 1; ; t++ {
		tf := float64(t)
		d := 0.5 * c.Physics.Gravity * tf * tf
		if d > c.Physics.TerminalVelocity {
			d = c.Physics.TerminalVelocity
		}
		y += d
		if c.BelowGround(y) || c.AboveCeiling(y) {
			return t
		}
	}
}

// BelowGround reports whether an agent whose top edge is at y has fallen
// through the ground.
func (c *Config) BelowGround(y float64) bool {
	return y+c.Agent.Height-c.World.FloorMargin > c.World.GroundY
}

// AboveCeiling reports whether an agent whose top edge is at y has left
// through the ceiling.
func (c *Config) AboveCeiling(y float64) bool {
	return y < c.World.CeilingY
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
