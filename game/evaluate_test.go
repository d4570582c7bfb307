package game

import (
	"context"
	"errors"
	"testing"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/neural"
)

func TestEvaluateStopReasons(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		policies  []neural.Policy
		opts      Options
		want      StopReason
		wantTicks int
	}{
		{"extinct", config.Default(), constantPolicies(4, 0), Options{}, StopExtinct, 23},
		{"empty population", config.Default(), nil, Options{MaxTicks: 10}, StopExtinct, 0},
		{"max ticks", wideGapConfig(), []neural.Policy{hoverPolicy}, Options{MaxTicks: 250}, StopMaxTicks, 250},
		{"max ticks not reached", config.Default(), constantPolicies(2, 0), Options{MaxTicks: 500}, StopExtinct, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := RunGeneration(context.Background(), NewRun(1), tt.cfg, tt.policies, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Reason != tt.want {
				t.Errorf("reason = %q, want %q", res.Reason, tt.want)
			}
			if res.Ticks != tt.wantTicks {
				t.Errorf("ticks = %d, want %d", res.Ticks, tt.wantTicks)
			}
			if len(res.Fitness) != len(tt.policies) {
				t.Errorf("fitness len = %d, want %d", len(res.Fitness), len(tt.policies))
			}
		})
	}
}

func TestEvaluateScoreLimit(t *testing.T) {
	g := NewGeneration(NewRun(1), wideGapConfig(), []neural.Policy{hoverPolicy})
	res, err := Evaluate(context.Background(), g, Options{ScoreLimit: 2, MaxTicks: 10000})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != StopScoreLimit {
		t.Fatalf("reason = %q, want %q", res.Reason, StopScoreLimit)
	}
	if res.Score != 2 {
		t.Errorf("score = %d, want 2", res.Score)
	}
	if res.Alive != 1 {
		t.Errorf("alive = %d, want 1", res.Alive)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGeneration(NewRun(1), config.Default(), constantPolicies(3, 0))
	res, err := Evaluate(ctx, g, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Reason != StopCancelled {
		t.Errorf("reason = %q, want %q", res.Reason, StopCancelled)
	}
	if res.Ticks != 0 {
		t.Errorf("ticks = %d, want 0", res.Ticks)
	}
	if g.State() != Running {
		t.Errorf("state = %v, want running", g.State())
	}
}

func TestResultCarriesRun(t *testing.T) {
	run := NewRun(9).Next().Next()
	res, err := RunGeneration(context.Background(), run, config.Default(), constantPolicies(1, 0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Run != run {
		t.Errorf("run = %+v, want %+v", res.Run, run)
	}
	if next := res.Run.Next(); next.Generation != 4 || next.Seed != 9 {
		t.Errorf("next = %+v, want generation 4 seed 9", next)
	}
}

func TestOptionsCheck(t *testing.T) {
	g := NewGeneration(NewRun(1), wideGapConfig(), []neural.Policy{hoverPolicy})
	opts := Options{MaxTicks: 3}

	for i := 0; i < 3; i++ {
		if reason, done := opts.Check(g); done {
			t.Fatalf("tick %d: stopped early with %q", g.Tick(), reason)
		}
		g.Step()
	}
	if reason, done := opts.Check(g); !done || reason != StopMaxTicks {
		t.Errorf("Check = %q, %v, want %q, true", reason, done, StopMaxTicks)
	}

	empty := NewGeneration(NewRun(1), config.Default(), nil)
	if reason, done := (Options{}).Check(empty); !done || reason != StopExtinct {
		t.Errorf("empty Check = %q, %v, want %q, true", reason, done, StopExtinct)
	}
}
