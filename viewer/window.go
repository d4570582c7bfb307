// Package viewer runs the trainer inside a raylib window.
package viewer

import (
	"context"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/evolve"
	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/neural"
	"github.com/pthm-cable/glide/renderer"
	"github.com/pthm-cable/glide/systems"
	"github.com/pthm-cable/glide/ui"
)

const (
	panelWidth    = 220
	networkWidth  = 260
	networkHeight = 170
)

// Window draws generations as they are evaluated. Closing the window
// cancels the run.
type Window struct {
	cfg     *config.Config
	trainer *evolve.Trainer
	cancel  context.CancelFunc

	playback *evolve.Playback
	scene    *renderer.SceneRenderer
	hud      *ui.HUD
	overlays *ui.OverlayRegistry
	controls *ui.ControlsPanel
	run      *ui.RunPanel
	perf     *ui.PerfPanel
	network  *ui.NetworkPanel
	phases   *systems.SystemRegistry
	legend   string
}

// Open creates the raylib window. Close must be called when done.
func Open(cfg *config.Config, trainer *evolve.Trainer, cancel context.CancelFunc) *Window {
	rl.InitWindow(cfg.Derived.ScreenW, cfg.Derived.ScreenH, "Glide")
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	panelX := cfg.Derived.ScreenW - panelWidth - 10
	w := &Window{
		cfg:      cfg,
		trainer:  trainer,
		cancel:   cancel,
		playback: evolve.NewPlayback(),
		scene:    renderer.NewSceneRenderer(cfg),
		hud:      ui.NewHUD(),
		overlays: ui.NewOverlayRegistry(),
		controls: ui.NewControlsPanel(10, 70, panelWidth),
		run:      ui.NewRunPanel(panelX, 50, panelWidth),
		perf:     ui.NewPerfPanel(panelX, 50, panelWidth),
		network:  ui.NewNetworkPanel(10, cfg.Derived.ScreenH-networkHeight-70, networkWidth, networkHeight),
		phases:   systems.NewSystemRegistry(),
	}
	w.legend = "[Space] Pause  [Up/Down] Speed  [Tab] Overlays  " + ui.Legend(w.overlays)
	w.scene.Init()
	return w
}

// Close releases GPU resources and closes the window.
func (w *Window) Close() {
	w.scene.Unload()
	rl.CloseWindow()
}

// Drive is an evolve.Driver stepping g once per frame at the playback speed.
func (w *Window) Drive(ctx context.Context, g *game.Generation, opts game.Options) (game.Result, error) {
	for {
		if rl.WindowShouldClose() {
			w.cancel()
		}
		w.handleInput()

		res, done, err := w.playback.Advance(ctx, g, opts)
		if done {
			return res, err
		}
		w.trainer.Perf().RecordFrame()
		w.draw(g)
	}
}

func (w *Window) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		w.playback.TogglePause()
	case rl.IsKeyPressed(rl.KeyUp):
		w.playback.Faster()
	case rl.IsKeyPressed(rl.KeyDown):
		w.playback.Slower()
	case rl.IsKeyPressed(rl.KeyTab):
		w.controls.Toggle()
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		w.overlays.HandleKeyPress(key)
	}
}

func (w *Window) draw(g *game.Generation) {
	s := g.Snapshot()
	screenW, screenH := w.cfg.Derived.ScreenW, w.cfg.Derived.ScreenH
	groundY := int32(w.cfg.World.GroundY * w.cfg.Screen.Scale)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	w.scene.Draw(s, renderer.SceneOptions{
		Hitboxes: w.overlays.IsEnabled(ui.OverlayHitboxes),
		Target:   w.overlays.IsEnabled(ui.OverlayTarget),
	})

	data := ui.HUDData{
		Generation:   s.Generation,
		Score:        s.Score,
		Alive:        s.Alive,
		Seeded:       s.Seeded,
		Tick:         s.Tick,
		Speed:        w.playback.Speed,
		FPS:          rl.GetFPS(),
		Paused:       w.playback.Paused,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
	}
	w.hud.Draw(data)
	switch w.hud.DrawButtons(data, groundY) {
	case ui.HUDTogglePause:
		w.playback.TogglePause()
	case ui.HUDSlower:
		w.playback.Slower()
	case ui.HUDFaster:
		w.playback.Faster()
	}

	if w.overlays.IsEnabled(ui.OverlayRunPanel) {
		w.run.Draw(w.runData(g, s))
	}
	if w.overlays.IsEnabled(ui.OverlayPerf) {
		stats := w.trainer.Perf().Stats()
		w.perf.Draw(ui.PerfPanelData{
			PhaseAvg:       stats.PhaseAvg,
			Total:          stats.AvgTickDuration,
			TicksPerSecond: stats.TicksPerSecond,
			Registry:       w.phases,
		})
	}
	if w.overlays.IsEnabled(ui.OverlayNetwork) {
		w.drawLeaderNetwork(s)
	}
	w.controls.Draw(w.overlays)
	w.hud.DrawControls(screenH, w.legend)

	rl.EndDrawing()
}

// drawLeaderNetwork shows the first live agent's network on its current
// perception.
func (w *Window) drawLeaderNetwork(s game.Snapshot) {
	nets := w.trainer.Population()
	if len(s.Agents) == 0 || s.Agents[0].Slot >= len(nets) {
		w.network.Draw("Leader Network", nil, neural.Activations{})
		return
	}
	leader := s.Agents[0]
	var target *components.Obstacle
	if s.Target >= 0 {
		target = &s.Obstacles[s.Target]
	}
	nn := nets[leader.Slot]
	w.network.Draw(fmt.Sprintf("Leader Network (#%d)", leader.Slot), nn, nn.Trace(systems.Perceive(&leader, target)))
}

func (w *Window) runData(g *game.Generation, s game.Snapshot) ui.RunData {
	best := math.Inf(-1)
	for _, f := range g.Fitness() {
		best = max(best, f)
	}
	if math.IsInf(best, -1) {
		best = 0
	}

	data := ui.RunData{
		Snapshot:      s,
		BestFitness:   best,
		VelocityRange: float32(max(-w.cfg.Physics.JumpImpulse, w.cfg.Physics.TerminalVelocity)),
	}
	data.Previous, data.HasPrevious = w.trainer.Last()
	if hof := w.trainer.HallOfFame(); hof != nil {
		if e, ok := hof.Best(); ok {
			data.HallBest, data.HasHallBest = e.Fitness, true
		}
	}
	return data
}
