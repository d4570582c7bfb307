package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/glide/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Generation   int
	Score        int
	Alive        int
	Seeded       int
	Tick         int
	Speed        int
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUDAction is a command issued through a HUD button.
type HUDAction int

const (
	HUDNone HUDAction = iota
	HUDTogglePause
	HUDSlower
	HUDFaster
)

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the score at the top right, the generation at the top left
// and the pause banner.
func (h *HUD) Draw(data HUDData) {
	score := fmt.Sprintf("Score: %d", data.Score)
	rl.DrawText(score, data.ScreenWidth-rl.MeasureText(score, 30)-15, 10, 30, rl.White)

	rl.DrawText(fmt.Sprintf("Gen: %d", data.Generation), 10, 10, 30, rl.White)
	rl.DrawText(
		fmt.Sprintf("Alive: %d/%d | Tick: %d | Speed: %dx | FPS: %d", data.Alive, data.Seeded, data.Tick, data.Speed, data.FPS),
		10, 45, 14, rl.LightGray,
	)

	if data.Paused {
		const text = "Paused"
		w := rl.MeasureText(text, 40)
		rl.DrawText(text, (data.ScreenWidth-w)/2, data.ScreenHeight/3, 40, rl.Yellow)
	}
}

// DrawButtons renders the pause and speed buttons above the ground strip and
// returns the action clicked this frame, if any.
func (h *HUD) DrawButtons(data HUDData, groundY int32) HUDAction {
	const bw, bh, gap = 70, 24, 6
	y := float32(groundY - bh - gap)
	x := float32(data.ScreenWidth) - 3*bw - 3*gap

	action := HUDNone
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: bh}, toggleText(data.Paused, "Resume", "Pause")) {
		action = HUDTogglePause
	}
	if gui.Button(rl.Rectangle{X: x + bw + gap, Y: y, Width: bw, Height: bh}, "Slower") {
		action = HUDSlower
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+gap), Y: y, Width: bw, Height: bh}, "Faster") {
		action = HUDFaster
	}
	return action
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 12, rl.DarkGray)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseAvg       map[string]time.Duration
	Total          time.Duration
	TicksPerSecond float64
	Registry       *systems.SystemRegistry
}

// PerfPanel renders the tick phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the phases in tick order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	phases := data.Registry.All()
	height := int32(len(phases)+2)*14 + 20 + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s (%.0f ticks/s)", data.Total.Round(time.Microsecond), data.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 16

	for _, info := range phases {
		avg := data.PhaseAvg[info.ID]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", info.Name, avg.Round(100*time.Nanosecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
