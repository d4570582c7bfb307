package ui

import (
	"fmt"

	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/telemetry"
)

// RunData is everything the run panel shows.
type RunData struct {
	Snapshot    game.Snapshot
	BestFitness float64 // Best fitness published so far this generation

	Previous    telemetry.GenerationStats
	HasPrevious bool

	HallBest    float64
	HasHallBest bool

	// VelocityRange is the largest vertical displacement per tick the
	// leader bar shows.
	VelocityRange float32
}

func runData(data any) RunData {
	d, _ := data.(RunData)
	return d
}

// The leader is the first live agent; all agents share one X.
func (d RunData) hasLeader() bool { return len(d.Snapshot.Agents) > 0 }

func (d RunData) leaderY() float32 {
	if !d.hasLeader() {
		return 0
	}
	return float32(d.Snapshot.Agents[0].Y)
}

func (d RunData) leaderVelocity() float32 {
	if !d.hasLeader() {
		return 0
	}
	return float32(d.Snapshot.Agents[0].LastDelta)
}

// RunSections describes the run panel.
var RunSections = []SectionDescriptor{
	{
		ID:    "generation",
		Title: "Generation",
		Fields: []FieldDescriptor{
			{ID: "gen", Label: "Gen", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(runData(d).Snapshot.Generation) }},
			{ID: "tick", Label: "Tick", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(runData(d).Snapshot.Tick) }},
			{ID: "score", Label: "Score", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(runData(d).Snapshot.Score) }},
			{ID: "alive", Label: "Alive", Widget: WidgetBar, Format: "%.0f",
				Getter:  func(d any) float32 { return float32(runData(d).Snapshot.Alive) },
				Visible: func(d any) bool { return runData(d).Snapshot.Seeded > 0 }},
			{ID: "best", Label: "Best", Widget: WidgetText, Format: "%.1f",
				Getter: func(d any) float32 { return float32(runData(d).BestFitness) }},
		},
	},
	{
		ID:      "leader",
		Title:   "Leader",
		Visible: func(d any) bool { return runData(d).hasLeader() },
		Fields: []FieldDescriptor{
			{ID: "y", Label: "Height", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return runData(d).leaderY() }},
			{ID: "velocity", Label: "Velocity", Widget: WidgetCenteredBar,
				Getter: func(d any) float32 { return runData(d).leaderVelocity() }},
		},
	},
	{
		ID:      "previous",
		Title:   "Previous",
		Visible: func(d any) bool { return runData(d).HasPrevious },
		Fields: []FieldDescriptor{
			{ID: "prev_score", Label: "Score", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(runData(d).Previous.Score) }},
			{ID: "prev_best", Label: "Best", Widget: WidgetText, Format: "%.1f",
				Getter: func(d any) float32 { return float32(runData(d).Previous.BestFitness) }},
			{ID: "prev_mean", Label: "Mean", Widget: WidgetText, Format: "%.1f",
				Getter: func(d any) float32 { return float32(runData(d).Previous.MeanFitness) }},
			{ID: "prev_reason", Label: "Ended", Widget: WidgetText,
				TextGetter: func(d any) string { return runData(d).Previous.Reason }},
		},
	},
	{
		ID:      "hall",
		Title:   "Hall of Fame",
		Visible: func(d any) bool { return runData(d).HasHallBest },
		Fields: []FieldDescriptor{
			{ID: "hall_best", Label: "Best", Widget: WidgetText,
				TextGetter: func(d any) string { return fmt.Sprintf("%.1f", runData(d).HallBest) }},
		},
	},
}

// RunPanel renders RunSections.
type RunPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewRunPanel creates a run panel.
func NewRunPanel(x, y, width int32) *RunPanel {
	return &RunPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Height returns the panel height for data.
func (p *RunPanel) Height(data RunData) int32 {
	h := p.renderer.Theme.Padding * 2
	for _, sd := range p.sections(data) {
		h += p.renderer.SectionHeight(sd, data)
	}
	return h
}

// Draw renders the panel.
func (p *RunPanel) Draw(data RunData) {
	r := p.renderer
	r.DrawPanel(p.x, p.y, p.width, p.Height(data))

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	inner := p.width - r.Theme.Padding*2
	for _, sd := range p.sections(data) {
		y = r.DrawSection(x, y, sd, data, inner)
	}
}

// sections binds the bar ranges that depend on data.
func (p *RunPanel) sections(data RunData) []SectionDescriptor {
	out := make([]SectionDescriptor, len(RunSections))
	for i, sd := range RunSections {
		fields := make([]FieldDescriptor, len(sd.Fields))
		copy(fields, sd.Fields)
		for j := range fields {
			switch fields[j].ID {
			case "alive":
				fields[j].Range = FieldRange{Min: 0, Max: float32(data.Snapshot.Seeded)}
			case "velocity":
				fields[j].Range = FieldRange{Min: -data.VelocityRange, Max: data.VelocityRange}
			}
		}
		sd.Fields = fields
		out[i] = sd
	}
	return out
}
