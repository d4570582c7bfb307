package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggles as raygui checkboxes. Clicking a
// checkbox has the same effect as its hotkey.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel, hidden.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the registry's overlays.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(0)
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	return rows*(t.LineHeight+4) + t.Padding*2 + t.LineHeight + 4
}

// Draw renders the panel and applies any checkbox changes to overlays.
// Returns the y coordinate below the panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	rowHeight := r.Theme.LineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += rowHeight

		for _, desc := range overlays.ByCategory(category) {
			bounds := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: 12, Height: 12}
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(bounds, label, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			y += rowHeight
		}
	}

	return y + padding
}

// Legend returns the hotkey legend for every overlay, in registration order.
func Legend(overlays *OverlayRegistry) string {
	parts := make([]string, 0, len(overlays.All()))
	for _, desc := range overlays.All() {
		if desc.KeyLabel == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", desc.KeyLabel, desc.Name))
	}
	return strings.Join(parts, "  ")
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "debug":
		return "Debug"
	case "info":
		return "Info"
	default:
		return cat
	}
}
