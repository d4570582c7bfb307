// Package terminal draws snapshots as a character raster on a tcell screen.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
)

// Action is a viewer command decoded from input.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionFaster
	ActionSlower
)

var (
	styleSky     = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleBarrier = styleSky.Foreground(tcell.ColorGreen)
	styleGround  = styleSky.Foreground(tcell.NewRGBColor(222, 216, 149))
	styleAgent   = styleSky.Foreground(tcell.ColorYellow)
	styleHUD     = styleSky.Foreground(tcell.ColorWhite)
)

// View draws snapshots as a character raster. The bottom row holds
// the status line.
type View struct {
	screen tcell.Screen
	cfg    *config.Config
	events chan tcell.Event
	paused bool
}

// NewView opens the terminal and starts reading input.
func NewView(cfg *config.Config) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewViewWithScreen(screen, cfg), nil
}

// NewViewWithScreen wraps an initialized screen.
func NewViewWithScreen(screen tcell.Screen, cfg *config.Config) *View {
	v := &View{
		screen: screen,
		cfg:    cfg,
		events: make(chan tcell.Event, 100),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(v.events)
				return
			}
			v.events <- ev
		}
	}()
	return v
}

// Events returns the input event channel. It is closed after Close.
func (v *View) Events() <-chan tcell.Event {
	return v.events
}

// HandleEvent decodes an input event into an action.
func (v *View) HandleEvent(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return ActionQuit
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return ActionQuit
			case ' ':
				v.paused = !v.paused
				return ActionTogglePause
			case '+', '=':
				return ActionFaster
			case '-':
				return ActionSlower
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return ActionNone
}

// Paused reports whether the view is paused.
func (v *View) Paused() bool {
	return v.paused
}

// Draw renders the snapshot and the status line, then shows the screen.
func (v *View) Draw(s game.Snapshot, speed int) {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if rows < 2 || cols < 1 {
		v.screen.Show()
		return
	}

	grid := Rasterize(s, v.cfg, cols, rows-1)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			r := grid.At(col, row)
			v.screen.SetContent(col, row, r, nil, glyphStyle(r))
		}
	}

	status := fmt.Sprintf("Gen: %d  Score: %d  Alive: %d/%d  x%d", s.Generation, s.Score, s.Alive, s.Seeded, speed)
	if v.paused {
		status += "  Paused"
	}
	v.drawText(0, rows-1, status, styleHUD)
	v.screen.Show()
}

func (v *View) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func glyphStyle(r rune) tcell.Style {
	switch r {
	case GlyphBarrier:
		return styleBarrier
	case GlyphGround:
		return styleGround
	case GlyphAgent:
		return styleAgent
	}
	return styleSky
}

// Close restores the terminal.
func (v *View) Close() {
	v.screen.Fini()
}
