// Package renderer draws simulation snapshots into a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/glide/anim"
	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
)

var (
	colorSkyTop    = rl.Color{R: 78, G: 192, B: 202, A: 255}
	colorSkyBottom = rl.Color{R: 200, G: 236, B: 230, A: 255}
	colorPipe      = rl.Color{R: 116, G: 191, B: 46, A: 255}
	colorPipeEdge  = rl.Color{R: 84, G: 56, B: 71, A: 255}
	colorGround    = rl.Color{R: 222, G: 216, B: 149, A: 255}
	colorGrass     = rl.Color{R: 115, G: 191, B: 46, A: 255}
	colorBird      = rl.Color{R: 248, G: 200, B: 48, A: 255}
	colorWing      = rl.Color{R: 250, G: 240, B: 200, A: 255}
	colorHitbox    = rl.Color{R: 255, G: 60, B: 60, A: 200}
	colorTarget    = rl.Color{R: 255, G: 255, B: 255, A: 160}
)

// pipeCap is the height of the lip drawn at the gap end of each barrier.
const pipeCap = 24

// SceneOptions selects debug layers drawn over the scene.
type SceneOptions struct {
	Hitboxes bool
	Target   bool
}

// SceneRenderer draws snapshots into the current raylib frame.
type SceneRenderer struct {
	cfg        *config.Config
	scale      float32
	background *BackgroundRenderer
	ground     *anim.Ground
	poses      *anim.Animator

	lastTick   int
	generation int
}

// NewSceneRenderer creates a scene renderer. Init must be called once the
// raylib window exists.
func NewSceneRenderer(cfg *config.Config) *SceneRenderer {
	return &SceneRenderer{
		cfg:        cfg,
		scale:      float32(cfg.Screen.Scale),
		background: NewBackgroundRenderer(cfg.Derived.ScreenW, cfg.Derived.ScreenH, colorSkyTop, colorSkyBottom),
		ground:     anim.NewGround(cfg.World.Width, cfg.Obstacles.ScrollVelocity),
		poses:      anim.NewAnimator(),
	}
}

// Init loads GPU resources.
func (r *SceneRenderer) Init() {
	r.background.Init()
}

// Unload frees GPU resources.
func (r *SceneRenderer) Unload() {
	r.background.Unload()
}

// Draw renders the snapshot.
func (r *SceneRenderer) Draw(s game.Snapshot, opts SceneOptions) {
	r.advance(s)

	groundY := r.px(r.cfg.World.GroundY)
	r.background.Draw(groundY)

	for i := range s.Obstacles {
		r.drawObstacle(s, i, opts)
	}
	r.drawGround(groundY)

	for _, a := range s.Agents {
		tilt, wing := r.poses.Pose(a.Slot)
		r.drawAgent(a.X, a.Y, tilt, wing)
		if opts.Hitboxes {
			inset := r.cfg.Agent.HitboxInset
			if r.cfg.Agent.Shape == config.ShapeMask {
				inset = 0
			}
			rl.DrawRectangleLinesEx(r.rect(a.X+inset, a.Y+inset, r.cfg.Agent.Width-2*inset, r.cfg.Agent.Height-2*inset), 1, colorHitbox)
		}
	}
}

// advance scrolls the ground and background once per simulated tick since
// the last frame, and resets them on a new generation.
func (r *SceneRenderer) advance(s game.Snapshot) {
	if s.Generation != r.generation {
		r.generation = s.Generation
		r.lastTick = 0
		r.ground = anim.NewGround(r.cfg.World.Width, r.cfg.Obstacles.ScrollVelocity)
	}
	for ; r.lastTick < s.Tick; r.lastTick++ {
		r.ground.Scroll()
		r.background.Scroll(float32(r.ground.Velocity) * r.scale)
	}
	r.poses.Sync(s)
}

func (r *SceneRenderer) drawObstacle(s game.Snapshot, i int, opts SceneOptions) {
	o := &s.Obstacles[i]
	t0, t1 := o.TopBarrier()
	b0, b1 := o.BottomBarrier()

	top := r.rect(o.X, t0, o.Width, t1-t0)
	bottom := r.rect(o.X, b0, o.Width, b1-b0)
	rl.DrawRectangleRec(top, colorPipe)
	rl.DrawRectangleRec(bottom, colorPipe)
	rl.DrawRectangleLinesEx(top, 2, colorPipeEdge)
	rl.DrawRectangleLinesEx(bottom, 2, colorPipeEdge)

	// Lips overhang the barrier by a few units either side
	lipTop := r.rect(o.X-4, t1-pipeCap, o.Width+8, pipeCap)
	lipBottom := r.rect(o.X-4, b0, o.Width+8, pipeCap)
	rl.DrawRectangleRec(lipTop, colorPipe)
	rl.DrawRectangleRec(lipBottom, colorPipe)
	rl.DrawRectangleLinesEx(lipTop, 2, colorPipeEdge)
	rl.DrawRectangleLinesEx(lipBottom, 2, colorPipeEdge)

	if opts.Hitboxes {
		rl.DrawRectangleLinesEx(top, 1, colorHitbox)
		rl.DrawRectangleLinesEx(bottom, 1, colorHitbox)
	}
	if opts.Target && i == s.Target {
		gap := r.rect(o.X, o.GapTop, o.Width, o.GapBottom-o.GapTop)
		rl.DrawRectangleLinesEx(gap, 2, colorTarget)
		for _, a := range s.Agents {
			from := rl.Vector2{X: r.px(a.X + r.cfg.Agent.Width/2), Y: r.px(a.Y)}
			rl.DrawLineV(from, rl.Vector2{X: r.px(o.X), Y: r.px(o.GapTop)}, colorTarget)
			rl.DrawLineV(from, rl.Vector2{X: r.px(o.X), Y: r.px(o.GapBottom)}, colorTarget)
		}
	}
}

func (r *SceneRenderer) drawGround(groundY float32) {
	h := float32(r.cfg.Derived.ScreenH) - groundY
	for _, x := range []float64{r.ground.X1, r.ground.X2} {
		sx := r.px(x)
		w := r.px(r.ground.Width)
		rl.DrawRectangleV(rl.Vector2{X: sx, Y: groundY}, rl.Vector2{X: w, Y: h}, colorGround)
		rl.DrawRectangleV(rl.Vector2{X: sx, Y: groundY}, rl.Vector2{X: w, Y: 12 * r.scale}, colorGrass)
		// Stripes make the scroll visible
		for off := float32(0); off < w; off += 24 * r.scale {
			rl.DrawTriangle(
				rl.Vector2{X: sx + off, Y: groundY + 12*r.scale},
				rl.Vector2{X: sx + off + 12*r.scale, Y: groundY + 12*r.scale},
				rl.Vector2{X: sx + off + 12*r.scale, Y: groundY},
				colorPipeEdge,
			)
		}
	}
}

// drawAgent draws a bird rotated about its centre. Positive tilt is nose up,
// which is counter-clockwise on screen.
func (r *SceneRenderer) drawAgent(x, y, tilt float64, wing anim.WingFrame) {
	w, h := r.px(r.cfg.Agent.Width), r.px(r.cfg.Agent.Height)
	cx, cy := r.px(x)+w/2, r.px(y)+h/2
	rot := float32(-tilt)

	body := rl.Rectangle{X: cx, Y: cy, Width: w * 0.8, Height: h * 0.8}
	rl.DrawRectanglePro(body, rl.Vector2{X: body.Width / 2, Y: body.Height / 2}, rot, colorBird)

	var wingY float32
	switch wing {
	case anim.WingUp:
		wingY = -h * 0.25
	case anim.WingDown:
		wingY = h * 0.15
	}
	wingRect := rl.Rectangle{X: cx, Y: cy, Width: w * 0.35, Height: h * 0.25}
	rl.DrawRectanglePro(wingRect, rl.Vector2{X: w * 0.3, Y: -wingY}, rot, colorWing)

	beak := rl.Rectangle{X: cx, Y: cy, Width: w * 0.2, Height: h * 0.2}
	rl.DrawRectanglePro(beak, rl.Vector2{X: -w * 0.35, Y: 0}, rot, rl.Orange)
}

func (r *SceneRenderer) px(v float64) float32 {
	return float32(v) * r.scale
}

func (r *SceneRenderer) rect(x, y, w, h float64) rl.Rectangle {
	return rl.Rectangle{X: r.px(x), Y: r.px(y), Width: r.px(w), Height: r.px(h)}
}
