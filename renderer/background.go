package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer draws the sky: a vertical gradient baked into a
// texture once, plus a slow parallax skyline.
type BackgroundRenderer struct {
	target rl.RenderTexture2D

	screenW, screenH int32
	top, bottom      rl.Color
	skylineX         float32
	initialized      bool
}

// skylineSpeed is the skyline scroll per tick as a fraction of the ground speed.
const skylineSpeed = 0.2

// NewBackgroundRenderer creates a background for a screen of the given size.
func NewBackgroundRenderer(screenW, screenH int32, top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     top,
		bottom:  bottom,
	}
}

// Init bakes the gradient (must be called after the raylib window is created).
func (b *BackgroundRenderer) Init() {
	if b.initialized {
		return
	}

	b.target = rl.LoadRenderTexture(b.screenW, b.screenH)
	rl.BeginTextureMode(b.target)
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
	rl.EndTextureMode()

	b.initialized = true
}

// Scroll moves the skyline by one tick of ground motion.
func (b *BackgroundRenderer) Scroll(groundVelocity float32) {
	b.skylineX -= groundVelocity * skylineSpeed
	if b.skylineX <= -float32(b.screenW) {
		b.skylineX += float32(b.screenW)
	}
}

// Draw renders the sky and the skyline above groundY (screen pixels).
func (b *BackgroundRenderer) Draw(groundY float32) {
	if !b.initialized {
		b.Init()
	}

	// Render textures are stored upside down
	src := rl.Rectangle{Width: float32(b.target.Texture.Width), Height: -float32(b.target.Texture.Height)}
	rl.DrawTextureRec(b.target.Texture, src, rl.Vector2{}, rl.White)

	skyline := rl.Color{R: 160, G: 210, B: 200, A: 255}
	w := float32(b.screenW)
	for _, offset := range []float32{b.skylineX, b.skylineX + w} {
		for i := float32(0); i < w; i += 40 {
			// Deterministic building heights from the column index
			h := 30 + float32((int(i)*37)%70)
			rl.DrawRectangleV(rl.Vector2{X: offset + i, Y: groundY - h}, rl.Vector2{X: 36, Y: h}, skyline)
		}
	}
}

// Unload frees resources.
func (b *BackgroundRenderer) Unload() {
	if b.initialized {
		rl.UnloadRenderTexture(b.target)
		b.initialized = false
	}
}
