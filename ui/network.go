package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/glide/neural"
)

// Perception labels, in input order.
var inputLabels = [neural.NumInputs]string{"Height", "Gap top", "Gap bottom"}

var (
	colorNodeRing     = rl.Color{R: 100, G: 100, B: 100, A: 255}
	colorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	colorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	colorLabelDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

// NetworkPanel draws a network's weights and one forward pass.
type NetworkPanel struct {
	renderer      *Renderer
	x, y          int32
	width, height int32
}

// NewNetworkPanel creates a network panel.
func NewNetworkPanel(x, y, width, height int32) *NetworkPanel {
	return &NetworkPanel{renderer: NewRenderer(), x: x, y: y, width: width, height: height}
}

// Draw renders nn with act. A nil network draws a placeholder.
func (p *NetworkPanel) Draw(title string, nn *neural.FFNN, act neural.Activations) {
	r := p.renderer
	r.DrawPanel(p.x, p.y, p.width, p.height)
	y := r.DrawSectionHeader(p.x+r.Theme.Padding, p.y+r.Theme.Padding, title)

	if nn == nil {
		rl.DrawText("No network", p.x+r.Theme.Padding, y, r.Theme.FontSize, colorLabelDim)
		return
	}

	// Labels sit left of the inputs and right of the output
	const labelW, outW = 70, 40
	top := float32(y + 6)
	bottom := float32(p.y + p.height - r.Theme.Padding - 6)
	left := float32(p.x + r.Theme.Padding + labelW)
	right := float32(p.x + p.width - r.Theme.Padding - outW)

	inputs := column(neural.NumInputs, left, top, bottom)
	hidden := column(neural.NumHidden, (left+right)/2, top, bottom)
	output := column(1, right, top, bottom)

	for h := range hidden {
		for i := range inputs {
			drawEdge(inputs[i], hidden[h], nn.W1[h][i])
		}
		drawEdge(hidden[h], output[0], nn.W2[0][h])
	}

	const radius = 6
	for i, pos := range inputs {
		drawNode(pos, radius, act.Inputs[i])
		w := rl.MeasureText(inputLabels[i], 10)
		rl.DrawText(inputLabels[i], int32(pos.X-radius)-w-4, int32(pos.Y)-5, 10, colorLabelDim)
	}
	for h, pos := range hidden {
		drawNode(pos, radius, act.Hidden[h])
	}

	// The output is in [0, 1]; centre it on the jump threshold for colour
	drawNode(output[0], radius+2, 2*act.Output-1)
	label := "Glide"
	if act.Output > 0.5 {
		label = "Jump"
	}
	rl.DrawText(label, int32(output[0].X+radius+6), int32(output[0].Y)-5, 10, colorLabelDim)
}

// column spaces n nodes evenly between top and bottom at x.
func column(n int, x, top, bottom float32) []rl.Vector2 {
	nodes := make([]rl.Vector2, n)
	step := (bottom - top) / float32(n)
	for i := range nodes {
		nodes[i] = rl.Vector2{X: x, Y: top + step*(float32(i)+0.5)}
	}
	return nodes
}

func drawNode(pos rl.Vector2, radius, activation float32) {
	rl.DrawCircleV(pos, radius, activationColor(activation))
	rl.DrawCircleLinesV(pos, radius, colorNodeRing)
}

// drawEdge skips near-zero weights.
func drawEdge(from, to rl.Vector2, weight float32) {
	mag := float32(math.Abs(float64(weight)))
	if mag < 0.1 {
		return
	}

	color := colorEdgePositive
	if weight < 0 {
		color = colorEdgeNegative
	}
	color.A = uint8(min(40+mag*40, 150))

	rl.DrawLineEx(from, to, min(max(mag*1.5, 0.5), 3), color)
}

// activationColor maps negative to blue and positive to red.
func activationColor(activation float32) rl.Color {
	t := min(float32(math.Abs(float64(activation))), 1)
	lo, hi := uint8(60-t*30), uint8(60+t*195)
	if activation > 0 {
		return rl.Color{R: hi, G: lo, B: lo, A: 255}
	}
	return rl.Color{R: lo, G: lo, B: hi, A: 255}
}
