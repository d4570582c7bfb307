package neural

import (
	"math"
	"math/rand"
)

// Network dimensions (compile-time constants for array sizing).
const (
	NumHidden  = 6
	NumOutputs = 1 // jump

	// NumWeights is the length of the flat parameter vector.
	NumWeights = NumHidden*NumInputs + NumHidden + NumOutputs*NumHidden + NumOutputs
)

// inputScale brings world-unit perception values near [-1, 1]
// so the hidden tanh layer does not saturate.
const inputScale = 0.01

// FFNN is a simple two-layer feedforward neural network.
type FFNN struct {
	W1 [NumHidden][NumInputs]float32  // input -> hidden weights
	B1 [NumHidden]float32             // hidden biases
	W2 [NumOutputs][NumHidden]float32 // hidden -> output weights
	B2 [NumOutputs]float32            // output biases
}

// NewFFNN creates a randomly initialized network.
func NewFFNN(rng *rand.Rand) *FFNN {
	nn := &FFNN{}
	// Xavier initialization
	scale1 := float32(math.Sqrt(2.0 / float64(NumInputs)))
	scale2 := float32(math.Sqrt(2.0 / float64(NumHidden)))

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(rng.NormFloat64()) * scale1
		}
		nn.B1[i] = 0
	}

	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = float32(rng.NormFloat64()) * scale2
		}
		nn.B2[i] = 0
	}

	return nn
}

// Activate implements Policy. Output is in [0, 1].
func (nn *FFNN) Activate(inputs [NumInputs]float64) float64 {
	return float64(nn.Trace(inputs).Output)
}

// Activations holds every layer's values for one forward pass.
type Activations struct {
	Inputs [NumInputs]float32 // scaled
	Hidden [NumHidden]float32
	Output float32
}

// Trace is Activate keeping the intermediate layers, for display.
func (nn *FFNN) Trace(inputs [NumInputs]float64) Activations {
	var in [NumInputs]float32
	for i, v := range inputs {
		in[i] = float32(v * inputScale)
	}
	return nn.forward(in)
}

func (nn *FFNN) forward(in [NumInputs]float32) Activations {
	act := Activations{Inputs: in}
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * in[j]
		}
		act.Hidden[i] = tanh(sum)
	}

	sum := nn.B2[0]
	for j := 0; j < NumHidden; j++ {
		sum += nn.W2[0][j] * act.Hidden[j]
	}

	// Saturating linear: raw=0 maps to 0.5, right at the jump threshold
	act.Output = saturate01(sum*0.5 + 0.5)
	return act
}

// saturate01 clamps x to [0, 1] - fastest possible [0,1] activation.
func saturate01(x float32) float32 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}

// Mutate perturbs weights and biases with Gaussian noise.
func (nn *FFNN) Mutate(rng *rand.Rand, strength float32) {
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] += float32(rng.NormFloat64()) * strength
		}
		nn.B1[i] += float32(rng.NormFloat64()) * strength
	}

	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] += float32(rng.NormFloat64()) * strength
		}
		nn.B2[i] += float32(rng.NormFloat64()) * strength
	}
}

// MutateSparse applies sparse per-weight mutation.
// rate: probability each weight mutates
// sigma: standard deviation of normal perturbation
// bigRate: probability a mutation is large
// bigSigma: sigma for large mutations
// Returns avgAbsDelta: the average absolute delta of all applied mutations.
func (nn *FFNN) MutateSparse(rng *rand.Rand, rate, sigma, bigRate, bigSigma float32) float32 {
	var totalDelta float32
	var count int

	perturb := func(w *float32, p float32) {
		if rng.Float32() >= p {
			return
		}
		var delta float32
		if rng.Float32() < bigRate {
			delta = float32(rng.NormFloat64()) * bigSigma
		} else {
			delta = float32(rng.NormFloat64()) * sigma
		}
		*w += delta
		totalDelta += abs32(delta)
		count++
	}

	// biases mutate at half the rate
	biasRate := rate * 0.5
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			perturb(&nn.W1[i][j], rate)
		}
		perturb(&nn.B1[i], biasRate)
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			perturb(&nn.W2[i][j], rate)
		}
		perturb(&nn.B2[i], biasRate)
	}

	if count == 0 {
		return 0
	}
	return totalDelta / float32(count)
}

// abs32 returns the absolute value of x.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clone creates a deep copy of the network.
func (nn *FFNN) Clone() *FFNN {
	clone := *nn
	return &clone
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// Vector returns the parameters as a flat slice: W1, B1, W2, B2.
func (nn *FFNN) Vector() []float64 {
	v := make([]float64, 0, NumWeights)
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			v = append(v, float64(nn.W1[i][j]))
		}
	}
	for i := range nn.B1 {
		v = append(v, float64(nn.B1[i]))
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			v = append(v, float64(nn.W2[i][j]))
		}
	}
	for i := range nn.B2 {
		v = append(v, float64(nn.B2[i]))
	}
	return v
}

// FromVector builds a network from a flat parameter slice laid out as by Vector.
// Missing trailing values are left zero.
func FromVector(v []float64) *FFNN {
	nn := &FFNN{}
	k := 0
	next := func() float32 {
		if k >= len(v) {
			return 0
		}
		x := float32(v[k])
		k++
		return x
	}
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = next()
		}
	}
	for i := range nn.B1 {
		nn.B1[i] = next()
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = next()
		}
	}
	for i := range nn.B2 {
		nn.B2[i] = next()
	}
	return nn
}

// BrainWeights holds flattened network weights for serialization.
type BrainWeights struct {
	W1 []float32 `json:"w1"` // [NumHidden * NumInputs]
	B1 []float32 `json:"b1"` // [NumHidden]
	W2 []float32 `json:"w2"` // [NumOutputs * NumHidden]
	B2 []float32 `json:"b2"` // [NumOutputs]
}

// MarshalWeights flattens the network weights for JSON serialization.
func (nn *FFNN) MarshalWeights() BrainWeights {
	bw := BrainWeights{
		W1: make([]float32, NumHidden*NumInputs),
		B1: make([]float32, NumHidden),
		W2: make([]float32, NumOutputs*NumHidden),
		B2: make([]float32, NumOutputs),
	}

	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			bw.W1[i*NumInputs+j] = nn.W1[i][j]
		}
	}
	copy(bw.B1, nn.B1[:])

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			bw.W2[i*NumHidden+j] = nn.W2[i][j]
		}
	}
	copy(bw.B2, nn.B2[:])

	return bw
}

// UnmarshalWeights restores network weights from flattened form.
func (nn *FFNN) UnmarshalWeights(bw BrainWeights) {
	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			if i*NumInputs+j < len(bw.W1) {
				nn.W1[i][j] = bw.W1[i*NumInputs+j]
			}
		}
	}
	for i := 0; i < NumHidden && i < len(bw.B1); i++ {
		nn.B1[i] = bw.B1[i]
	}

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			if i*NumHidden+j < len(bw.W2) {
				nn.W2[i][j] = bw.W2[i*NumHidden+j]
			}
		}
	}
	for i := 0; i < NumOutputs && i < len(bw.B2); i++ {
		nn.B2[i] = bw.B2[i]
	}
}
