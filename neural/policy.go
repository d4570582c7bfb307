// Package neural provides policies that map perception to a jump decision,
// including a small feedforward network and the mutation helpers the demo
// harness evolves it with.
package neural

// NumInputs is the length of the perception vector a policy receives.
const NumInputs = 3

// Policy maps a perception vector (agent y, distance to gap top, distance to
// gap bottom) to a single output. Outputs above the jump threshold jump.
type Policy interface {
	Activate(inputs [NumInputs]float64) float64
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(inputs [NumInputs]float64) float64

// Activate calls f(inputs).
func (f PolicyFunc) Activate(inputs [NumInputs]float64) float64 {
	return f(inputs)
}

// Constant returns a policy that always outputs v.
func Constant(v float64) Policy {
	return PolicyFunc(func([NumInputs]float64) float64 { return v })
}

// Policies converts networks to policies, preserving order.
func Policies(nets []*FFNN) []Policy {
	out := make([]Policy, len(nets))
	for i, nn := range nets {
		out[i] = nn
	}
	return out
}
