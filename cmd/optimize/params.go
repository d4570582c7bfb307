package main

import (
	"fmt"

	"github.com/pthm-cable/glide/neural"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the bounds of every network weight, in neural.FFNN
// Vector order: W1, B1, W2, B2.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector bounds every weight to [-bound, bound].
func NewParamVector(bound float64) *ParamVector {
	pv := &ParamVector{Specs: make([]ParamSpec, 0, neural.NumWeights)}
	add := func(name string) {
		pv.Specs = append(pv.Specs, ParamSpec{Name: name, Min: -bound, Max: bound})
	}
	for i := 0; i < neural.NumHidden; i++ {
		for j := 0; j < neural.NumInputs; j++ {
			add(fmt.Sprintf("w1_%d_%d", i, j))
		}
	}
	for i := 0; i < neural.NumHidden; i++ {
		add(fmt.Sprintf("b1_%d", i))
	}
	for i := 0; i < neural.NumOutputs; i++ {
		for j := 0; j < neural.NumHidden; j++ {
			add(fmt.Sprintf("w2_%d_%d", i, j))
		}
	}
	for i := 0; i < neural.NumOutputs; i++ {
		add(fmt.Sprintf("b2_%d", i))
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// Network builds the policy network for raw (denormalized) values, clamped
// to bounds.
func (pv *ParamVector) Network(raw []float64) *neural.FFNN {
	return neural.FromVector(pv.Clamp(raw))
}
