package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHitboxes OverlayID = "hitboxes"
	OverlayTarget   OverlayID = "target"
	OverlayRunPanel OverlayID = "run_panel"
	OverlayPerf     OverlayID = "perf"
	OverlayNetwork  OverlayID = "network"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "B")
	Category    string      // Grouping: "debug" or "info"
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayHitboxes,
		Name:        "Hitboxes",
		Description: "Outline agent and barrier collision bounds",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayTarget,
		Name:        "Perception Target",
		Description: "Highlight the gap agents are perceiving",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "debug",
	})

	// The two panels share the right edge
	r.Register(OverlayDescriptor{
		ID:          OverlayRunPanel,
		Name:        "Run Panel",
		Description: "Generation, leader and previous generation stats",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "info",
		Exclusive:   []OverlayID{OverlayPerf},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Tick Performance",
		Description: "Average time per tick phase",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "info",
		Exclusive:   []OverlayID{OverlayRunPanel},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayNetwork,
		Name:        "Leader Network",
		Description: "Weights and activations of the leading agent's network",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "info",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state. Enabling an overlay
// disables the overlays it excludes. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
