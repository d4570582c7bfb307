package systems

// Tick phase IDs, in execution order. Perf tracking and the HUD key on these.
const (
	PhasePerceive  = "perceive"
	PhasePhysics   = "physics"
	PhaseCollision = "collision"
	PhaseObstacles = "obstacles"
	PhaseCull      = "cull"
	PhaseCompact   = "compact"
)

// SystemInfo describes a tick phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes naming so the HUD and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all tick phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the phases in the order a tick runs them.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhasePerceive, Name: "Perceive", Description: "Queries policies and applies jumps"})
	r.Register(SystemInfo{ID: PhasePhysics, Name: "Physics", Description: "Advances agent kinematics"})
	r.Register(SystemInfo{ID: PhaseCollision, Name: "Collision", Description: "Tests agents against barriers, detects passes"})
	r.Register(SystemInfo{ID: PhaseObstacles, Name: "Obstacles", Description: "Retires, scrolls and spawns obstacles"})
	r.Register(SystemInfo{ID: PhaseCull, Name: "Cull", Description: "Removes agents outside the world bounds"})
	r.Register(SystemInfo{ID: PhaseCompact, Name: "Compact", Description: "Compacts the population containers"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
