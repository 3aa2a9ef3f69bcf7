package world

// Size is the footprint of a location, in world units.
type Size struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height,omitempty"`
}

// Terrain describes the ground of a location.
type Terrain struct {
	Type      string   `json:"type"`                // e.g. "stone", "dirt", "grass"
	Roughness float64  `json:"roughness,omitempty"` // 0-1 surface roughness
	Features  []string `json:"features,omitempty"`  // e.g. "cracks", "moss"
}

// ArchitectureElement is one structural element placed along a polyline of
// 2D waypoints on the ground plane.
type ArchitectureElement struct {
	Type      string       `json:"type"` // "wall" or "pillar"
	Positions [][2]float64 `json:"positions"`
}

// Architecture groups a location's structural elements under a style tag.
type Architecture struct {
	Style    string                `json:"style,omitempty"` // e.g. "gothic", "rustic"
	Elements []ArchitectureElement `json:"elements,omitempty"`
}

// Decoration is a decorative prop. Torches carry multiple positions; chests
// carry a single position plus lock/loot metadata.
type Decoration struct {
	Type      string       `json:"type"`
	Positions [][2]float64 `json:"positions,omitempty"`
	Position  [2]float64   `json:"position,omitempty"`
	Locked    bool         `json:"locked,omitempty"`
	LootTable string       `json:"loot_table,omitempty"`
}

// InteractiveObject is a player-usable prop with its own state machine.
type InteractiveObject struct {
	Type         string     `json:"type"` // door, lever, chest, button
	Position     [3]float64 `json:"position"`
	Style        string     `json:"style,omitempty"`
	TriggerEvent string     `json:"trigger_event,omitempty"`
	Locked       bool       `json:"locked,omitempty"`
	LootTable    string     `json:"loot_table,omitempty"`
}

// Ambient lists the passive particle and sound tags of a location.
type Ambient struct {
	Particles []string `json:"particles,omitempty"`
	Sounds    []string `json:"sounds,omitempty"`
}

// LocationData is everything the scene composer needs to know about a
// location. A nil LocationData is a valid, expected outcome for a new or
// unpopulated location; generation proceeds with template-only content.
type LocationData struct {
	Type               string              `json:"type"` // e.g. "dungeon", "cave", "forest"
	Size               Size                `json:"size"`
	Terrain            Terrain             `json:"terrain"`
	Architecture       Architecture        `json:"architecture"`
	Decorations        []Decoration        `json:"decorations,omitempty"`
	InteractiveObjects []InteractiveObject `json:"interactive_objects,omitempty"`
	Ambient            Ambient             `json:"ambient"`
}

// HasDecoration reports whether any decoration of the given type exists.
func (l *LocationData) HasDecoration(decorationType string) bool {
	for _, d := range l.Decorations {
		if d.Type == decorationType {
			return true
		}
	}
	return false
}
