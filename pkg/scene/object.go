package scene

// GeometryDefinition describes a primitive geometry or an instanced-mesh
// wrapper around one. Parameters follow the Three.js constructor order for
// the geometry type (e.g. BoxGeometry: width, height, depth).
type GeometryDefinition struct {
	Type       GeometryType `json:"type"`
	Parameters []float64    `json:"parameters,omitempty"`

	// Set only when Type is InstancedMesh.
	BaseGeometry  *GeometryDefinition `json:"base_geometry,omitempty"`
	InstanceCount int                 `json:"instance_count,omitempty"`
}

// Validate checks the geometry tag, recursing into an instanced wrapper.
func (g *GeometryDefinition) Validate() error {
	if err := g.Type.Validate(); err != nil {
		return err
	}
	if g.Type == GeometryInstanced {
		if g.BaseGeometry == nil {
			return Structuralf("instanced mesh without base geometry")
		}
		return g.BaseGeometry.Validate()
	}
	return nil
}

// MaterialDefinition describes the surface of an object. Texture map fields
// hold asset identifiers to be resolved externally.
type MaterialDefinition struct {
	Type              MaterialType `json:"type"`
	Color             string       `json:"color,omitempty"` // hex, e.g. "#808080"
	Roughness         float64      `json:"roughness,omitempty"`
	Metalness         float64      `json:"metalness,omitempty"`
	Opacity           *float64     `json:"opacity,omitempty"`
	Transparent       bool         `json:"transparent,omitempty"`
	AlphaTest         *float64     `json:"alpha_test,omitempty"`
	Emissive          string       `json:"emissive,omitempty"`
	EmissiveIntensity *float64     `json:"emissive_intensity,omitempty"`
	Map               string       `json:"map,omitempty"`
	NormalMap         string       `json:"normal_map,omitempty"`
	RoughnessMap      string       `json:"roughness_map,omitempty"`
}

func (m *MaterialDefinition) Validate() error {
	return m.Type.Validate()
}

// InstanceData carries per-instance transforms for an InstancedMesh object.
// The three slices are index-aligned.
type InstanceData struct {
	Positions []Vector3 `json:"positions"`
	Rotations []Vector3 `json:"rotations"`
	Scales    []Vector3 `json:"scales"`
}

// InteractionData is the state-machine payload of an interactive object:
// its animation states, the starting state, and bound variables that gate
// transitions (e.g. is_locked on a chest).
type InteractionData struct {
	Type         string           `json:"type"` // door, lever, chest, button
	States       []AnimationState `json:"states"`
	CurrentState string           `json:"current_state"`
	Variables    map[string]any   `json:"variables,omitempty"`
	Highlight    bool             `json:"highlight,omitempty"`
	Events       map[string]any   `json:"events,omitempty"`
}

// ObjectDefinition is one object in a generated scene. Names are unique
// within a scene; generators that emit numbered instances must not collide
// with template-supplied names.
type ObjectDefinition struct {
	Name            string              `json:"name"`
	Geometry        *GeometryDefinition `json:"geometry,omitempty"`
	ModelID         string              `json:"model_id,omitempty"` // external model asset reference
	Material        *MaterialDefinition `json:"material,omitempty"`
	Position        Vector3             `json:"position"`
	Rotation        Vector3             `json:"rotation"`
	Scale           Vector3             `json:"scale"`
	CastShadow      bool                `json:"cast_shadow,omitempty"`
	ReceiveShadow   bool                `json:"receive_shadow,omitempty"`
	RenderOrder     int                 `json:"render_order,omitempty"`
	Interactive     bool                `json:"interactive,omitempty"`
	InteractionData *InteractionData    `json:"interaction_data,omitempty"`
	InstanceData    *InstanceData       `json:"instance_data,omitempty"`

	// Raw animation specs attached by pattern application.
	Animations []map[string]any `json:"animations,omitempty"`
}

// Validate checks the closed-enum fields of the object.
func (o *ObjectDefinition) Validate() error {
	if o.Name == "" {
		return Structuralf("object without a name")
	}
	if o.Geometry != nil {
		if err := o.Geometry.Validate(); err != nil {
			return err
		}
	}
	if o.Material != nil {
		if err := o.Material.Validate(); err != nil {
			return err
		}
	}
	return nil
}
