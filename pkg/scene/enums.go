package scene

// GeometryType identifies a Three.js geometry. The set is closed; unknown
// tags are rejected at validation rather than passed through as free strings.
type GeometryType string

const (
	GeometryBox       GeometryType = "BoxGeometry"
	GeometryPlane     GeometryType = "PlaneGeometry"
	GeometryCylinder  GeometryType = "CylinderGeometry"
	GeometrySphere    GeometryType = "SphereGeometry"
	GeometryCone      GeometryType = "ConeGeometry"
	GeometryTorus     GeometryType = "TorusGeometry"
	GeometryInstanced GeometryType = "InstancedMesh"
)

func (g GeometryType) Validate() error {
	switch g {
	case GeometryBox, GeometryPlane, GeometryCylinder, GeometrySphere,
		GeometryCone, GeometryTorus, GeometryInstanced:
		return nil
	}
	return Structuralf("unknown geometry type %q", string(g))
}

// MaterialType identifies a Three.js material.
type MaterialType string

const (
	MaterialStandard MaterialType = "MeshStandardMaterial"
	MaterialBasic    MaterialType = "MeshBasicMaterial"
	MaterialPhong    MaterialType = "MeshPhongMaterial"
	MaterialLambert  MaterialType = "MeshLambertMaterial"
)

func (m MaterialType) Validate() error {
	switch m {
	case MaterialStandard, MaterialBasic, MaterialPhong, MaterialLambert:
		return nil
	}
	return Structuralf("unknown material type %q", string(m))
}

// LightType identifies a light source kind.
type LightType string

const (
	LightAmbient     LightType = "ambient"
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
	LightHemisphere  LightType = "hemisphere"
)

func (l LightType) Validate() error {
	switch l {
	case LightAmbient, LightDirectional, LightPoint, LightSpot, LightHemisphere:
		return nil
	}
	return Structuralf("unknown light type %q", string(l))
}

// Easing names an interpolation curve for keyframes and transitions.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseInQuad     Easing = "easeInQuad"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutQuad  Easing = "easeInOutQuad"
	EaseOutBounce  Easing = "easeOutBounce"
	EaseOutElastic Easing = "easeOutElastic"
)

func (e Easing) Validate() error {
	switch e {
	case "", EaseLinear, EaseInQuad, EaseOutQuad, EaseInOutQuad,
		EaseOutBounce, EaseOutElastic:
		return nil
	}
	return Structuralf("unknown easing %q", string(e))
}
