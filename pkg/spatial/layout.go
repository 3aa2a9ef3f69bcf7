package spatial

import (
	"fmt"
	"math"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// Fixed structural dimensions, in world units.
const (
	WallHeight    = 4.0
	WallThickness = 0.5
	PillarRadius  = 0.4
	PillarHeight  = 4.0
)

const pillarSegments = 8

// WallSegments emits one box segment per consecutive waypoint pair: sized to
// the pair's distance, rotated by the pair's angle, centered at the pair's
// midpoint. N waypoints yield N-1 segments named prefix_start .. onward.
// Wall ends are square-cut; no junction mitering.
func WallSegments(waypoints [][2]float64, prefix string, start int) []scene.ObjectDefinition {
	if prefix == "" {
		prefix = "wall"
	}
	var walls []scene.ObjectDefinition
	for i := 0; i+1 < len(waypoints); i++ {
		a, b := waypoints[i], waypoints[i+1]
		length := math.Hypot(b[0]-a[0], b[1]-a[1])
		angle := math.Atan2(b[1]-a[1], b[0]-a[0])

		walls = append(walls, scene.ObjectDefinition{
			Name: fmt.Sprintf("%s_%d", prefix, start+i),
			Geometry: &scene.GeometryDefinition{
				Type:       scene.GeometryBox,
				Parameters: []float64{length, WallHeight, WallThickness},
			},
			Material: &scene.MaterialDefinition{
				Type:      scene.MaterialStandard,
				Color:     "#808080",
				Roughness: 0.9,
				Metalness: 0.1,
			},
			Position:      scene.Vector3{X: (a[0] + b[0]) / 2, Y: WallHeight / 2, Z: (a[1] + b[1]) / 2},
			Rotation:      scene.Vector3{Y: angle},
			Scale:         scene.UnitScale(),
			CastShadow:    true,
			ReceiveShadow: true,
		})
	}
	return walls
}

// Pillars emits one cylinder per waypoint, independent of ordering,
// named prefix_start .. onward.
func Pillars(waypoints [][2]float64, prefix string, start int) []scene.ObjectDefinition {
	if prefix == "" {
		prefix = "pillar"
	}
	var pillars []scene.ObjectDefinition
	for i, p := range waypoints {
		pillars = append(pillars, scene.ObjectDefinition{
			Name: fmt.Sprintf("%s_%d", prefix, start+i),
			Geometry: &scene.GeometryDefinition{
				Type:       scene.GeometryCylinder,
				Parameters: []float64{PillarRadius, PillarRadius, PillarHeight, pillarSegments},
			},
			Material: &scene.MaterialDefinition{
				Type:      scene.MaterialStandard,
				Color:     "#808080",
				Roughness: 0.7,
				Metalness: 0.2,
			},
			Position:      scene.Vector3{X: p[0], Y: PillarHeight / 2, Z: p[1]},
			Scale:         scene.UnitScale(),
			CastShadow:    true,
			ReceiveShadow: true,
		})
	}
	return pillars
}
