package spatial

import (
	"math"
	"testing"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

func TestWallSegments(t *testing.T) {
	tests := []struct {
		name      string
		waypoints [][2]float64
		want      int
	}{
		{"no waypoints", nil, 0},
		{"single waypoint", [][2]float64{{0, 0}}, 0},
		{"straight run", [][2]float64{{0, 0}, {10, 0}}, 1},
		{"L shape", [][2]float64{{0, 0}, {10, 0}, {10, 10}}, 2},
		{"closed square", [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			walls := WallSegments(tc.waypoints, "wall", 0)
			if len(walls) != tc.want {
				t.Fatalf("expected %d segments, got %d", tc.want, len(walls))
			}
		})
	}
}

func TestWallSegments_Placement(t *testing.T) {
	walls := WallSegments([][2]float64{{0, 0}, {10, 0}}, "wall", 0)
	if len(walls) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(walls))
	}
	wall := walls[0]

	if wall.Name != "wall_0" {
		t.Errorf("expected name wall_0, got %s", wall.Name)
	}
	if wall.Geometry.Type != scene.GeometryBox {
		t.Errorf("expected box geometry, got %s", wall.Geometry.Type)
	}
	if got := wall.Geometry.Parameters[0]; got != 10 {
		t.Errorf("expected length 10, got %g", got)
	}
	if wall.Position.X != 5 || wall.Position.Z != 0 {
		t.Errorf("expected midpoint (5, 0), got (%g, %g)", wall.Position.X, wall.Position.Z)
	}
	if wall.Position.Y != WallHeight/2 {
		t.Errorf("expected center height %g, got %g", WallHeight/2, wall.Position.Y)
	}
	if wall.Rotation.Y != 0 {
		t.Errorf("expected no yaw for an x-axis run, got %g", wall.Rotation.Y)
	}
}

func TestWallSegments_DiagonalAngle(t *testing.T) {
	walls := WallSegments([][2]float64{{0, 0}, {10, 10}}, "wall", 0)
	wall := walls[0]

	wantLen := math.Hypot(10, 10)
	if math.Abs(wall.Geometry.Parameters[0]-wantLen) > 1e-9 {
		t.Errorf("expected length %g, got %g", wantLen, wall.Geometry.Parameters[0])
	}
	if math.Abs(wall.Rotation.Y-math.Pi/4) > 1e-9 {
		t.Errorf("expected yaw pi/4, got %g", wall.Rotation.Y)
	}
}

func TestWallSegments_StartOffset(t *testing.T) {
	walls := WallSegments([][2]float64{{0, 0}, {5, 0}, {5, 5}}, "wall", 3)
	if walls[0].Name != "wall_3" || walls[1].Name != "wall_4" {
		t.Errorf("expected wall_3 and wall_4, got %s and %s", walls[0].Name, walls[1].Name)
	}
}

func TestPillars(t *testing.T) {
	waypoints := [][2]float64{{5, 5}, {15, 5}, {10, 10}}
	pillars := Pillars(waypoints, "pillar", 0)

	if len(pillars) != len(waypoints) {
		t.Fatalf("expected %d pillars, got %d", len(waypoints), len(pillars))
	}
	for i, p := range pillars {
		if p.Geometry.Type != scene.GeometryCylinder {
			t.Errorf("pillar %d: expected cylinder geometry, got %s", i, p.Geometry.Type)
		}
		if p.Position.X != waypoints[i][0] || p.Position.Z != waypoints[i][1] {
			t.Errorf("pillar %d: expected position (%g, %g), got (%g, %g)",
				i, waypoints[i][0], waypoints[i][1], p.Position.X, p.Position.Z)
		}
		if p.Position.Y != PillarHeight/2 {
			t.Errorf("pillar %d: expected center height %g, got %g", i, PillarHeight/2, p.Position.Y)
		}
	}
}
