package spatial

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleDisk_MinimumSeparationAndBounds(t *testing.T) {
	cases := []struct {
		name   string
		width  float64
		length float64
		radius float64
	}{
		{"square", 50, 50, 2.0},
		{"wide", 80, 20, 3.5},
		{"narrow", 10, 60, 1.5},
		{"tight radius", 30, 30, 0.5},
		{"radius larger than room", 8, 8, 5.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				rng := rand.New(rand.NewSource(seed))
				points := SampleDisk(rng, tc.width, tc.length, DiskOptions{
					Radius:    tc.radius,
					MaxPoints: 100,
					Attempts:  30,
				})

				if len(points) == 0 {
					t.Fatalf("seed %d: no points", seed)
				}
				if len(points) > 100 {
					t.Fatalf("seed %d: budget exceeded: %d points", seed, len(points))
				}

				for _, p := range points {
					if p.X < -tc.width/2 || p.X > tc.width/2 ||
						p.Z < -tc.length/2 || p.Z > tc.length/2 {
						t.Fatalf("seed %d: point (%g, %g) out of bounds", seed, p.X, p.Z)
					}
				}

				for i := 0; i < len(points); i++ {
					for j := i + 1; j < len(points); j++ {
						d := math.Hypot(points[i].X-points[j].X, points[i].Z-points[j].Z)
						if d < tc.radius {
							t.Fatalf("seed %d: points %d and %d only %g apart (radius %g)",
								seed, i, j, d, tc.radius)
						}
					}
				}
			}
		})
	}
}

func TestSampleDisk_Deterministic(t *testing.T) {
	opts := DefaultDiskOptions()
	first := SampleDisk(rand.New(rand.NewSource(7)), 40, 40, opts)
	second := SampleDisk(rand.New(rand.NewSource(7)), 40, 40, opts)

	if len(first) != len(second) {
		t.Fatalf("point counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSampleDisk_BudgetRespected(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := SampleDisk(rng, 100, 100, DiskOptions{Radius: 1.0, MaxPoints: 10, Attempts: 30})
	if len(points) != 10 {
		t.Fatalf("expected the full budget of 10 points in a roomy bound, got %d", len(points))
	}
}

func TestSampleDisk_DegenerateInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := []struct {
		name string
		w, l float64
		opts DiskOptions
	}{
		{"zero width", 0, 10, DiskOptions{Radius: 1, MaxPoints: 10, Attempts: 5}},
		{"zero radius", 10, 10, DiskOptions{Radius: 0, MaxPoints: 10, Attempts: 5}},
		{"zero budget", 10, 10, DiskOptions{Radius: 1, MaxPoints: 0, Attempts: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if points := SampleDisk(rng, tc.w, tc.l, tc.opts); points != nil {
				t.Fatalf("expected nil, got %d points", len(points))
			}
		})
	}
}
