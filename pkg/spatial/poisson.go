package spatial

import (
	"math"
	"math/rand"
)

// Point is a position on the ground plane.
type Point struct {
	X float64
	Z float64
}

// DiskOptions tunes Poisson-disk sampling. Radius is the minimum mutual
// distance between accepted points, MaxPoints bounds the output size, and
// Attempts is the candidate budget per active point before it is retired.
type DiskOptions struct {
	Radius    float64
	MaxPoints int
	Attempts  int
}

// DefaultDiskOptions matches the tuning used for moss scatter.
func DefaultDiskOptions() DiskOptions {
	return DiskOptions{Radius: 2.0, MaxPoints: 100, Attempts: 30}
}

// SampleDisk scatters points over [-width/2, width/2] x [-length/2, length/2]
// so that every pair is at least opts.Radius apart, using bridge-building
// Poisson-disk sampling with a uniform background grid for neighbor lookup.
//
// The algorithm is bounded-retry: it terminates when the active set empties
// or the point budget is reached, and is not guaranteed to reach the budget.
func SampleDisk(rng *rand.Rand, width, length float64, opts DiskOptions) []Point {
	if opts.Radius <= 0 || width <= 0 || length <= 0 || opts.MaxPoints <= 0 {
		return nil
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultDiskOptions().Attempts
	}

	cellSize := opts.Radius / math.Sqrt2
	gridWidth := int(width/cellSize) + 1
	gridLength := int(length/cellSize) + 1

	// grid[gx][gz] holds the index of the point occupying that cell, -1 if none.
	grid := make([][]int, gridWidth)
	for i := range grid {
		grid[i] = make([]int, gridLength)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}

	gridIndex := func(x, z float64) (int, int) {
		gx := int((x + width/2) / cellSize)
		gz := int((z + length/2) / cellSize)
		return clamp(gx, 0, gridWidth-1), clamp(gz, 0, gridLength-1)
	}

	points := make([]Point, 0, opts.MaxPoints)
	active := []int{}

	isValid := func(x, z float64) bool {
		if x < -width/2 || x > width/2 || z < -length/2 || z > length/2 {
			return false
		}
		gx, gz := gridIndex(x, z)
		cellRange := int(opts.Radius/cellSize) + 1
		for i := -cellRange; i <= cellRange; i++ {
			for j := -cellRange; j <= cellRange; j++ {
				tx, tz := gx+i, gz+j
				if tx < 0 || tx >= gridWidth || tz < 0 || tz >= gridLength {
					continue
				}
				idx := grid[tx][tz]
				if idx == -1 {
					continue
				}
				if math.Hypot(x-points[idx].X, z-points[idx].Z) < opts.Radius {
					return false
				}
			}
		}
		return true
	}

	place := func(x, z float64) {
		points = append(points, Point{X: x, Z: z})
		active = append(active, len(points)-1)
		gx, gz := gridIndex(x, z)
		grid[gx][gz] = len(points) - 1
	}

	// Seed with one random point.
	place(rng.Float64()*width-width/2, rng.Float64()*length-length/2)

	for len(active) > 0 && len(points) < opts.MaxPoints {
		slot := rng.Intn(len(active))
		p := points[active[slot]]

		found := false
		for attempt := 0; attempt < opts.Attempts; attempt++ {
			theta := rng.Float64() * 2 * math.Pi
			r := opts.Radius + rng.Float64()*opts.Radius
			x := p.X + r*math.Cos(theta)
			z := p.Z + r*math.Sin(theta)
			if isValid(x, z) {
				place(x, z)
				found = true
				break
			}
		}

		if !found {
			// Retire the point: it stays in the output but spawns no more
			// candidates.
			active = append(active[:slot], active[slot+1:]...)
		}
	}

	return points
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
