package world

import (
	"fmt"
	"math"
)

const (
	// ChunkSize is the edge length of a chunk in world units.
	ChunkSize = 16

	// WindowRadius is how many chunks around a player's chunk stay resident.
	WindowRadius = 2
)

// Coord addresses a chunk on the horizontal grid.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Position is a point in world units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ChunkCoordOf returns the coordinate of the chunk containing pos. Negative
// positions floor away from zero, so x = -0.5 lands in chunk -1.
func ChunkCoordOf(pos Position) Coord {
	return Coord{
		X: int(math.Floor(pos.X / ChunkSize)),
		Z: int(math.Floor(pos.Z / ChunkSize)),
	}
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod returns a non-negative remainder for positive b.
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Window returns every coordinate within radius chunks of center, row by row.
// The result always holds (2*radius+1)^2 entries.
func Window(center Coord, radius int) []Coord {
	if radius < 0 {
		radius = 0
	}
	side := 2*radius + 1
	out := make([]Coord, 0, side*side)
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			out = append(out, Coord{X: center.X + dx, Z: center.Z + dz})
		}
	}
	return out
}

// InWindow reports whether c lies within radius chunks of center.
func InWindow(center, c Coord, radius int) bool {
	return abs(c.X-center.X) <= radius && abs(c.Z-center.Z) <= radius
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
