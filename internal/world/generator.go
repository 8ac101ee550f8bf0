package world

// Generator produces chunks as a pure function of seed and coordinate, so
// the same chunk always comes out the same no matter when or in which order
// it is generated.
type Generator struct {
	Seed int64

	// RegionSize is the edge length, in world units, of a biome region.
	RegionSize int
	// ElevationScale is the lattice spacing of the elevation noise.
	ElevationScale int
	// SeaLevel is the elevation (0-255) below which columns are water.
	SeaLevel int
	// OrePermille is the chance per thousand of a stone column holding ore.
	OrePermille int
}

// DefaultGenerator returns the generator settings used when none are configured.
func DefaultGenerator(seed int64) Generator {
	return Generator{
		Seed:           seed,
		RegionSize:     256,
		ElevationScale: 32,
		SeaLevel:       70,
		OrePermille:    40,
	}
}

type biome int

const (
	biomePlains biome = iota
	biomeForest
	biomeDesert
)

// Generate builds the chunk at (x, z).
func (g Generator) Generate(x, z int) *Chunk {
	ch := NewChunk(Coord{X: x, Z: z})
	for lz := 0; lz < ChunkSize; lz++ {
		for lx := 0; lx < ChunkSize; lx++ {
			wx := x*ChunkSize + lx
			wz := z*ChunkSize + lz
			ch.blocks[lx+lz*ChunkSize] = g.column(wx, wz)
		}
	}
	ch.dirty = true
	return ch
}

func (g Generator) column(wx, wz int) uint16 {
	elev := g.elevation(wx, wz)
	switch {
	case elev < g.SeaLevel:
		return BlockWater
	case elev < g.SeaLevel+6:
		return BlockSand
	case elev > 200:
		if int(Hash2(g.Seed+7, wx, wz)%1000) < clampPermille(g.OrePermille) {
			if Hash2(g.Seed+8, wx, wz)%4 == 0 {
				return BlockIronOre
			}
			return BlockCoalOre
		}
		return BlockStone
	}

	roll := Hash2(g.Seed+3, wx, wz) % 1000
	switch g.biomeAt(wx, wz) {
	case biomeForest:
		if roll < 180 {
			return BlockLog
		}
		if roll < 260 {
			return BlockDirt
		}
		return BlockGrass
	case biomeDesert:
		if roll < 40 {
			return BlockGravel
		}
		return BlockSand
	default:
		if roll < 30 {
			return BlockStone
		}
		if roll < 90 {
			return BlockDirt
		}
		return BlockGrass
	}
}

func (g Generator) biomeAt(wx, wz int) biome {
	size := g.RegionSize
	if size <= 0 {
		size = 1
	}
	switch Hash2(g.Seed+1, FloorDiv(wx, size), FloorDiv(wz, size)) % 3 {
	case 0:
		return biomePlains
	case 1:
		return biomeForest
	default:
		return biomeDesert
	}
}

// elevation samples bilinear value noise in [0, 255].
func (g Generator) elevation(wx, wz int) int {
	scale := g.ElevationScale
	if scale <= 0 {
		scale = 1
	}
	gx, gz := FloorDiv(wx, scale), FloorDiv(wz, scale)
	fx := float64(Mod(wx, scale)) / float64(scale)
	fz := float64(Mod(wz, scale)) / float64(scale)

	lattice := func(x, z int) float64 {
		return float64(Hash2(g.Seed, x, z) % 256)
	}
	top := lerp(lattice(gx, gz), lattice(gx+1, gz), smooth(fx))
	bottom := lerp(lattice(gx, gz+1), lattice(gx+1, gz+1), smooth(fx))
	return int(lerp(top, bottom, smooth(fz)))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func clampPermille(v int) int {
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}

// Hash2 mixes a seed and a 2D coordinate into a well distributed value.
func Hash2(seed int64, x, z int) uint64 {
	h := uint64(seed)
	h ^= uint64(int64(x)) * 0x9e3779b97f4a7c15
	h ^= uint64(int64(z)) * 0xc2b2ae3d27d4eb4f
	return mix64(h)
}

func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
