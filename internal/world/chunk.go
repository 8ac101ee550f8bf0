package world

import (
	"sync"
	"sync/atomic"
	"time"
)

// BlocksPerChunk is the number of columns held by a chunk.
const BlocksPerChunk = ChunkSize * ChunkSize

// Block ids.
const (
	BlockAir uint16 = iota
	BlockGrass
	BlockDirt
	BlockStone
	BlockSand
	BlockWater
	BlockLog
	BlockGravel
	BlockCoalOre
	BlockIronOre
)

var blockNames = []string{
	BlockAir:     "air",
	BlockGrass:   "grass",
	BlockDirt:    "dirt",
	BlockStone:   "stone",
	BlockSand:    "sand",
	BlockWater:   "water",
	BlockLog:     "log",
	BlockGravel:  "gravel",
	BlockCoalOre: "coal ore",
	BlockIronOre: "iron ore",
}

// BlockName returns a display name for block id b.
func BlockName(b uint16) string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return "unknown"
}

// Chunk is a 16x16 column of surface blocks. Block data is guarded by the
// chunk's own lock; the access timestamp and active flag are atomic so the
// gameplay tick can touch chunks without contending with saves.
type Chunk struct {
	Coord Coord

	mu     sync.RWMutex
	blocks [BlocksPerChunk]uint16
	dirty  bool

	lastAccessed atomic.Int64
	active       atomic.Bool
}

// NewChunk creates an empty (all air) chunk at c.
func NewChunk(c Coord) *Chunk {
	ch := &Chunk{Coord: c}
	ch.Touch(time.Now())
	ch.active.Store(true)
	return ch
}

func index(x, z int) int {
	return Mod(x, ChunkSize) + Mod(z, ChunkSize)*ChunkSize
}

// Block returns the block at local column (x, z).
func (c *Chunk) Block(x, z int) uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[index(x, z)]
}

// SetBlock changes the block at local column (x, z) and marks the chunk dirty.
func (c *Chunk) SetBlock(x, z int, b uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := index(x, z)
	if c.blocks[i] == b {
		return
	}
	c.blocks[i] = b
	c.dirty = true
}

// Blocks returns a copy of the block data.
func (c *Chunk) Blocks() [BlocksPerChunk]uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks
}

// Dirty reports whether the chunk has unsaved changes.
func (c *Chunk) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

func (c *Chunk) markClean(saved [BlocksPerChunk]uint16) {
	c.mu.Lock()
	// Only clear if nothing changed while the save was in flight.
	if c.blocks == saved {
		c.dirty = false
	}
	c.mu.Unlock()
}

// Touch records an access at t.
func (c *Chunk) Touch(t time.Time) {
	c.lastAccessed.Store(t.UnixNano())
}

// LastAccessed returns the time of the most recent Touch.
func (c *Chunk) LastAccessed() time.Time {
	return time.Unix(0, c.lastAccessed.Load())
}

// Active reports whether the chunk is part of the live world.
func (c *Chunk) Active() bool {
	return c.active.Load()
}

// SetActive flags the chunk as live or unloaded.
func (c *Chunk) SetActive(v bool) {
	c.active.Store(v)
}
