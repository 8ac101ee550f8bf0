package world

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-wilds/internal/storage"
)

// ChunkStore materializes chunks and persists them.
type ChunkStore interface {
	// GetChunk loads the chunk at (x, z) from persistence or, if it has never
	// been saved, generates it. The result is deterministic for a fixed seed
	// and storage directory.
	GetChunk(ctx context.Context, x, z int) (*Chunk, error)
	// SaveChunk persists c.
	SaveChunk(ctx context.Context, c *Chunk) error
}

// DiskStore keeps one zstd-compressed file per chunk in a directory.
type DiskStore struct {
	dir string
	gen Generator
}

// NewDiskStore creates the directory if needed and returns a store rooted there.
func NewDiskStore(dir string, gen Generator) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("chunk directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chunk directory: %w", err)
	}
	return &DiskStore{dir: dir, gen: gen}, nil
}

func (s *DiskStore) GetChunk(ctx context.Context, x, z int) (*Chunk, error) {
	data, err := os.ReadFile(s.chunkPath(x, z))
	if errors.Is(err, os.ErrNotExist) {
		return s.gen.Generate(x, z), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chunk %d,%d: %w", x, z, err)
	}

	ch, err := DecodeChunk(data)
	if err != nil {
		return nil, fmt.Errorf("decoding chunk %d,%d: %w", x, z, err)
	}
	if ch.Coord != (Coord{X: x, Z: z}) {
		return nil, fmt.Errorf("%w: chunk file %d,%d holds %s", ErrBadChunkData, x, z, ch.Coord)
	}
	return ch, nil
}

func (s *DiskStore) SaveChunk(ctx context.Context, c *Chunk) error {
	blocks := c.Blocks()
	data, err := encodeBlocks(c.Coord, blocks)
	if err != nil {
		return err
	}
	if err := storage.AtomicWrite(s.chunkPath(c.Coord.X, c.Coord.Z), data, 0o644); err != nil {
		return fmt.Errorf("writing chunk %s: %w", c.Coord, err)
	}
	c.markClean(blocks)
	return nil
}

func (s *DiskStore) chunkPath(x, z int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%d.chunk", x, z))
}

// SaveAll flushes every dirty chunk in chunks. A failure on one chunk does
// not stop the others; all failures are returned joined. It reports how many
// chunks were written.
func SaveAll(ctx context.Context, store ChunkStore, chunks []*Chunk) (int, error) {
	var errs []error
	saved := 0
	for _, ch := range chunks {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if !ch.Dirty() {
			continue
		}
		if err := store.SaveChunk(ctx, ch); err != nil {
			errs = append(errs, fmt.Errorf("saving chunk %s: %w", ch.Coord, err))
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}
