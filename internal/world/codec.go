package world

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

const codecVersion uint16 = 1

var (
	codecMagic = [4]byte{'W', 'C', 'H', 'K'}

	ErrBadChunkData    = errors.New("malformed chunk data")
	ErrCoordOutOfRange = errors.New("chunk coordinate out of range")
)

type chunkHeader struct {
	Magic   [4]byte
	Version uint16
	X       int32
	Z       int32
}

// EncodeChunk serializes a chunk into a zstd frame holding a fixed header
// followed by the little-endian block ids.
func EncodeChunk(c *Chunk) ([]byte, error) {
	return encodeBlocks(c.Coord, c.Blocks())
}

func encodeBlocks(coord Coord, blocks [BlocksPerChunk]uint16) ([]byte, error) {
	if !fitsInt32(coord.X) || !fitsInt32(coord.Z) {
		return nil, fmt.Errorf("%w: %s", ErrCoordOutOfRange, coord)
	}

	var raw bytes.Buffer
	hdr := chunkHeader{
		Magic:   codecMagic,
		Version: codecVersion,
		X:       int32(coord.X),
		Z:       int32(coord.Z),
	}
	if err := binary.Write(&raw, binary.LittleEndian, hdr); err != nil {
		return nil, fmt.Errorf("writing chunk header: %w", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, blocks); err != nil {
		return nil, fmt.Errorf("writing chunk blocks: %w", err)
	}

	var out bytes.Buffer
	enc, err := zstd.NewWriter(&out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("compressing chunk: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("compressing chunk: %w", err)
	}
	return out.Bytes(), nil
}

func fitsInt32(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// DecodeChunk parses data produced by EncodeChunk.
func DecodeChunk(data []byte) (*Chunk, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing: %v", ErrBadChunkData, err)
	}

	r := bytes.NewReader(raw)
	var hdr chunkHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrBadChunkData, err)
	}
	if hdr.Magic != codecMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadChunkData, hdr.Magic[:])
	}
	if hdr.Version != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadChunkData, hdr.Version)
	}

	ch := NewChunk(Coord{X: int(hdr.X), Z: int(hdr.Z)})
	if err := binary.Read(r, binary.LittleEndian, &ch.blocks); err != nil {
		return nil, fmt.Errorf("%w: reading blocks: %v", ErrBadChunkData, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadChunkData, r.Len())
	}
	return ch, nil
}
