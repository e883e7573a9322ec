package vectorstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Blob layout: 8-byte magic, uint32 dimension, uint32 row count, then
// count*dimension float32 values in row order, all little-endian.
var blobMagic = [8]byte{'A', 'S', 'K', 'F', 'L', 'A', 'T', '1'}

// Persist writes the index to path as a binary vector blob.
func (idx *FlatIndex) Persist(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vector blob: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := bufio.NewWriter(f)
	if _, err := w.Write(blobMagic[:]); err != nil {
		return fmt.Errorf("failed to write vector blob header: %w", err)
	}
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(idx.dim))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(idx.vectors)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write vector blob header: %w", err)
	}

	buf := make([]byte, 4)
	for _, row := range idx.vectors {
		for _, x := range row {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("failed to write vector row: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush vector blob: %w", err)
	}
	return nil
}

// Load reads a vector blob written by Persist.
func Load(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector blob: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := bufio.NewReader(f)
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read vector blob header: %w", err)
	}
	if magic != blobMagic {
		return nil, fmt.Errorf("not a vector blob: bad magic %q", magic)
	}

	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read vector blob header: %w", err)
	}
	dim := int(binary.LittleEndian.Uint32(header[0:4]))
	count := int(binary.LittleEndian.Uint32(header[4:8]))
	if dim <= 0 {
		return nil, fmt.Errorf("vector blob has invalid dimension %d", dim)
	}

	idx := &FlatIndex{dim: dim, vectors: make([][]float32, 0, count)}
	rowBuf := make([]byte, dim*4)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, rowBuf); err != nil {
			return nil, fmt.Errorf("failed to read vector row %d: %w", i, err)
		}
		row := make([]float32, dim)
		for j := 0; j < dim; j++ {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(rowBuf[j*4 : j*4+4]))
		}
		idx.vectors = append(idx.vectors, row)
	}
	return idx, nil
}
