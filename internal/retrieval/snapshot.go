package retrieval

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"askdocs/internal/corpus"
	"askdocs/internal/service"
	"askdocs/internal/vectorstore"
)

const (
	vectorBlobName = "vectors.bin"
	chunkFileName  = "chunks.jsonl"
	metaFileName   = "meta.json"
)

// Snapshot is one immutable corpus build: the dense index, the sparse index
// and the chunk records, all aligned by row. Concurrent queries may read a
// snapshot freely; it is never mutated after construction.
type Snapshot struct {
	Chunks []corpus.ChunkRecord
	Index  *vectorstore.FlatIndex
	Sparse *BM25Index
	Meta   corpus.BuildMeta
}

// NewSnapshot assembles a snapshot and verifies the row-alignment invariant.
// Chunks must already be sorted by chunk ID in index row order.
func NewSnapshot(chunks []corpus.ChunkRecord, index *vectorstore.FlatIndex, meta corpus.BuildMeta) (*Snapshot, error) {
	if index.Len() != len(chunks) {
		return nil, fmt.Errorf("%w: index has %d vectors but chunk stream has %d entries, rebuild the index",
			service.ErrIntegrity, index.Len(), len(chunks))
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	return &Snapshot{
		Chunks: chunks,
		Index:  index,
		Sparse: NewBM25Index(texts),
		Meta:   meta,
	}, nil
}

// Manager owns the active snapshot. Readers get a consistent snapshot via
// Current; Rebuild swaps in a fully-built replacement atomically, so readers
// see either the old or the new corpus, never a partial one. Only one rebuild
// may run at a time.
type Manager struct {
	dir       string
	current   atomic.Pointer[Snapshot]
	rebuildMu sync.Mutex
}

// NewManager creates a manager persisting artifacts under dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Current returns the active snapshot, or nil if none has been loaded or built.
func (m *Manager) Current() *Snapshot {
	return m.current.Load()
}

// Load reads the persisted artifacts from the manager's directory and
// installs them as the active snapshot. A row-count mismatch between the
// vector blob and the chunk stream is an integrity error, never a silent
// truncation.
func (m *Manager) Load() error {
	index, err := vectorstore.Load(filepath.Join(m.dir, vectorBlobName))
	if err != nil {
		return fmt.Errorf("failed to load vector blob: %w", err)
	}
	chunks, err := corpus.ReadChunks(filepath.Join(m.dir, chunkFileName))
	if err != nil {
		return fmt.Errorf("failed to load chunk stream: %w", err)
	}
	meta, err := corpus.ReadMeta(filepath.Join(m.dir, metaFileName))
	if err != nil {
		return fmt.Errorf("failed to load build meta: %w", err)
	}

	snap, err := NewSnapshot(chunks, index, meta)
	if err != nil {
		return err
	}
	m.current.Store(snap)
	return nil
}

// Rebuild runs build to produce a new snapshot, persists it, and swaps it in.
// Returns ErrRebuildInProgress if another rebuild is already running.
func (m *Manager) Rebuild(build func() (*Snapshot, error)) error {
	if !m.rebuildMu.TryLock() {
		return service.ErrRebuildInProgress
	}
	defer m.rebuildMu.Unlock()

	snap, err := build()
	if err != nil {
		return err
	}
	if err := m.persist(snap); err != nil {
		return err
	}
	m.current.Store(snap)
	return nil
}

// persist writes the snapshot's artifacts to a temporary directory and then
// moves it into place, so a crash mid-write never leaves a torn artifact set.
func (m *Manager) persist(snap *Snapshot) error {
	tmp := m.dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("failed to clear temp artifact dir: %w", err)
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return fmt.Errorf("failed to create temp artifact dir: %w", err)
	}

	if err := snap.Index.Persist(filepath.Join(tmp, vectorBlobName)); err != nil {
		return err
	}
	if err := corpus.WriteChunks(filepath.Join(tmp, chunkFileName), snap.Chunks); err != nil {
		return err
	}
	if err := corpus.WriteMeta(filepath.Join(tmp, metaFileName), snap.Meta); err != nil {
		return err
	}

	old := m.dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("failed to clear old artifact dir: %w", err)
	}
	if _, err := os.Stat(m.dir); err == nil {
		if err := os.Rename(m.dir, old); err != nil {
			return fmt.Errorf("failed to move old artifact dir aside: %w", err)
		}
	}
	if err := os.Rename(tmp, m.dir); err != nil {
		return fmt.Errorf("failed to move new artifact dir into place: %w", err)
	}
	_ = os.RemoveAll(old)
	return nil
}
