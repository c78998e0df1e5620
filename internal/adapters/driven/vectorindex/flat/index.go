package flat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact nearest-neighbour index over squared Euclidean distance.
// Vectors live in one row-major matrix; metadata[i] describes row i.
// Both halves are persisted after every Add.
type Index struct {
	mu        sync.RWMutex
	dir       string
	dimension int
	vectors   []float32
	metadata  []domain.DocumentMetadata
	closed    bool

	// writeFile persists one file. Replaced in tests.
	writeFile func(path string, data []byte) error
}

// New opens the index stored in dir, or starts an empty one.
// An index whose stored dimension differs from dimension is discarded.
// An empty dir keeps the index in memory only.
func New(dir string, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}

	idx := &Index{
		dir:       dir,
		dimension: dimension,
		metadata:  []domain.DocumentMetadata{},
		writeFile: writeFileAtomic,
	}
	if dir == "" {
		return idx, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("flat: create index directory: %w", err)
	}
	idx.load()
	return idx, nil
}

// load reconstructs state from disk. Missing, unreadable or stale files leave the index empty.
func (idx *Index) load() {
	indexPath := filepath.Join(idx.dir, IndexFileName)
	metaPath := filepath.Join(idx.dir, MetadataFileName)

	indexData, indexErr := os.ReadFile(indexPath)
	metaData, metaErr := os.ReadFile(metaPath)
	if errors.Is(indexErr, os.ErrNotExist) && errors.Is(metaErr, os.ErrNotExist) {
		logger.Debug("No vector index in %s, starting empty", idx.dir)
		return
	}
	if indexErr != nil || metaErr != nil {
		logger.Warn("Could not load vector index from %s, starting empty", idx.dir)
		return
	}

	dimension, vectors, err := decodeVectors(indexData)
	if err != nil {
		logger.Warn("Could not load vector index: %v", err)
		return
	}
	if dimension != idx.dimension {
		logger.Warn("Index dimension mismatch (%d vs %d). Creating new index.", dimension, idx.dimension)
		return
	}

	var metadata []domain.DocumentMetadata
	if err := json.Unmarshal(metaData, &metadata); err != nil {
		logger.Warn("Could not load vector index metadata: %v", err)
		return
	}
	if len(metadata)*dimension != len(vectors) {
		logger.Warn("Vector index holds %d vectors but %d metadata entries. Creating new index.",
			len(vectors)/dimension, len(metadata))
		return
	}

	idx.vectors = vectors
	idx.metadata = metadata
	logger.Debug("Loaded vector index with %d documents", len(metadata))
}

// Add appends a vector and its metadata and persists both.
// On a persistence failure neither half keeps the addition.
func (idx *Index) Add(_ context.Context, embedding []float32, meta domain.DocumentMetadata) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return 0, domain.ErrIndexClosed
	}
	if len(embedding) != idx.dimension {
		return 0, fmt.Errorf("%w: got %d, index has %d", domain.ErrDimensionMismatch, len(embedding), idx.dimension)
	}

	vectorLen := len(idx.vectors)
	docID := len(idx.metadata)
	meta.DocID = docID

	idx.vectors = append(idx.vectors, embedding...)
	idx.metadata = append(idx.metadata, meta)

	if err := idx.save(); err != nil {
		idx.vectors = idx.vectors[:vectorLen]
		idx.metadata = idx.metadata[:docID]
		// index.bin may already hold the new row while metadata.json does not.
		if restoreErr := idx.writeVectors(); restoreErr != nil {
			logger.Warn("Could not restore %s after failed save: %v", IndexFileName, restoreErr)
		}
		return 0, fmt.Errorf("flat: save index: %w", err)
	}

	logger.Debug("Saved index with %d documents", len(idx.metadata))
	return docID, nil
}

// save writes index.bin then metadata.json. Caller holds the write lock.
func (idx *Index) save() error {
	if err := idx.writeVectors(); err != nil {
		return err
	}
	return idx.writeMetadata()
}

func (idx *Index) writeVectors() error {
	if idx.dir == "" {
		return nil
	}
	data, err := encodeVectors(idx.dimension, idx.vectors)
	if err != nil {
		return err
	}
	if err := idx.writeFile(filepath.Join(idx.dir, IndexFileName), data); err != nil {
		return fmt.Errorf("write %s: %w", IndexFileName, err)
	}
	return nil
}

func (idx *Index) writeMetadata() error {
	if idx.dir == "" {
		return nil
	}
	data, err := json.MarshalIndent(idx.metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := idx.writeFile(filepath.Join(idx.dir, MetadataFileName), data); err != nil {
		return fmt.Errorf("write %s: %w", MetadataFileName, err)
	}
	return nil
}

// Search returns up to k nearest vectors by ascending squared Euclidean distance.
// Equal distances keep insertion order.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, domain.ErrIndexClosed
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: got %d, index has %d", domain.ErrDimensionMismatch, len(query), idx.dimension)
	}

	n := len(idx.metadata)
	if k > n {
		k = n
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	hits := make([]driven.VectorHit, n)
	for i := 0; i < n; i++ {
		row := idx.vectors[i*idx.dimension : (i+1)*idx.dimension]
		hits[i] = driven.VectorHit{
			DocID:    i,
			Distance: squaredL2(query, row),
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	hits = hits[:k]
	for i := range hits {
		hits[i].Metadata = idx.metadata[hits[i].DocID]
	}
	return hits, nil
}

// squaredL2 returns the squared Euclidean distance between equal-length vectors.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Documents returns a copy of the stored metadata in doc ID order.
func (idx *Index) Documents() []domain.DocumentMetadata {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]domain.DocumentMetadata, len(idx.metadata))
	copy(out, idx.metadata)
	return out
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors) / idx.dimension
}

// Dimension returns the fixed vector size.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Close releases resources. Further calls fail with domain.ErrIndexClosed.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}
