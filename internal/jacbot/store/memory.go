package store

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/pkg/textutil"
)

// MemoryStore is a brute-force cosine similarity store held in memory.
// With a persist directory set, every collection is snapshotted to disk
// after inserts and reloaded on creation, so a restart against the same
// directory resumes with its data intact.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	persistDir  string
}

type memCollection struct {
	Config CollectionConfig
	Chunks []*Chunk
	NextID int64
}

// NewMemoryStore creates an ephemeral in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memCollection),
	}
}

// NewPersistedStore creates a memory store snapshotted under dir.
func NewPersistedStore(dir string) (*MemoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create persist directory: %w", err)
	}
	return &MemoryStore{
		collections: make(map[string]*memCollection),
		persistDir:  dir,
	}, nil
}

// CreateCollection creates a collection, loading a snapshot when one exists.
func (s *MemoryStore) CreateCollection(_ context.Context, config *CollectionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[config.Name]; ok {
		return nil
	}

	if s.persistDir != "" {
		coll, err := s.loadSnapshot(config.Name)
		if err != nil {
			return err
		}
		if coll != nil {
			logger.Infof("Loaded %d chunks for collection %s from %s", len(coll.Chunks), config.Name, s.persistDir)
			s.collections[config.Name] = coll
			return nil
		}
	}

	s.collections[config.Name] = &memCollection{
		Config: *config,
		NextID: 1,
	}
	return nil
}

// Insert stores chunks and returns their assigned IDs.
func (s *MemoryStore) Insert(_ context.Context, collection string, chunks []*Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", collection)
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		if coll.Config.Dimension > 0 && len(chunk.Embedding) != coll.Config.Dimension {
			return nil, fmt.Errorf("embedding dimension %d does not match collection dimension %d",
				len(chunk.Embedding), coll.Config.Dimension)
		}

		stored := *chunk
		stored.ID = fmt.Sprintf("%d", coll.NextID)
		coll.NextID++
		coll.Chunks = append(coll.Chunks, &stored)
		ids[i] = stored.ID
	}

	if s.persistDir != "" {
		if err := s.saveSnapshot(collection, coll); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

// Search returns the topK most similar chunks ranked by cosine similarity.
func (s *MemoryStore) Search(_ context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", collection)
	}

	results := make([]*SearchResult, 0, len(coll.Chunks))
	for _, chunk := range coll.Chunks {
		score := textutil.CosineSimilarity(embedding, chunk.Embedding)
		results = append(results, &SearchResult{
			ID:           chunk.ID,
			DocumentID:   chunk.DocumentID,
			DocumentName: chunk.DocumentName,
			Page:         chunk.Page,
			Kind:         chunk.Kind,
			Content:      chunk.Content,
			Score:        float32(score),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// GetStats returns the number of chunks in a collection.
func (s *MemoryStore) GetStats(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	return int64(len(coll.Chunks)), nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

func (s *MemoryStore) snapshotPath(collection string) string {
	return filepath.Join(s.persistDir, collection+".gob")
}

// loadSnapshot reads a collection snapshot; a missing file returns nil.
func (s *MemoryStore) loadSnapshot(collection string) (*memCollection, error) {
	f, err := os.Open(s.snapshotPath(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	var coll memCollection
	if err := gob.NewDecoder(f).Decode(&coll); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &coll, nil
}

// saveSnapshot writes the collection atomically via a temp file rename.
func (s *MemoryStore) saveSnapshot(collection string, coll *memCollection) error {
	tmp, err := os.CreateTemp(s.persistDir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}

	if err := gob.NewEncoder(tmp).Encode(coll); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.snapshotPath(collection)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

var _ VectorStore = (*MemoryStore)(nil)
