// Package store provides vector storage for document chunks.
package store

import (
	"context"
)

// Chunk is a document chunk with its embedding.
type Chunk struct {
	// ID is the chunk ID, assigned by the store on insert.
	ID string
	// DocumentID identifies the source document.
	DocumentID string
	// DocumentName is the source document file name.
	DocumentName string
	// Page is the 1-based page the chunk came from.
	Page int
	// Kind is the segment kind (text, table, text(OCR)).
	Kind string
	// Content is the chunk text.
	Content string
	// Embedding is the chunk's vector embedding.
	Embedding []float32
}

// SearchResult is one similarity search hit.
type SearchResult struct {
	// ID is the chunk ID.
	ID string
	// DocumentID identifies the source document.
	DocumentID string
	// DocumentName is the source document file name.
	DocumentName string
	// Page is the 1-based page the chunk came from.
	Page int
	// Kind is the segment kind (text, table, text(OCR)).
	Kind string
	// Content is the chunk text.
	Content string
	// Score is the similarity score, higher is closer.
	Score float32
}

// CollectionConfig describes a vector collection.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Description describes the collection.
	Description string
	// Dimension is the embedding dimension.
	Dimension int
}

// VectorStore is the vector storage interface.
type VectorStore interface {
	// CreateCollection creates a collection; existing collections are kept.
	CreateCollection(ctx context.Context, config *CollectionConfig) error

	// Insert stores chunks and returns their assigned IDs.
	Insert(ctx context.Context, collection string, chunks []*Chunk) ([]string, error)

	// Search returns the topK most similar chunks for an embedding.
	Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error)

	// GetStats returns the number of chunks in a collection.
	GetStats(ctx context.Context, collection string) (int64, error)

	// Close releases store resources.
	Close(ctx context.Context) error
}
