package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/store"
	"github.com/jac-chandigarh/jacbot/internal/pkg/pdfutil"
	"github.com/jac-chandigarh/jacbot/internal/pkg/textutil"
	"github.com/jac-chandigarh/jacbot/pkg/llm"
)

// IndexerConfig configures document ingestion.
type IndexerConfig struct {
	// ChunkSize is the chunk size in characters.
	ChunkSize int
	// ChunkOverlap is the overlap between adjacent chunks.
	ChunkOverlap int
	// Collection is the vector collection name.
	Collection string
	// EmbeddingDim is the embedding vector dimension.
	EmbeddingDim int
	// EmbedBatchSize is how many chunks are embedded per request.
	EmbedBatchSize int
}

const minChunkLen = 20

// Indexer extracts PDF documents, chunks them and writes embeddings to the
// vector store. Extracted documents are retained in memory so their raw
// text can be inspected later.
type Indexer struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	extractor     *pdfutil.Extractor
	config        *IndexerConfig

	documents []*pdfutil.Document
}

// NewIndexer creates an indexer.
func NewIndexer(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider, extractor *pdfutil.Extractor, config *IndexerConfig) *Indexer {
	if config.EmbedBatchSize <= 0 {
		config.EmbedBatchSize = 100
	}
	return &Indexer{
		store:         vectorStore,
		embedProvider: embedProvider,
		extractor:     extractor,
		config:        config,
	}
}

// Documents returns the documents extracted so far.
func (i *Indexer) Documents() []*pdfutil.Document {
	return i.documents
}

// IndexDirectory ingests every PDF found under dir, sorted by name.
func (i *Indexer) IndexDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read document directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %s", dir)
	}

	return i.IndexFiles(ctx, paths)
}

// IndexFiles ingests the given PDF files. Files that yield no text are
// skipped with a warning; it is an error when every file is skipped.
func (i *Indexer) IndexFiles(ctx context.Context, paths []string) error {
	collectionConfig := &store.CollectionConfig{
		Name:        i.config.Collection,
		Description: "JAC Chandigarh admission documents",
		Dimension:   i.config.EmbeddingDim,
	}
	if err := i.store.CreateCollection(ctx, collectionConfig); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	count, err := i.store.GetStats(ctx, i.config.Collection)
	if err != nil {
		return fmt.Errorf("failed to read collection stats: %w", err)
	}
	indexed := count > 0
	if indexed {
		logger.Infof("Collection %s already holds %d chunks, skipping embedding", i.config.Collection, count)
	}

	extracted := 0
	for _, path := range paths {
		doc, err := i.extractor.Extract(ctx, path)
		if err != nil {
			logger.Warnf("Failed to extract %s: %v, skipping", path, err)
			continue
		}
		if strings.TrimSpace(doc.Text()) == "" {
			logger.Warnf("No text extracted from %s, skipping", path)
			continue
		}

		i.documents = append(i.documents, doc)
		extracted++

		if indexed {
			continue
		}
		if err := i.indexDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to index %s: %w", doc.Name, err)
		}
	}

	if extracted == 0 {
		return fmt.Errorf("no documents could be extracted from %d files", len(paths))
	}

	logger.Infof("Ingestion completed, %d of %d documents extracted", extracted, len(paths))
	return nil
}

// indexDocument chunks, embeds and stores a single document.
func (i *Indexer) indexDocument(ctx context.Context, doc *pdfutil.Document) error {
	chunks := i.chunkDocument(doc)
	if len(chunks) == 0 {
		logger.Warnf("Document %s produced no chunks", doc.Name)
		return nil
	}

	for start := 0; start < len(chunks); start += i.config.EmbedBatchSize {
		end := start + i.config.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for idx, chunk := range batch {
			texts[idx] = chunk.Content
		}

		embeddings, err := i.embedProvider.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding count %d does not match chunk count %d", len(embeddings), len(batch))
		}

		for idx, chunk := range batch {
			chunk.Embedding = embeddings[idx]
		}

		if _, err := i.store.Insert(ctx, i.config.Collection, batch); err != nil {
			return fmt.Errorf("failed to insert chunks: %w", err)
		}
	}

	logger.Infof("Indexed %s (%d chunks)", doc.Name, len(chunks))
	return nil
}

// chunkDocument splits prose segments into overlapping chunks and keeps
// table segments whole so rows are never cut mid-table. Every chunk keeps
// its source file, page and segment kind for citations.
func (i *Indexer) chunkDocument(doc *pdfutil.Document) []*store.Chunk {
	docID := textutil.HashString(doc.Path)

	var chunks []*store.Chunk
	appendChunk := func(content string, page int, kind string) {
		if len(strings.TrimSpace(content)) < minChunkLen {
			return
		}
		chunks = append(chunks, &store.Chunk{
			DocumentID:   docID,
			DocumentName: doc.Name,
			Page:         page,
			Kind:         kind,
			Content:      textutil.TruncateString(content, 65000),
		})
	}

	for _, segment := range doc.Segments {
		if segment.Table {
			appendChunk(segment.Content, segment.Page, "table")
			continue
		}
		kind := "text"
		if doc.OCR {
			kind = "text(OCR)"
		}
		for _, part := range textutil.SplitIntoChunks(segment.Content, i.config.ChunkSize, i.config.ChunkOverlap) {
			appendChunk(part, segment.Page, kind)
		}
	}

	return chunks
}
