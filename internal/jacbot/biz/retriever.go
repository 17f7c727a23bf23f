package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/store"
	"github.com/jac-chandigarh/jacbot/internal/model"
	"github.com/jac-chandigarh/jacbot/pkg/llm"
)

// RetrieverConfig configures retrieval.
type RetrieverConfig struct {
	// TopK is how many chunks to fetch per query.
	TopK int
	// Collection is the vector collection name.
	Collection string
}

// RetrievalResult holds the rewritten query and the retrieved chunks.
type RetrievalResult struct {
	// Query is the standalone question used for the search.
	Query string
	// Results are the retrieved chunks, best first.
	Results []*store.SearchResult
}

// Retriever rewrites follow-up questions into standalone ones and fetches
// the most similar chunks from the vector store.
type Retriever struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	chatProvider  llm.ChatProvider
	config        *RetrieverConfig
}

// NewRetriever creates a retriever.
func NewRetriever(
	vectorStore store.VectorStore,
	embedProvider llm.EmbeddingProvider,
	chatProvider llm.ChatProvider,
	config *RetrieverConfig,
) *Retriever {
	return &Retriever{
		store:         vectorStore,
		embedProvider: embedProvider,
		chatProvider:  chatProvider,
		config:        config,
	}
}

// Retrieve rewrites the question against the chat history and performs a
// similarity search with the standalone form.
func (r *Retriever) Retrieve(ctx context.Context, question string, history []model.ChatMessage) (*RetrievalResult, error) {
	standalone := r.rewriteQuestion(ctx, question, history)

	embedding, err := r.embedProvider.EmbedSingle(ctx, standalone)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := r.store.Search(ctx, r.config.Collection, embedding, r.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection: %w", err)
	}

	return &RetrievalResult{
		Query:   standalone,
		Results: results,
	}, nil
}

// rewriteQuestion asks the chat model for a standalone reformulation.
// Any failure degrades to the original question so retrieval still runs.
func (r *Retriever) rewriteQuestion(ctx context.Context, question string, history []model.ChatMessage) string {
	if len(history) == 0 {
		return question
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: ContextualizePrompt})
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: llm.Role(msg.Role), Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	standalone, err := r.chatProvider.Chat(ctx, messages)
	if err != nil {
		logger.Warnw("question rewrite failed, using original question", "error", err.Error())
		return question
	}

	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		return question
	}
	return standalone
}
