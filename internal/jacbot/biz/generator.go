package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/store"
	"github.com/jac-chandigarh/jacbot/internal/model"
	"github.com/jac-chandigarh/jacbot/pkg/llm"
)

// GeneratorConfig configures answer generation.
type GeneratorConfig struct {
	// SystemPrompt is the persona template with a {{context}} placeholder.
	SystemPrompt string
}

// Generator produces answers from retrieved chunks and the chat history.
type Generator struct {
	chatProvider llm.ChatProvider
	config       *GeneratorConfig
}

// NewGenerator creates a generator.
func NewGenerator(chatProvider llm.ChatProvider, config *GeneratorConfig) *Generator {
	return &Generator{
		chatProvider: chatProvider,
		config:       config,
	}
}

// GenerateAnswer builds the grounded system prompt and asks the chat model.
// An empty model response yields the fallback answer rather than an error.
func (g *Generator) GenerateAnswer(ctx context.Context, question string, history []model.ChatMessage, results []*store.SearchResult) (string, error) {
	if ctx.Err() != nil {
		return "", fmt.Errorf("context cancelled before generation: %w", ctx.Err())
	}

	var contextBuilder strings.Builder
	for i, result := range results {
		contextBuilder.WriteString(fmt.Sprintf("[%d] From %s:\n%s\n\n", i+1, result.DocumentName, result.Content))
	}

	systemPrompt := strings.ReplaceAll(g.config.SystemPrompt, "{{context}}", contextBuilder.String())

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: llm.Role(msg.Role), Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	answer, err := g.chatProvider.Chat(ctx, messages)
	if err != nil {
		if errors.Is(err, llm.ErrNoContent) {
			logger.Warnw("model returned no content, using fallback answer", "question", question)
			return FallbackAnswer, nil
		}
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return FallbackAnswer, nil
	}

	logger.Infof("Answer generated (length: %d)", len(answer))
	return answer, nil
}
