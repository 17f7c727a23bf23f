// Package session tracks per-conversation chat histories.
package session

import (
	"context"
	"errors"

	"github.com/jac-chandigarh/jacbot/internal/model"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("session not found")

// Store manages chat sessions and their message histories.
// Histories are kept for the lifetime of the session, they are not
// trimmed or expired.
type Store interface {
	// Create registers a new session and returns its ID.
	Create(ctx context.Context) (string, error)

	// Exists reports whether the session ID is known.
	Exists(ctx context.Context, sessionID string) (bool, error)

	// History returns the messages of a session in insertion order.
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)

	// Append adds messages to the end of a session history.
	Append(ctx context.Context, sessionID string, messages ...model.ChatMessage) error
}
