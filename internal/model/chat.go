// Package model provides data models for the JAC Chandigarh chatbot.
package model

// AskRequest is the body of an /ask request.
type AskRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// AskResponse is the body of a successful /ask response.
// Sources is omitted when no documents backed the answer.
type AskResponse struct {
	SessionID string      `json:"session_id"`
	Question  string      `json:"question"`
	Response  string      `json:"response"`
	Sources   []SourceRef `json:"sources,omitempty"`
}

// SourceRef cites a document location that backed an answer.
type SourceRef struct {
	// Source is the document file name.
	Source string `json:"source"`
	// Page is the 1-based page number.
	Page int `json:"page"`
	// Type is the segment kind (text, table, text(OCR)).
	Type string `json:"type"`
}

// SessionResponse is the body of a /chatbot response.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// InspectResponse is the body of an /inspect response.
type InspectResponse struct {
	Content string `json:"content"`
}

// HealthResponse is the body of a /health response.
type HealthResponse struct {
	Status        string `json:"status"`
	DocumentCount int64  `json:"document_count"`
}

// AnswerResult is the outcome of one conversational answering turn.
type AnswerResult struct {
	// Answer is the generated reply.
	Answer string
	// Sources lists the distinct document locations behind the answer.
	Sources []SourceRef
}

// ChatMessage is one turn of a session's conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
