package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxMessageLength is the stored length cap of a chat message, in runes.
	MaxMessageLength = 500
	// TranscriptSize is how many recent messages are fetched and kept in memory.
	TranscriptSize = 50
	// MaxUsernameLength caps a freeform chat name, in runes.
	MaxUsernameLength = 24
)

// ChatMessage is an immutable row of the global chat.
type ChatMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Username  string    `json:"username" db:"username"`
	Message   string    `json:"message" db:"message"`
}

// SendMessageRequest is the payload for posting to the chat.
type SendMessageRequest struct {
	Username string `json:"username" binding:"required,max=24"`
	Message  string `json:"message" binding:"required"`
}

// MessagesResponse wraps the current transcript.
type MessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}
