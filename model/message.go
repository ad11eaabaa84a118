package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message in the conversation. Messages are never
// modified after they are appended.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Image     *ImageRef // Optional; session-scoped preview of an attached image
	Timestamp time.Time
}

// ImageRef points at a locally created preview of an attached image.
// Dimensions are decoded when the image is selected so rendering never touches disk.
type ImageRef struct {
	Handle    PreviewHandle
	Name      string
	MediaType string
	Size      int64
	Width     int
	Height    int
}

// PreviewHandle is a session-scoped reference to a preview copy of an image
type PreviewHandle struct {
	ID   string
	Path string
}

func (h PreviewHandle) IsZero() bool {
	return h.ID == ""
}

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// NewUserMessage creates a user message. image may be nil.
func NewUserMessage(content string, image *ImageRef) Message {
	return Message{
		ID:        newID("msg"),
		Role:      RoleUser,
		Content:   content,
		Image:     image,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant reply
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        newID("ai"),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates the assistant-role entry that stands in for a failed reply
func NewErrorMessage(content string) Message {
	return Message{
		ID:        newID("error"),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}
