package model

import "context"

// Prompt is everything a backend receives for one turn: the text and, optionally,
// the raw image. No earlier turns are included.
type Prompt struct {
	Text  string
	Image *Attachment
}

// Provider sends one turn to a backend and returns its reply text.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model for Prompt and Attachment.
//
// An empty reply with a nil error means the backend answered without text; the
// orchestrator substitutes DefaultReply.
type Provider interface {
	Send(ctx context.Context, prompt Prompt) (string, error)

	// Name identifies the backend in logs and the title bar
	Name() string
}

// PreviewStore creates and releases preview handles for attached images
type PreviewStore interface {
	Create(att *Attachment) (PreviewHandle, error)
	Release(handle PreviewHandle) error
}
