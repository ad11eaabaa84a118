package model

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultReply stands in when the backend answers without any text
	DefaultReply = "I'm not sure how to respond to that."

	// FallbackReply is appended when a turn fails
	FallbackReply = "I'm sorry, I couldn't process your request. Please try again later."
)

var (
	ErrBusy            = errors.New("a reply is still pending")
	ErrEmptySubmission = errors.New("nothing to send")
)

// failureNotification is shown whenever a turn fails
var failureNotification = Notification{
	Title:       "Error",
	Description: "Failed to send message. Please try again later.",
	Variant:     VariantDestructive,
}

type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// Turn is a submission that has been recorded and is waiting for its reply
type Turn struct {
	ID            string
	UserMessageID string
	Prompt        Prompt
}

// TurnResult is the outcome of sending a Turn
type TurnResult struct {
	TurnID  string
	Reply   string
	Err     error
	Elapsed time.Duration
}

// Orchestrator owns the conversation and the busy state. All mutation goes
// through Begin and Complete; Send only talks to the provider.
type Orchestrator struct {
	conversation *Conversation
	state        State
	pendingTurn  string

	provider Provider
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration
}

// NewOrchestrator creates an idle orchestrator with an empty conversation.
// A zero timeout means the provider call is only bounded by its own context.
func NewOrchestrator(provider Provider, notifier Notifier, logger *zap.Logger, timeout time.Duration) *Orchestrator {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		conversation: NewConversation(),
		state:        StateIdle,
		provider:     provider,
		notifier:     notifier,
		logger:       logger,
		timeout:      timeout,
	}
}

func (o *Orchestrator) Conversation() *Conversation {
	return o.conversation
}

func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) Busy() bool {
	return o.state == StateAwaitingResponse
}

func (o *Orchestrator) ProviderName() string {
	if o.provider == nil {
		return "offline"
	}
	return o.provider.Name()
}

// Begin records the user message and moves to awaiting-response.
// preview may be zero when no image is attached.
func (o *Orchestrator) Begin(text string, att *Attachment, preview PreviewHandle) (Turn, error) {
	if strings.TrimSpace(text) == "" && att == nil {
		return Turn{}, ErrEmptySubmission
	}
	if o.state == StateAwaitingResponse {
		return Turn{}, ErrBusy
	}

	var image *ImageRef
	if att != nil {
		image = att.ImageRef(preview)
	}

	userMsg := NewUserMessage(text, image)
	o.conversation.Append(userMsg)

	turn := Turn{
		ID:            uuid.New().String(),
		UserMessageID: userMsg.ID,
		Prompt:        Prompt{Text: text, Image: att},
	}
	o.state = StateAwaitingResponse
	o.pendingTurn = turn.ID

	o.logger.Debug("turn started",
		zap.String("turn", turn.ID),
		zap.Int("text_len", len(text)),
		zap.Bool("image", att != nil),
	)

	return turn, nil
}

// Send performs the single network call for a turn. It does not touch
// orchestrator state, so it is safe to run off the UI goroutine.
func (o *Orchestrator) Send(ctx context.Context, turn Turn) TurnResult {
	start := time.Now()

	if o.provider == nil {
		return TurnResult{TurnID: turn.ID, Err: errors.New("no backend configured")}
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	reply, err := o.provider.Send(ctx, turn.Prompt)
	return TurnResult{
		TurnID:  turn.ID,
		Reply:   reply,
		Err:     err,
		Elapsed: time.Since(start),
	}
}

// Complete appends the assistant entry for the pending turn and returns to idle.
// Results for any other turn are ignored and reported as not applied.
func (o *Orchestrator) Complete(res TurnResult) (Message, bool) {
	if o.state != StateAwaitingResponse || res.TurnID != o.pendingTurn {
		o.logger.Warn("ignoring result for stale turn",
			zap.String("turn", res.TurnID),
			zap.String("pending", o.pendingTurn),
		)
		return Message{}, false
	}

	o.state = StateIdle
	o.pendingTurn = ""

	if res.Err != nil {
		o.logger.Error("error sending message",
			zap.String("turn", res.TurnID),
			zap.String("provider", o.ProviderName()),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(res.Err),
		)
		o.notifier.Notify(failureNotification)

		msg := NewErrorMessage(FallbackReply)
		o.conversation.Append(msg)
		return msg, true
	}

	content := res.Reply
	if content == "" {
		content = DefaultReply
	}

	o.logger.Debug("reply received",
		zap.String("turn", res.TurnID),
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("reply_len", len(res.Reply)),
	)

	msg := NewAssistantMessage(content)
	o.conversation.Append(msg)
	return msg, true
}

// HandleSubmit runs a whole turn synchronously: Begin, Send and Complete.
// It returns the assistant entry that was appended. The turn's error, if any,
// is returned alongside the fallback entry.
func (o *Orchestrator) HandleSubmit(ctx context.Context, text string, att *Attachment, preview PreviewHandle) (Message, error) {
	turn, err := o.Begin(text, att, preview)
	if err != nil {
		return Message{}, err
	}

	res := o.Send(ctx, turn)
	msg, _ := o.Complete(res)
	return msg, res.Err
}
