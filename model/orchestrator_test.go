package model

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records prompts and answers with a canned reply or error
type fakeProvider struct {
	mu      sync.Mutex
	prompts []Prompt
	reply   string
	err     error
	block   bool
}

func (f *fakeProvider) Send(ctx context.Context, prompt Prompt) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type recordingNotifier struct {
	got []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.got = append(r.got, n)
}

func TestHandleSubmitSuccess(t *testing.T) {
	p := &fakeProvider{reply: "Hello!"}
	o := NewOrchestrator(p, nil, nil, time.Second)

	msg, err := o.HandleSubmit(context.Background(), "hi", nil, PreviewHandle{})
	require.NoError(t, err)

	assert.Equal(t, "Hello!", msg.Content)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, StateIdle, o.State())
	assert.False(t, o.Busy())

	msgs := o.Conversation().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Contains(t, msgs[0].ID, "msg-")
	assert.Contains(t, msgs[1].ID, "ai-")
}

func TestHandleSubmitMissingReplyUsesDefault(t *testing.T) {
	p := &fakeProvider{reply: ""}
	notifier := &recordingNotifier{}
	o := NewOrchestrator(p, notifier, nil, time.Second)

	msg, err := o.HandleSubmit(context.Background(), "hi", nil, PreviewHandle{})
	require.NoError(t, err)

	assert.Equal(t, DefaultReply, msg.Content)
	assert.Empty(t, notifier.got, "a missing reply is not a failure")
}

func TestHandleSubmitFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	notifier := &recordingNotifier{}
	o := NewOrchestrator(p, notifier, nil, time.Second)

	msg, err := o.HandleSubmit(context.Background(), "hi", nil, PreviewHandle{})
	require.Error(t, err)

	assert.Equal(t, FallbackReply, msg.Content)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Contains(t, msg.ID, "error-")
	assert.False(t, o.Busy(), "busy flag must clear on failure")
	assert.Equal(t, 2, o.Conversation().Len())

	require.Len(t, notifier.got, 1)
	assert.Equal(t, "Error", notifier.got[0].Title)
	assert.Equal(t, VariantDestructive, notifier.got[0].Variant)
}

func TestHandleSubmitTimeout(t *testing.T) {
	p := &fakeProvider{block: true}
	notifier := &recordingNotifier{}
	o := NewOrchestrator(p, notifier, nil, 20*time.Millisecond)

	msg, err := o.HandleSubmit(context.Background(), "anyone there?", nil, PreviewHandle{})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, FallbackReply, msg.Content)
	assert.Equal(t, StateIdle, o.State())
	assert.Len(t, notifier.got, 1)
}

func TestEmptySubmissionIsNoop(t *testing.T) {
	p := &fakeProvider{reply: "unused"}
	o := NewOrchestrator(p, nil, nil, time.Second)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := o.HandleSubmit(context.Background(), text, nil, PreviewHandle{})
		assert.ErrorIs(t, err, ErrEmptySubmission)
	}

	assert.Equal(t, 0, o.Conversation().Len())
	assert.Equal(t, 0, p.calls())
	assert.Equal(t, StateIdle, o.State())
}

func TestImageOnlySubmission(t *testing.T) {
	p := &fakeProvider{reply: "Nice picture"}
	o := NewOrchestrator(p, nil, nil, time.Second)
	att := &Attachment{Name: "cat.png", MediaType: "image/png", Size: 3, Data: []byte{1, 2, 3}, Width: 4, Height: 2}
	handle := PreviewHandle{ID: "p1", Path: "/tmp/p1.png"}

	_, err := o.HandleSubmit(context.Background(), "  ", att, handle)
	require.NoError(t, err)

	require.Equal(t, 1, p.calls())
	assert.Same(t, att, p.prompts[0].Image)

	user := o.Conversation().Messages()[0]
	require.NotNil(t, user.Image)
	assert.Equal(t, handle, user.Image.Handle)
	assert.Equal(t, "cat.png", user.Image.Name)
	assert.Equal(t, 4, user.Image.Width)
}

func TestTurnsAlternate(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	o := NewOrchestrator(p, nil, nil, time.Second)

	const turns = 5
	for i := 0; i < turns; i++ {
		if i == 2 {
			p.err = errors.New("boom")
		} else {
			p.err = nil
		}
		_, _ = o.HandleSubmit(context.Background(), "question", nil, PreviewHandle{})
	}

	msgs := o.Conversation().Messages()
	require.Len(t, msgs, 2*turns)
	for i, m := range msgs {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		assert.Equal(t, want, m.Role, "message %d", i)
	}
}

func TestBeginWhileAwaiting(t *testing.T) {
	o := NewOrchestrator(&fakeProvider{reply: "ok"}, nil, nil, time.Second)

	turn, err := o.Begin("first", nil, PreviewHandle{})
	require.NoError(t, err)
	assert.True(t, o.Busy())

	_, err = o.Begin("second", nil, PreviewHandle{})
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, o.Conversation().Len(), "rejected submission must not be recorded")

	_, applied := o.Complete(TurnResult{TurnID: turn.ID, Reply: "done"})
	assert.True(t, applied)
	assert.False(t, o.Busy())
}

func TestCompleteIgnoresStaleResults(t *testing.T) {
	o := NewOrchestrator(&fakeProvider{}, nil, nil, time.Second)

	_, applied := o.Complete(TurnResult{TurnID: "nobody", Reply: "late"})
	assert.False(t, applied, "idle orchestrator must ignore results")

	turn, err := o.Begin("hello", nil, PreviewHandle{})
	require.NoError(t, err)

	_, applied = o.Complete(TurnResult{TurnID: "other-turn", Reply: "late"})
	assert.False(t, applied)
	assert.True(t, o.Busy())

	_, applied = o.Complete(TurnResult{TurnID: turn.ID, Reply: "on time"})
	assert.True(t, applied)
	assert.Equal(t, 2, o.Conversation().Len())
}

func TestUserMessageAppendedBeforeSend(t *testing.T) {
	o := NewOrchestrator(&fakeProvider{reply: "ok"}, nil, nil, time.Second)

	turn, err := o.Begin("ordering", nil, PreviewHandle{})
	require.NoError(t, err)

	last, ok := o.Conversation().Last()
	require.True(t, ok)
	assert.Equal(t, turn.UserMessageID, last.ID)
	assert.Equal(t, RoleUser, last.Role)
}

func TestSubmitCmd(t *testing.T) {
	o := NewOrchestrator(&fakeProvider{reply: "from cmd"}, nil, nil, time.Second)

	cmd, err := o.SubmitCmd("hi", nil, PreviewHandle{})
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.True(t, o.Busy())

	msg, ok := cmd().(TurnCompletedMsg)
	require.True(t, ok)
	assert.Equal(t, "from cmd", msg.Result.Reply)

	reply, applied := o.Complete(msg.Result)
	assert.True(t, applied)
	assert.Equal(t, "from cmd", reply.Content)

	_, err = o.SubmitCmd("", nil, PreviewHandle{})
	assert.ErrorIs(t, err, ErrEmptySubmission)
}

func TestSendWithoutProvider(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil, time.Second)

	msg, err := o.HandleSubmit(context.Background(), "hello?", nil, PreviewHandle{})
	assert.Error(t, err)
	assert.Equal(t, FallbackReply, msg.Content)
	assert.Equal(t, "offline", o.ProviderName())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-response", StateAwaitingResponse.String())
}
