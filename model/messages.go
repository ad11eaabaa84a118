package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// TurnCompletedMsg carries a provider result back to the UI loop
type TurnCompletedMsg struct {
	Result TurnResult
}

type ToastExpiredMsg struct {
	ID int
}

type ClipboardCopiedMsg struct {
	Err error
}

// SubmitCmd records the turn immediately and returns a command that performs
// the network call off the UI goroutine. The UI passes the resulting
// TurnCompletedMsg to Complete.
func (o *Orchestrator) SubmitCmd(text string, att *Attachment, preview PreviewHandle) (tea.Cmd, error) {
	turn, err := o.Begin(text, att, preview)
	if err != nil {
		return nil, err
	}

	return func() tea.Msg {
		return TurnCompletedMsg{Result: o.Send(context.Background(), turn)}
	}, nil
}
