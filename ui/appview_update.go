package ui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tempchat/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// The file picker needs every non-key message (directory reads);
	// keys go through handleImagePickerKey
	if a.imagePicker.Active {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			a.imagePicker.Picker, cmd = a.imagePicker.Picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()

		a.ready = true
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		// Let the spinner stop on its own once the reply is in
		if !a.orchestrator.Busy() {
			return a, tea.Batch(cmds...)
		}
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(false)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case model.TurnCompletedMsg:
		reply, applied := a.orchestrator.Complete(msg.Result)
		if applied {
			a.logger.Debug("turn completed",
				zap.String("turn", msg.Result.TurnID),
				zap.String("reply", reply.ID),
				zap.Duration("elapsed", msg.Result.Elapsed),
			)
			a.updateViewportContent(true)
		}
		cmds = append(cmds, a.toaster.Cmd())
		return a, tea.Batch(cmds...)

	case model.ToastExpiredMsg:
		a.toaster.Dismiss(msg.ID)
		return a, tea.Batch(cmds...)

	case model.ClipboardCopiedMsg:
		if msg.Err != nil {
			a.logger.Warn("clipboard copy failed", zap.Error(msg.Err))
			a.toaster.Notify(model.Notification{
				Title:       "Copy failed",
				Description: "Could not reach the system clipboard.",
				Variant:     model.VariantDestructive,
			})
		} else {
			a.toaster.Notify(model.Notification{Title: "Copied last reply"})
		}
		cmds = append(cmds, a.toaster.Cmd())
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		a, cmd = a.handleKey(msg)
		cmds = append(cmds, cmd, a.toaster.Cmd())
		return a, tea.Batch(cmds...)
	}

	// Cursor blink and anything else the textarea listens for
	cmd = a.composer.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// isAction reports whether the key is bound to action
func (a AppView) isAction(msg tea.KeyMsg, action string) bool {
	return msg.String() == a.keys.GetActionKey(action)
}

func (a AppView) handleKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	// Always-global shortcuts
	if msg.String() == "ctrl+c" || a.isAction(msg, "quit") {
		a.logger.Debug("quit requested")
		return a, tea.Quit
	}

	if a.showHelp {
		if msg.String() == "esc" || a.isAction(msg, "help") {
			a.showHelp = false
		}
		return a, nil
	}

	if a.imagePicker.Active {
		return a.handleImagePickerKey(msg)
	}

	switch {
	case a.isAction(msg, "help"):
		a.showHelp = true
		return a, nil

	case a.isAction(msg, "attach_image"):
		return a, a.imagePicker.Activate()

	case a.isAction(msg, "remove_attachment"):
		a.composer.RemoveAttachment()
		a.layout()
		return a, nil

	case a.isAction(msg, "clear_input"):
		a.composer.ClearText()
		return a, nil

	case a.isAction(msg, "yank_last_response"):
		reply, ok := a.lastReply()
		if !ok {
			return a, nil
		}
		return a, copyToClipboard(reply.Content)

	case a.isAction(msg, "send"):
		return a.submit()

	case a.isAction(msg, "scroll_down"):
		a.viewport.LineDown(1)
		return a, nil

	case a.isAction(msg, "scroll_up"):
		a.viewport.LineUp(1)
		return a, nil

	case a.isAction(msg, "half_page_down"):
		a.viewport.HalfPageDown()
		return a, nil

	case a.isAction(msg, "half_page_up"):
		a.viewport.HalfPageUp()
		return a, nil

	case a.isAction(msg, "page_down"):
		a.viewport.PageDown()
		return a, nil

	case a.isAction(msg, "page_up"):
		a.viewport.PageUp()
		return a, nil

	case a.isAction(msg, "scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil

	case a.isAction(msg, "scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil
	}

	return a, a.composer.Update(msg)
}

// submit hands the draft to the orchestrator. While sending is disabled the
// key does nothing and the draft stays as it is.
func (a AppView) submit() (AppView, tea.Cmd) {
	if !a.canSend() {
		return a, nil
	}

	text, att, preview := a.composer.Take()
	turnCmd, err := a.orchestrator.SubmitCmd(text, att, preview)
	if err != nil {
		a.logger.Error("submit failed", zap.Error(err))
		return a, nil
	}

	a.layout()
	a.updateViewportContent(true)
	return a, tea.Batch(turnCmd, a.loadingSpinner.Tick)
}

func (a AppView) handleImagePickerKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if msg.String() == "esc" {
		a.imagePicker.Reset()
		return a, nil
	}

	path, cmd := a.imagePicker.Update(msg)
	if path == "" {
		return a, cmd
	}

	a.imagePicker.Reset()
	a.composer.SelectImage(path)
	a.layout()
	a.updateViewportContent(false)
	return a, cmd
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return model.ClipboardCopiedMsg{Err: clipboard.WriteAll(text)}
	}
}
