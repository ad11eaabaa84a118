package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tempchat/model"
)

const pendingReplyText = "Thinking..."

// updateViewportContent re-renders the conversation into the viewport. The
// view follows the bottom when forced or when the user had not scrolled up.
func (a *AppView) updateViewportContent(forceScroll bool) {
	wasAtBottom := a.viewport.AtBottom()

	content := RenderConversation(a.orchestrator.Conversation().Messages(), a.width)
	if a.orchestrator.Busy() {
		content += "\n\n" + a.renderPendingReply()
	}

	a.viewport.SetContent(content)

	if forceScroll || wasAtBottom {
		a.viewport.GotoBottom()
	}
}

// renderPendingReply is the placeholder row shown on the assistant side while
// a turn is in flight
func (a AppView) renderPendingReply() string {
	avatar := AssistantAvatarStyle.Render(assistantAvatar)
	return lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", a.loadingSpinner.View()+DimStyle.Render(pendingReplyText))
}

// layout sizes the viewport around the fixed rows: title, separator, the
// composer and the status bar
func (a *AppView) layout() {
	a.composer.SetWidth(a.width)

	viewportHeight := a.height - 3 - a.composer.Height()
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	a.viewport.Width = a.width
	a.viewport.Height = viewportHeight
}

func (a AppView) renderTitle() string {
	title := AssistantStyle.Render("Temporary Chat") +
		TitleStyle.Render(fmt.Sprintf(" - %s", a.orchestrator.ProviderName()))

	if a.orchestrator.Busy() {
		title += DimStyle.Render(" | awaiting reply " + a.loadingSpinner.View())
	}
	return title
}

// renderStatusBar lists the main shortcuts. "Send" is dimmed while sending is
// disabled: blank draft or a reply still pending.
func (a AppView) renderStatusBar() string {
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	sendStyle := descStyle
	if !a.canSend() {
		sendStyle = DimStyle
	}

	statusBar := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s  %s %s",
		a.keys.DisplayActionKey("quit"), descStyle.Render("Quit"),
		a.keys.DisplayActionKey("attach_image"), descStyle.Render("Attach"),
		a.keys.DisplayActionKey("newline"), descStyle.Render("New Line"),
		a.keys.DisplayActionKey("send"), sendStyle.Render("Send"),
		a.keys.DisplayActionKey("yank_last_response"), descStyle.Render("Copy"),
		a.keys.DisplayActionKey("help"), descStyle.Render("Help"),
	)
	return StatusStyle.Render(statusBar)
}

func (a AppView) canSend() bool {
	return !a.orchestrator.Busy() && a.composer.CanSubmit()
}

// lastReply returns the newest assistant entry, if any
func (a AppView) lastReply() (model.Message, bool) {
	return a.orchestrator.Conversation().LastByRole(model.RoleAssistant)
}

// overlayTop draws overlay over the first lines of base, line for line
func overlayTop(base, overlay string) string {
	if overlay == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(overlay, "\n") {
		if i >= len(baseLines) {
			break
		}
		baseLines[i] = line
	}
	return strings.Join(baseLines, "\n")
}
