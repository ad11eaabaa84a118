package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// Bubble backgrounds (256-color palette)
	userBubbleColor      = lipgloss.Color("22")
	assistantBubbleColor = lipgloss.Color("236")

	// Assistant message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// Status bar style
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	UserBubbleStyle = lipgloss.NewStyle().
			Background(userBubbleColor).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	AssistantBubbleStyle = lipgloss.NewStyle().
				Background(assistantBubbleColor).
				Padding(0, 1)

	// Avatars sit beside the bubble: "AI" on the left, "U" on the right
	AssistantAvatarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(accentColor).
				Bold(true).
				Padding(0, 1)

	UserAvatarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(successColor).
			Bold(true).
			Padding(0, 1)

	ImageCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningColor).
			Padding(1, 3).
			Align(lipgloss.Center)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in assistant blue+bold.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
// Result: "j/k Navigate  Enter Select  Esc Close"
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true) // Assistant blue
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
