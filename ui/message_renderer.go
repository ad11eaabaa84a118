package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tempchat/model"
)

const (
	EmptyNoticeTitle = "Temporary Chat"
	EmptyNoticeBody  = "This chat won't appear in history, use or update AI's memory, or be used to train our models. For safety purposes, we may keep a copy of this chat for up to 30 days."

	assistantAvatar = "AI"
	userAvatar      = "U"

	// Bubbles never take more than this share of the row
	bubbleWidthPercent = 80
	minRenderWidth     = 20
)

// RenderConversation renders the whole message list top to bottom, or the
// empty-state notice when there is nothing to show. It has no side effects.
func RenderConversation(msgs []model.Message, width int) string {
	if len(msgs) == 0 {
		return renderEmptyNotice(width)
	}

	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, RenderMessage(msg, width))
	}
	return strings.Join(parts, "\n\n")
}

// RenderMessage renders one entry. Assistant entries sit on the left behind an
// "AI" avatar; user entries sit on the right followed by a "U" avatar.
func RenderMessage(msg model.Message, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}

	isUser := msg.Role == model.RoleUser

	avatar := AssistantAvatarStyle.Render(assistantAvatar)
	bubbleStyle := AssistantBubbleStyle
	align := lipgloss.Left
	if isUser {
		avatar = UserAvatarStyle.Render(userAvatar)
		bubbleStyle = UserBubbleStyle
		align = lipgloss.Right
	}

	maxBubble := width*bubbleWidthPercent/100 - lipgloss.Width(avatar) - 1
	textWidth := maxBubble - bubbleStyle.GetHorizontalFrameSize()
	if textWidth < 1 {
		textWidth = 1
	}

	var column []string
	column = append(column, DimStyle.Render(msg.Timestamp.Format("[15:04]")))

	if msg.Content != "" {
		body := msg.Content
		if !isUser {
			body = renderMarkdown(msg.Content, textWidth)
		}
		column = append(column, renderBubble(body, bubbleStyle, textWidth))
	}

	if msg.Image != nil {
		column = append(column, renderImageCard(*msg.Image, maxBubble))
	}

	block := lipgloss.JoinVertical(align, column...)

	var row string
	if isUser {
		row = lipgloss.JoinHorizontal(lipgloss.Top, block, " ", avatar)
	} else {
		row = lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", block)
	}

	return lipgloss.PlaceHorizontal(width, align, row)
}

// renderBubble wraps body at textWidth, keeping its own line breaks and
// indentation, and shrinks the bubble to the longest line.
func renderBubble(body string, style lipgloss.Style, textWidth int) string {
	natural := lipgloss.Width(body)
	if natural > textWidth {
		natural = textWidth
	}
	if natural < 1 {
		natural = 1
	}
	return style.Width(natural + style.GetHorizontalFrameSize()).Render(body)
}

// renderImageCard is the terminal stand-in for an image preview:
// "name · WxH · size" in a rounded frame.
func renderImageCard(ref model.ImageRef, maxWidth int) string {
	details := []string{}
	if ref.Width > 0 && ref.Height > 0 {
		details = append(details, fmt.Sprintf("%dx%d", ref.Width, ref.Height))
	}
	details = append(details, FormatSize(ref.Size))
	suffix := " · " + strings.Join(details, " · ")

	inner := maxWidth - ImageCardStyle.GetHorizontalFrameSize()
	nameWidth := inner - runewidth.StringWidth(suffix) - 2 // icon and space
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := runewidth.Truncate(ref.Name, nameWidth, "…")

	line := HighlightStyle.Render("▣") + " " + name + DimStyle.Render(suffix)
	return ImageCardStyle.Render(line)
}

func renderEmptyNotice(width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}
	boxWidth := 64
	if width-4 < boxWidth {
		boxWidth = width - 4
	}

	title := TitleStyle.Foreground(warningColor).Render(EmptyNoticeTitle)
	body := DimStyle.Render(wordWrap(EmptyNoticeBody, boxWidth-NoticeStyle.GetHorizontalFrameSize()))

	box := NoticeStyle.Width(boxWidth).Render(lipgloss.JoinVertical(lipgloss.Center, title, "", body))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// FormatSize renders a byte count the way file managers do: 512 B, 1.5 KB, 4.0 MB
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	const prefixes = "KMGTPE"
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit && exp < len(prefixes)-1; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), prefixes[exp])
}
