package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"tempchat/config"
	"tempchat/model"
)

const composerPlaceholder = "Type your message here..."

// Composer is the draft: the text being typed and at most one pending image
// with its preview handle. The preview handle is owned by the composer until
// Take hands it to the conversation.
type Composer struct {
	textarea textarea.Model

	attachment *model.Attachment
	preview    model.PreviewHandle

	store    model.PreviewStore
	notifier model.Notifier
	logger   *zap.Logger

	removeHint string
	width      int
}

// NewComposer builds a focused composer. Enter alone is left to the caller as
// submit; the "newline" action from kb inserts a line break.
func NewComposer(store model.PreviewStore, notifier model.Notifier, logger *zap.Logger, kb *config.KeyBindingsConfig) Composer {
	if notifier == nil {
		notifier = model.NotifierFunc(func(model.Notification) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	ta := textarea.New()
	ta.Placeholder = composerPlaceholder
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter is submit, so only the newline binding breaks lines
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys(kb.GetActionKey("newline")))

	// "> " for the first line, "| " for continuation lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	return Composer{
		textarea:   ta,
		store:      store,
		notifier:   notifier,
		logger:     logger,
		removeHint: kb.DisplayActionKey("remove_attachment"),
		width:      80,
	}
}

// SelectImage validates the file at path and makes it the pending attachment.
// A rejected file leaves the current draft untouched and raises one
// destructive notification. It reports whether the file was accepted.
func (c *Composer) SelectImage(path string) bool {
	att, err := model.LoadAttachment(path)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.notifier.Notify(verr.Notification())
		} else {
			c.notifier.Notify(model.Notification{
				Title:       "Could not read file",
				Description: err.Error(),
				Variant:     model.VariantDestructive,
			})
		}
		c.logger.Debug("attachment rejected", zap.String("path", path), zap.Error(err))
		return false
	}

	// The previous draft preview goes before the new one is created
	c.releasePreview()

	var handle model.PreviewHandle
	if c.store != nil {
		handle, err = c.store.Create(att)
		if err != nil {
			c.logger.Warn("failed to create preview", zap.String("path", path), zap.Error(err))
			handle = model.PreviewHandle{}
		}
	}

	c.attachment = att
	c.preview = handle

	c.logger.Debug("attachment selected",
		zap.String("name", att.Name),
		zap.String("media_type", att.MediaType),
		zap.Int64("size", att.Size),
	)
	return true
}

// RemoveAttachment drops the pending attachment and releases its preview
func (c *Composer) RemoveAttachment() {
	c.releasePreview()
	c.attachment = nil
}

func (c *Composer) releasePreview() {
	if c.preview.IsZero() || c.store == nil {
		c.preview = model.PreviewHandle{}
		return
	}
	if err := c.store.Release(c.preview); err != nil {
		c.logger.Warn("failed to release preview", zap.String("preview", c.preview.ID), zap.Error(err))
	}
	c.preview = model.PreviewHandle{}
}

// Take returns the draft and clears it. The preview handle is handed over to
// the caller without being released.
func (c *Composer) Take() (string, *model.Attachment, model.PreviewHandle) {
	text := c.textarea.Value()
	att, preview := c.attachment, c.preview

	c.textarea.Reset()
	c.attachment = nil
	c.preview = model.PreviewHandle{}

	return text, att, preview
}

// CanSubmit is false when the text is blank and no image is pending
func (c Composer) CanSubmit() bool {
	return strings.TrimSpace(c.textarea.Value()) != "" || c.attachment != nil
}

func (c Composer) Value() string {
	return c.textarea.Value()
}

func (c Composer) Attachment() *model.Attachment {
	return c.attachment
}

func (c Composer) Preview() model.PreviewHandle {
	return c.preview
}

// ClearText empties the text buffer and keeps the attachment
func (c *Composer) ClearText() {
	c.textarea.Reset()
}

func (c *Composer) SetWidth(width int) {
	c.width = width
	c.textarea.SetWidth(width)
}

func (c *Composer) Focus() tea.Cmd {
	return c.textarea.Focus()
}

func (c *Composer) Blur() {
	c.textarea.Blur()
}

// Height is the number of lines View occupies
func (c Composer) Height() int {
	h := c.textarea.Height()
	if c.attachment != nil {
		h++
	}
	return h
}

func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return cmd
}

func (c Composer) View() string {
	if c.attachment == nil {
		return c.textarea.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, c.attachmentLine(), c.textarea.View())
}

// attachmentLine is the pending image chip shown above the input
func (c Composer) attachmentLine() string {
	att := c.attachment
	suffix := " · " + FormatSize(att.Size) + "  "
	nameWidth := c.width - runewidth.StringWidth(suffix) - 16
	if nameWidth < 4 {
		nameWidth = 4
	}

	return HighlightStyle.Render("▣ ") +
		runewidth.Truncate(att.Name, nameWidth, "…") +
		DimStyle.Render(suffix) +
		DimStyle.Render("("+c.removeHint+" remove)")
}
