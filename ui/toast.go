package ui

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tempchat/model"
)

const (
	DefaultToastDuration = 4 * time.Second
	maxVisibleToasts     = 3
	toastWidth           = 44
)

// Toast is one notification currently on screen
type Toast struct {
	ID int
	model.Notification
}

// Toaster collects notifications and schedules their expiry. It is shared by
// pointer between the AppView value and the orchestrator, which only sees it
// as a model.Notifier.
type Toaster struct {
	mu       sync.Mutex
	nextID   int
	toasts   []Toast
	pending  []int
	duration time.Duration
}

var _ model.Notifier = (*Toaster)(nil)

func NewToaster(duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Toaster{duration: duration}
}

// Notify queues a toast. Its expiry timer starts with the next Cmd call.
func (t *Toaster) Notify(n model.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.toasts = append(t.toasts, Toast{ID: t.nextID, Notification: n})
	t.pending = append(t.pending, t.nextID)

	// Oldest toasts make room for new ones
	if len(t.toasts) > maxVisibleToasts {
		t.toasts = t.toasts[len(t.toasts)-maxVisibleToasts:]
	}
}

// Cmd returns one expiry tick per toast queued since the last call, or nil
func (t *Toaster) Cmd() tea.Cmd {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(t.pending))
	for _, id := range t.pending {
		cmds = append(cmds, tea.Tick(t.duration, func(time.Time) tea.Msg {
			return model.ToastExpiredMsg{ID: id}
		}))
	}
	t.pending = nil
	return tea.Batch(cmds...)
}

// Dismiss removes a toast. Unknown IDs are ignored.
func (t *Toaster) Dismiss(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, toast := range t.toasts {
		if toast.ID == id {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			return
		}
	}
}

// Toasts returns a copy of the visible toasts, oldest first
func (t *Toaster) Toasts() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Toast, len(t.toasts))
	copy(out, t.toasts)
	return out
}

// View renders the visible toasts stacked and right-aligned within width.
// Destructive toasts get a red border and title.
func (t *Toaster) View(width int) string {
	toasts := t.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	boxWidth := toastWidth
	if width-2 < boxWidth {
		boxWidth = width - 2
	}
	if boxWidth < 10 {
		boxWidth = 10
	}

	var rendered []string
	for _, toast := range toasts {
		rendered = append(rendered, renderToast(toast, boxWidth))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Right, strings.Join(rendered, "\n"))
}

func renderToast(toast Toast, width int) string {
	color := accentColor
	if toast.Variant == model.VariantDestructive {
		color = dangerColor
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(width)

	inner := width - box.GetHorizontalPadding()
	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(toast.Title)

	lines := []string{title}
	if toast.Description != "" {
		lines = append(lines, wordWrap(toast.Description, inner))
	}
	return box.Render(strings.Join(lines, "\n"))
}
