package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"tempchat/config"
	"tempchat/model"
)

// AppView is the Temporary Chat screen: the message list, the composer and
// a status bar. The orchestrator owns the conversation; AppView only drives it.
type AppView struct {
	orchestrator *model.Orchestrator
	toaster      *Toaster
	keys         *config.KeyBindingsConfig
	logger       *zap.Logger
	version      string

	// UI Components
	viewport       viewport.Model
	composer       Composer
	loadingSpinner spinner.Model
	imagePicker    FilePickerState

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool
}

// NewAppView wires the chat screen. toaster must be the same Notifier the
// orchestrator was built with so that turn failures surface as toasts.
func NewAppView(cfg *config.Config, orchestrator *model.Orchestrator, store model.PreviewStore, toaster *Toaster, logger *zap.Logger, version string) AppView {
	if logger == nil {
		logger = zap.NewNop()
	}
	if toaster == nil {
		toaster = NewToaster(DefaultToastDuration)
	}

	keys := cfg.Keybindings
	if keys == nil {
		keys = config.DefaultKeybindings()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return AppView{
		orchestrator:   orchestrator,
		toaster:        toaster,
		keys:           keys,
		logger:         logger.Named("ui"),
		version:        version,
		viewport:       viewport.New(0, 0),
		composer:       NewComposer(store, toaster, logger.Named("composer"), keys),
		loadingSpinner: sp,
		imagePicker: NewFilePickerState(FilePickerConfig{
			Title: "Attach Image",
		}),
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading Temporary Chat..."
	}

	if a.width < 20 || a.height < 10 {
		return "Terminal too small"
	}

	// Modal rendering order: help sits above the picker
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.imagePicker.Active {
		return RenderFilePickerModal(a.imagePicker, a.width, a.height)
	}

	// Separator with bottom margin for header (empty line forces spacing)
	separator := ""

	viewportView := overlayTop(a.viewport.View(), a.toaster.View(a.width))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		separator,
		viewportView,
		a.composer.View(),
		a.renderStatusBar(),
	)
}
