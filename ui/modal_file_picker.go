package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tempchat/config"
)

type FilePickerConfig struct {
	Title          string
	AllowedTypes   []string // empty allows every file
	StartDirectory string
	ShowHidden     bool
}

type FilePickerState struct {
	Active bool
	Picker filepicker.Model
	Config FilePickerConfig
}

func NewFilePickerState(cfg FilePickerConfig) FilePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = cfg.AllowedTypes
	fp.AutoHeight = false
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = cfg.ShowHidden

	startDir := cfg.StartDirectory
	if startDir == "" {
		startDir = config.GetHomeDir()
	}
	fp.CurrentDirectory = startDir

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return FilePickerState{
		Picker: fp,
		Config: cfg,
	}
}

// Activate opens the picker and returns the command that reads its directory
func (fps *FilePickerState) Activate() tea.Cmd {
	fps.Active = true
	fps.Picker.Path = ""
	return fps.Picker.Init()
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
	fps.Picker.Path = ""
}

// Update forwards a key to the picker and reports the chosen file, if any.
// Directories are never reported.
func (fps *FilePickerState) Update(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	fps.Picker, cmd = fps.Picker.Update(msg)

	if fps.Picker.Path == "" {
		return "", cmd
	}

	path := fps.Picker.Path
	fps.Picker.Path = ""
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", cmd
	}
	return path, cmd
}

func RenderFilePickerModal(state FilePickerState, width, height int) string {
	// Guard clause: prevent rendering in tiny terminals
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth < 10 {
		modalWidth = 10
	}
	if modalWidth > 80 {
		modalWidth = 80
	}

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var messageLines []string
	messageLines = append(messageLines, contentStyle.Render("  "+DimStyle.Render(state.Picker.CurrentDirectory)))

	for _, line := range strings.Split(state.Picker.View(), "\n") {
		trimmedLine := strings.TrimRight(line, " ")
		messageLines = append(messageLines, contentStyle.Render("  "+trimmedLine))
	}

	footer := FormatFooter("j/k", "Navigate", "h/l", "Back/Open", "Enter", "Attach", "Esc", "Cancel")

	return RenderThreeSectionModal(
		state.Config.Title,
		messageLines,
		footer,
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}
