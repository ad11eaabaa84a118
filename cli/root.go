// Package cli holds the tempchat command tree: the chat TUI at the root plus
// the one-shot send, the local echo backend and version commands.
package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tempchat/config"
	"tempchat/model"
	"tempchat/provider"
	"tempchat/storage"
	"tempchat/ui"
)

const rootLongDesc string = `A temporary chat in your terminal.

Nothing is saved: the conversation lives only until you quit. Each message,
optionally with one image, is sent to the configured backend and the reply is
shown beneath it.

Examples:
  tempchat
  tempchat --endpoint http://localhost:8080/api/connect-ai/message
  tempchat --provider ollama --model llama3.2-vision:latest`

const rootShortDesc string = "Temporary chat with an AI backend"

// stalePreviewAge is how old a leftover preview directory must be before a new
// session removes it
const stalePreviewAge = 24 * time.Hour

type rootCommander struct {
	version string

	configPath string
	provider   string
	endpoint   string
	model      string
	timeout    time.Duration
	debug      bool

	// runProgram is swapped in tests so no terminal is needed
	runProgram func(tea.Model) error
}

func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&rootCommander{
		version:    version,
		runProgram: runFullscreen,
	})
}

func newRootCmd(cmder *rootCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tempchat",
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cmder.configPath, "config", "c", "", "Path to config.toml (default ~/.config/tempchat/config.toml)")
	flags.StringVarP(&cmder.provider, "provider", "p", "", "Backend: connect, ollama, openai, openrouter or anthropic")
	flags.StringVarP(&cmder.endpoint, "endpoint", "e", "", "Backend URL (the full message URL for connect)")
	flags.StringVarP(&cmder.model, "model", "m", "", "Model name for SDK backends")
	flags.DurationVar(&cmder.timeout, "timeout", 0, "Per-request timeout (default 60s)")
	flags.BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newSendCmd(cmder),
		newEchoServerCmd(cmder),
		newVersionCmd(cmder.version),
	)

	return cmd
}

func (c *rootCommander) overrides() config.Overrides {
	return config.Overrides{
		Provider: c.provider,
		Endpoint: c.endpoint,
		Model:    c.model,
		Timeout:  c.timeout,
		Debug:    c.debug,
	}
}

func (c *rootCommander) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath, c.overrides())
}

func (c *rootCommander) run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return c.runProgram(ui.NewErrorModal("Configuration Error", err.Error()))
	}

	logger, err := config.NewLogger(cfg.Debug, config.GetDebugLogPath())
	if err != nil {
		return fmt.Errorf("failed to start debug log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Crash recovery: previews left by sessions that never reached Close
	if removed, err := storage.SweepStale(config.GetPreviewDir(), stalePreviewAge); err != nil {
		logger.Warn("failed to sweep stale previews", zap.Error(err))
	} else if removed > 0 {
		logger.Debug("removed stale preview directories", zap.Int("count", removed))
	}

	store, err := storage.NewPreviewStore(config.GetPreviewDir(), logger.Named("previews"))
	if err != nil {
		return fmt.Errorf("failed to create preview store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to release previews", zap.Error(err))
		}
	}()

	backend, err := provider.InitializeProvider(cfg, logger)
	if err != nil {
		return c.runProgram(ui.NewErrorModal("Backend Error", err.Error()))
	}

	toaster := ui.NewToaster(ui.DefaultToastDuration)
	orchestrator := model.NewOrchestrator(backend, toaster, logger.Named("orchestrator"), cfg.Timeout)

	logger.Info("starting temporary chat",
		zap.String("version", c.version),
		zap.String("provider", backend.Name()),
		zap.Duration("timeout", cfg.Timeout),
	)

	return c.runProgram(ui.NewAppView(cfg, orchestrator, store, toaster, logger, c.version))
}

func runFullscreen(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
