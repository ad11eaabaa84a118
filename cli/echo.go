package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tempchat/config"
	"tempchat/echoserver"
)

const echoLongDesc string = `Run a local backend that speaks the connect protocol.

Every message is answered with "You said: <text>", plus a short description
of the attached image when there is one. Useful for trying the chat without
a real AI service.

Examples:
  tempchat echo-server
  tempchat echo-server --listen :9090 --delay 2s
  tempchat echo-server --fail-status 503`

const echoShortDesc string = "Run a local echo backend"

type echoCommander struct {
	root *rootCommander

	listen       string
	delay        time.Duration
	failStatus   int
	omitResponse bool
}

func newEchoServerCmd(root *rootCommander) *cobra.Command {
	cmder := &echoCommander{root: root}

	cmd := &cobra.Command{
		Use:   "echo-server",
		Short: echoShortDesc,
		Long:  echoLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":8080", "Address to listen on")
	cmd.Flags().DurationVar(&cmder.delay, "delay", 0, "Hold every reply back this long")
	cmd.Flags().IntVar(&cmder.failStatus, "fail-status", 0, "Answer every message with this HTTP error status (400-599)")
	cmd.Flags().BoolVar(&cmder.omitResponse, "omit-response", false, "Reply 200 without a response field")

	return cmd
}

func (c *echoCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg := echoserver.Config{
		ListenAddr:   c.listen,
		Delay:        c.delay,
		FailStatus:   c.failStatus,
		OmitResponse: c.omitResponse,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := config.NewConsoleLogger(c.root.debug || config.CheckDebug())
	defer func() { _ = logger.Sync() }()

	srv := echoserver.New(cfg, logger.Named("echo"))

	fmt.Fprintf(cmd.OutOrStdout(), "Echo server listening on %s (POST %s)\n", c.listen, echoserver.ChatPath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Debug("shutting down echo server")
		if err := srv.Shutdown(); err != nil {
			logger.Warn("echo server shutdown failed", zap.Error(err))
			return err
		}
		return nil
	}
}
