package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tempchat/config"
	"tempchat/model"
	"tempchat/provider"
)

const sendLongDesc string = `Send a single message and print the reply.

The turn goes through the same path as the chat screen: the image, if any, is
validated first, then exactly one request is made to the backend. A failed
turn prints the fallback reply and exits with status 1.

Examples:
  tempchat send "What is the capital of France?"
  tempchat send --image ./diagram.png "Explain this diagram"
  tempchat send --image ./photo.jpg`

const sendShortDesc string = "Send one message and print the reply"

// ErrTurnFailed marks a turn that reached the backend and failed
var ErrTurnFailed = errors.New("turn failed")

type sendCommander struct {
	root  *rootCommander
	image string
}

func newSendCmd(root *rootCommander) *cobra.Command {
	cmder := &sendCommander{root: root}

	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: sendShortDesc,
		Long:  sendLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&cmder.image, "image", "i", "", "Path of an image to attach (max 5 MB)")

	return cmd
}

func (c *sendCommander) run(ctx context.Context, cmd *cobra.Command, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.root.loadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger := config.NewConsoleLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	var att *model.Attachment
	if c.image != "" {
		att, err = model.LoadAttachment(c.image)
		if err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("%s: %s", verr.Title, verr.Description)
			}
			return fmt.Errorf("could not read image: %w", err)
		}
	}

	backend, err := provider.InitializeProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("could not initialize backend: %w", err)
	}

	orchestrator := model.NewOrchestrator(backend, logNotifier(logger), logger.Named("orchestrator"), cfg.Timeout)

	reply, err := orchestrator.HandleSubmit(ctx, text, att, model.PreviewHandle{})
	if errors.Is(err, model.ErrEmptySubmission) {
		return fmt.Errorf("nothing to send: give some text or --image")
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply.Content)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrTurnFailed, err)
	}
	return nil
}

// logNotifier shows notifications as log lines on stderr
func logNotifier(logger *zap.Logger) model.Notifier {
	return model.NotifierFunc(func(n model.Notification) {
		if n.Variant == model.VariantDestructive {
			logger.Error(n.Title, zap.String("detail", n.Description))
			return
		}
		logger.Warn(n.Title, zap.String("detail", n.Description))
	})
}
