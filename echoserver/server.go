// Package echoserver provides a development backend for the connect provider.
// It accepts the same multipart chat requests as a real deployment and replies
// by echoing the message and describing any attached image.
package echoserver

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tempchat/model"
	"tempchat/provider"
)

// ChatPath is the route the connect provider posts turns to.
const ChatPath = "/api/connect-ai/message"

// Server is an echoing chat backend.
type Server struct {
	config Config
	logger *zap.Logger
	server *fiber.App
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a new Server with its routes registered.
func New(config Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Room for a maximum-size image plus form overhead
		BodyLimit: int(model.MaxImageBytes) + 1024*1024,
	})

	s := &Server{
		config: config,
		logger: logger,
		server: app,
	}

	app.Post(ChatPath, s.handleMessage)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.server
}

// Run starts the server on the configured listening address
func (s *Server) Run() error {
	s.logger.Info("starting echo server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("path", ChatPath),
	)

	return s.server.Listen(s.config.ListenAddr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

func (s *Server) handleMessage(c *fiber.Ctx) error {
	startTime := time.Now()

	text := c.FormValue(provider.FieldMessage)

	var summary string
	// A missing image part is fine; the message may be text only
	if header, err := c.FormFile(provider.FieldImage); err == nil {
		summary, err = describeImage(header)
		if err != nil {
			s.logger.Warn("rejected image", zap.String("name", header.Filename), zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
		}
	}

	s.logger.Debug("received message",
		zap.Int("text_len", len(text)),
		zap.Bool("image", summary != ""),
	)

	if s.config.Delay > 0 {
		time.Sleep(s.config.Delay)
	}

	if s.config.FailStatus != 0 {
		return c.Status(s.config.FailStatus).JSON(errorResponse{Error: "simulated failure"})
	}

	if s.config.OmitResponse {
		return c.JSON(fiber.Map{})
	}

	reply := Reply(text, summary)

	s.logger.Debug("replied",
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Int("reply_len", len(reply)),
	)

	return c.JSON(provider.ConnectResponse{Response: reply})
}

// Reply builds the echo text for a message and an optional image summary.
func Reply(text, imageSummary string) string {
	var reply string
	if text != "" {
		reply = "You said: " + text
	}
	if imageSummary != "" {
		if reply != "" {
			reply += "\n\n"
		}
		reply += "You sent an image: " + imageSummary
	}
	return reply
}

// describeImage validates an uploaded image the same way the client does and
// returns a one-line description of it.
func describeImage(header *multipart.FileHeader) (string, error) {
	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = model.MediaTypeFor(header.Filename)
	}
	if err := model.ValidateAttachment(mediaType, header.Size); err != nil {
		return "", err
	}

	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	summary := fmt.Sprintf("%s (%s, %d bytes", header.Filename, mediaType, len(data))
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		summary += fmt.Sprintf(", %s %dx%d", format, cfg.Width, cfg.Height)
	}
	return summary + ")", nil
}
