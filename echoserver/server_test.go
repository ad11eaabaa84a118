package echoserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tempchat/model"
	"tempchat/provider"
	"tempchat/provider/testutil"
)

func testServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return New(cfg, logger)
}

func postPrompt(t *testing.T, s *Server, prompt model.Prompt) (*http.Response, map[string]string) {
	t.Helper()
	body, contentType, err := provider.EncodeConnectForm(prompt)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", ChatPath, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.App().Test(req, 5000)
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	var result map[string]string
	require.NoError(t, json.Unmarshal(raw, &result), string(raw))
	return resp, result
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t, Config{})

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "ok", result["status"])
}

func TestEchoText(t *testing.T) {
	s := testServer(t, Config{})

	resp, result := postPrompt(t, s, testutil.TextPrompt("hello"))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "You said: hello", result["response"])
}

func TestEchoImage(t *testing.T) {
	s := testServer(t, Config{})

	resp, result := postPrompt(t, s, testutil.ImagePrompt("look"))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, result["response"], "You said: look")
	assert.Contains(t, result["response"], "pixel.png")
	assert.Contains(t, result["response"], "png 4x3")
}

func TestEchoRejectsNonImage(t *testing.T) {
	s := testServer(t, Config{})

	prompt := model.Prompt{
		Text: "notes",
		Image: &model.Attachment{
			Name:      "notes.txt",
			MediaType: "text/plain",
			Size:      5,
			Data:      []byte("hello"),
		},
	}

	resp, result := postPrompt(t, s, prompt)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, result["error"], "Invalid file type")
}

func TestSimulatedFailure(t *testing.T) {
	s := testServer(t, Config{FailStatus: http.StatusServiceUnavailable})

	resp, result := postPrompt(t, s, testutil.TextPrompt("hello"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "simulated failure", result["error"])
}

func TestOmitResponse(t *testing.T) {
	s := testServer(t, Config{OmitResponse: true})

	resp, result := postPrompt(t, s, testutil.TextPrompt("hello"))
	assert.Equal(t, 200, resp.StatusCode)
	_, ok := result["response"]
	assert.False(t, ok)
}

func TestReply(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		summary string
		want    string
	}{
		{"text only", "hi", "", "You said: hi"},
		{"image only", "", "cat.png", "You sent an image: cat.png"},
		{"both", "hi", "cat.png", "You said: hi\n\nYou sent an image: cat.png"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reply(tt.text, tt.summary))
		})
	}
}

// TestConnectRoundTrip drives the connect provider against a live listener.
func TestConnectRoundTrip(t *testing.T) {
	s := testServer(t, Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = s.App().Listener(ln) }()
	t.Cleanup(func() { _ = s.Shutdown() })

	p, err := provider.NewConnectProvider("http://"+ln.Addr().String()+ChatPath, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := p.Send(ctx, testutil.ImagePrompt("round trip"))
	require.NoError(t, err)
	assert.Contains(t, reply, "You said: round trip")
	assert.Contains(t, reply, "pixel.png")
}

func TestConnectRoundTripFailure(t *testing.T) {
	s := testServer(t, Config{FailStatus: http.StatusInternalServerError})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = s.App().Listener(ln) }()
	t.Cleanup(func() { _ = s.Shutdown() })

	p, err := provider.NewConnectProvider("http://"+ln.Addr().String()+ChatPath, nil)
	require.NoError(t, err)

	_, err = p.Send(context.Background(), testutil.TextPrompt("hello"))
	var statusErr *provider.StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"client error", Config{FailStatus: 404}, false},
		{"server error", Config{FailStatus: 503}, false},
		{"success status", Config{FailStatus: 200}, true},
		{"redirect", Config{FailStatus: 302}, true},
		{"out of range", Config{FailStatus: 600}, true},
		{"negative delay", Config{Delay: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
