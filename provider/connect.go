package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"tempchat/model"

	"go.uber.org/zap"
)

const (
	// Form field names expected by the chat endpoint
	FieldMessage = "message"
	FieldImage   = "image"

	// maxErrorBody caps how much of a failed response is kept in StatusError
	maxErrorBody = 512
)

// ConnectResponse is the JSON body of a successful chat endpoint reply.
// Response may be absent; callers substitute a default reply.
type ConnectResponse struct {
	Response string `json:"response"`
}

// ConnectProvider posts each turn as multipart/form-data to a chat endpoint.
type ConnectProvider struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewConnectProvider creates a provider for the given endpoint URL.
// The endpoint must be an absolute http or https URL.
func NewConnectProvider(endpoint string, logger *zap.Logger) (*ConnectProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("connect endpoint is required")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid connect endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid connect endpoint %q: scheme must be http or https", endpoint)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConnectProvider{
		endpoint: endpoint,
		client:   &http.Client{},
		logger:   logger,
	}, nil
}

// WithHTTPClient replaces the HTTP client used for requests.
func (p *ConnectProvider) WithHTTPClient(client *http.Client) *ConnectProvider {
	p.client = client
	return p
}

func (p *ConnectProvider) Name() string {
	return "connect"
}

func (p *ConnectProvider) Endpoint() string {
	return p.endpoint
}

// Send implements model.Provider. The returned string is empty when the
// endpoint answered 2xx without a response field.
func (p *ConnectProvider) Send(ctx context.Context, prompt model.Prompt) (string, error) {
	body, contentType, err := EncodeConnectForm(prompt)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("posting turn",
		zap.String("endpoint", p.endpoint),
		zap.Bool("image", prompt.Image != nil),
	)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(snippet)),
		}
	}

	// An empty body or a bare null is malformed; only a decoded object
	// without "response" degrades to the default reply.
	var decoded *ConnectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded == nil {
		return "", fmt.Errorf("failed to decode response: body is null")
	}

	return decoded.Response, nil
}

// EncodeConnectForm builds the multipart body for a turn: a "message" field with
// the text and, when present, an "image" file part with the original file name
// and media type.
func EncodeConnectForm(prompt model.Prompt) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(FieldMessage, prompt.Text); err != nil {
		return nil, "", fmt.Errorf("failed to write message field: %w", err)
	}

	if att := prompt.Image; att != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldImage, att.Name))
		h.Set("Content-Type", att.MediaType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
