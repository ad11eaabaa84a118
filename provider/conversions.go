package provider

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"tempchat/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
)

// EncodeImageBase64 returns the attachment bytes as standard base64.
func EncodeImageBase64(att *model.Attachment) string {
	if att == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(att.Data)
}

// ImageDataURL returns the attachment as a data: URL, the form OpenAI-compatible
// APIs accept for inline images.
func ImageDataURL(att *model.Attachment) string {
	if att == nil {
		return ""
	}
	mediaType := att.MediaType
	if mediaType == "" {
		mediaType = http.DetectContentType(att.Data)
	}
	return "data:" + mediaType + ";base64," + EncodeImageBase64(att)
}

// ConvertToOpenAIMessages converts a prompt into the single user message sent to
// OpenAI-compatible APIs. Blank text is omitted when an image is attached.
func ConvertToOpenAIMessages(prompt model.Prompt) []openai.ChatCompletionMessageParamUnion {
	if prompt.Image == nil {
		return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt.Text)}
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, 2)
	if !isBlank(prompt.Text) {
		parts = append(parts, openai.TextContentPart(prompt.Text))
	}
	parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
		URL: ImageDataURL(prompt.Image),
	}))

	return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)}
}

// ConvertToAnthropicMessages converts a prompt into the single user message sent
// to the Messages API. The image block precedes the text, as Anthropic recommends.
func ConvertToAnthropicMessages(prompt model.Prompt) []anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 2)
	if prompt.Image != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(prompt.Image.MediaType, EncodeImageBase64(prompt.Image)))
	}
	if !isBlank(prompt.Text) || len(blocks) == 0 {
		blocks = append(blocks, anthropic.NewTextBlock(prompt.Text))
	}
	return []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)}
}

// extractAnthropicText concatenates the text blocks of a reply.
func extractAnthropicText(content []anthropic.ContentBlockUnion) string {
	var text string
	for _, block := range content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += variant.Text
		}
	}
	return text
}

// statusFromSDKError maps SDK API errors onto StatusError so callers can treat
// every backend's non-2xx answer the same way.
func statusFromSDKError(err error) error {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &StatusError{Code: openaiErr.StatusCode, Body: openaiErr.Message}
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return &StatusError{Code: anthropicErr.StatusCode, Body: anthropicErr.Error()}
	}
	return err
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
