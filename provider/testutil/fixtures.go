package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"tempchat/model"
)

// TestPNG returns the bytes of a small solid PNG of the given size
func TestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TestAttachment returns a valid in-memory PNG attachment
func TestAttachment() *model.Attachment {
	data := TestPNG(4, 3)
	return &model.Attachment{
		Path:      "/tmp/pixel.png",
		Name:      "pixel.png",
		MediaType: "image/png",
		Size:      int64(len(data)),
		Data:      data,
		Width:     4,
		Height:    3,
	}
}

// TextPrompt returns a prompt without an image
func TextPrompt(text string) model.Prompt {
	return model.Prompt{Text: text}
}

// ImagePrompt returns a prompt carrying TestAttachment
func ImagePrompt(text string) model.Prompt {
	return model.Prompt{Text: text, Image: TestAttachment()}
}

// TestConversation returns a completed two-turn exchange
func TestConversation() []model.Message {
	img := TestAttachment().ImageRef(model.PreviewHandle{ID: "preview-1", Path: "/tmp/preview-1.png"})
	return []model.Message{
		model.NewUserMessage("Hello, how are you?", nil),
		model.NewAssistantMessage("I'm doing **well**, thank you!"),
		model.NewUserMessage("What is in this picture?", img),
		model.NewErrorMessage(model.FallbackReply),
	}
}
