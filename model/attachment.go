package model

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"mime"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes is the largest image accepted as an attachment (5 MiB)
const MaxImageBytes int64 = 5 * 1024 * 1024

var (
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

func init() {
	// Not present in every system MIME table
	_ = mime.AddExtensionType(".bmp", "image/bmp")
	_ = mime.AddExtensionType(".webp", "image/webp")
}

// Attachment is an image the user picked, ready to travel with a submission
type Attachment struct {
	Path      string
	Name      string
	MediaType string
	Size      int64
	Data      []byte
	Width     int
	Height    int
}

// ValidationError is a user-facing rejection of a selected file
type ValidationError struct {
	Title       string
	Description string
	Err         error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Description)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Notification converts the rejection into a destructive notification
func (e *ValidationError) Notification() Notification {
	return Notification{
		Title:       e.Title,
		Description: e.Description,
		Variant:     VariantDestructive,
	}
}

// MediaTypeFor returns the declared media type of a file name, without parameters.
// Unknown extensions yield "application/octet-stream".
func MediaTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	mediaType := mime.TypeByExtension(ext)
	if mediaType == "" {
		return "application/octet-stream"
	}
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	return mediaType
}

// ValidateAttachment applies the selection rules: the declared type must be an
// image and the size must not exceed MaxImageBytes.
func ValidateAttachment(mediaType string, size int64) error {
	if !strings.HasPrefix(mediaType, "image/") {
		return &ValidationError{
			Title:       "Invalid file type",
			Description: "Please select an image file",
			Err:         ErrNotImage,
		}
	}
	if size > MaxImageBytes {
		return &ValidationError{
			Title:       "File too large",
			Description: "Image size should be less than 5MB",
			Err:         ErrImageTooLarge,
		}
	}
	return nil
}

// LoadAttachment validates the file at path and reads it into memory.
// Validation errors are *ValidationError; I/O failures are returned wrapped.
func LoadAttachment(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &ValidationError{
			Title:       "Invalid file type",
			Description: "Please select an image file",
			Err:         ErrNotImage,
		}
	}

	name := filepath.Base(path)
	mediaType := MediaTypeFor(name)
	if err := ValidateAttachment(mediaType, info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	att := &Attachment{
		Path:      path,
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Data:      data,
	}

	// Formats without a registered decoder (svg, heic, ...) keep zero dimensions
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		att.Width = cfg.Width
		att.Height = cfg.Height
	}

	return att, nil
}

// ImageRef builds the conversation-side reference for this attachment
func (a *Attachment) ImageRef(handle PreviewHandle) *ImageRef {
	return &ImageRef{
		Handle:    handle,
		Name:      a.Name,
		MediaType: a.MediaType,
		Size:      a.Size,
		Width:     a.Width,
		Height:    a.Height,
	}
}
