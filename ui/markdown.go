package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

var (
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	inlineCodeRegex = regexp.MustCompile(`\x1b\[44;3m(.*?)\x1b\[0m`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// renderMarkdown renders assistant text for the terminal at the given width.
// The output depends only on its inputs.
func renderMarkdown(content string, width int) string {
	if width < 10 {
		width = 10
	}

	// Strip markdown link syntax [text](url) -> url so terminals can detect it
	content = preprocessLinks(content)

	// Autolink stays off so plain URLs are left to the terminal
	customExt := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(customExt)
	r := markdown.NewRenderer(width, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = fixInlineCode(rendered)
	return strings.TrimRight(rendered, "\n")
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text), readable on the bubble background
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

// stripANSI removes ANSI escape codes for accurate length calculation
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
