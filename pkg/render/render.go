// Package render turns tracking results into something readable in a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/net/html"
)

// PreviewLength is the number of characters of markup shown in previews.
const PreviewLength = 1000

// VisibleText returns the text a reader would see in markup: scripts, styles
// and the document head are dropped, and each block starts a new line.
func VisibleText(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	collectText(doc, &builder)
	return tidyLines(builder.String()), nil
}

// collectText appends the text under n to builder.
func collectText(n *html.Node, builder *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			builder.WriteString(text)
			builder.WriteString(" ")
		}
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isHiddenElement(tag) {
			return
		}
		if isBlockElement(tag) {
			builder.WriteString("\n")
		}
		if tag == "td" || tag == "th" {
			builder.WriteString("\t")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}

// tidyLines trims every line and drops empty ones.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// isHiddenElement returns true for elements whose content is never displayed.
func isHiddenElement(tag string) bool {
	switch tag {
	case "head", "script", "style", "noscript", "template", "svg":
		return true
	}
	return false
}

// isBlockElement returns true for elements that start a new line.
func isBlockElement(tag string) bool {
	blocks := map[string]bool{
		"div": true, "p": true, "section": true, "article": true,
		"header": true, "footer": true, "nav": true, "main": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"ul": true, "ol": true, "li": true, "table": true, "tr": true,
		"form": true, "br": true, "pre": true, "dl": true, "dt": true, "dd": true,
	}
	return blocks[tag]
}

// LooksLikeMarkup reports whether text is an HTML document or fragment.
func LooksLikeMarkup(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(trimmed, "<") {
		return false
	}
	return strings.HasPrefix(trimmed, "<!doctype html") ||
		strings.HasPrefix(trimmed, "<html") ||
		strings.Contains(trimmed, "</")
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Highlight returns the first max runes of markup with terminal colors.
// The plain text is returned when highlighting fails.
func Highlight(markup string, max int) string {
	source := Truncate(markup, max)

	var builder strings.Builder
	if err := quick.Highlight(&builder, source, "html", "terminal256", "monokai"); err != nil {
		return source
	}
	return builder.String()
}
