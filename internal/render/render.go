// Package render is the markup boundary: responder output is
// markdown-flavoured plain text, and everything HTML happens here.
// User-supplied text never reaches a page without passing StripTags.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
)

var md = goldmark.New(
	goldmark.WithRendererOptions(
		// Single newlines inside a reply become <br> so the canned
		// answers keep their line structure.
		html.WithHardWraps(),
	),
)

// Markdown converts a bot reply's text to HTML. The responder only
// emits bold, line breaks, and "- " bullets, so the output stays within
// that constrained markup set.
func Markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering reply markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// StripTags removes any HTML markup from user-supplied text, keeping
// only the text content. Entities are decoded in the process.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return strings.TrimSpace(s)
	}

	tok := xhtml.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tok.Next() {
		case xhtml.ErrorToken:
			return strings.TrimSpace(b.String())
		case xhtml.TextToken:
			b.Write(tok.Text())
		}
	}
}
