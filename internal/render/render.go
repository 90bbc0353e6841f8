// Package render converts generated markdown into HTML for previews and export.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md is the configured goldmark instance, reused across calls. Raw HTML from
// the model is not passed through.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML converts markdown into an HTML fragment.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Document wraps a rendered post in a standalone HTML page with its tags.
func Document(title, source string, tags []string) (string, error) {
	body, err := ToHTML(source)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	if len(tags) > 0 {
		fmt.Fprintf(&sb, "<meta name=\"keywords\" content=\"%s\">\n", html.EscapeString(strings.Join(tags, ", ")))
	}
	sb.WriteString("</head>\n<body>\n<article>\n")
	sb.WriteString(body)
	sb.WriteString("</article>\n")
	if len(tags) > 0 {
		sb.WriteString("<ul class=\"tags\">\n")
		for _, tag := range tags {
			fmt.Fprintf(&sb, "<li>%s</li>\n", html.EscapeString(tag))
		}
		sb.WriteString("</ul>\n")
	}
	sb.WriteString("</body>\n</html>\n")

	return sb.String(), nil
}
