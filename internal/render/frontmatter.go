package render

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// FrontMatter is the metadata block written at the top of saved posts.
type FrontMatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Draft bool     `yaml:"draft"`
	Tags  []string `yaml:"tags,omitempty"`
}

// Markdown prefixes body with YAML front matter. Saved posts are drafts
// until the author publishes them.
func Markdown(title, body string, tags []string, date time.Time) (string, error) {
	meta, err := yaml.Marshal(FrontMatter{
		Title: title,
		Date:  date.Format(time.DateOnly),
		Draft: true,
		Tags:  tags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontMatterDelim + "\n")
	sb.Write(meta)
	sb.WriteString(frontMatterDelim + "\n\n")
	sb.WriteString(strings.TrimRight(body, "\n"))
	sb.WriteString("\n")

	return sb.String(), nil
}

// SplitFrontMatter separates a saved post into its metadata and body.
// Posts without front matter return a zero FrontMatter and the input unchanged.
func SplitFrontMatter(doc string) (FrontMatter, string, error) {
	var fm FrontMatter

	rest, ok := strings.CutPrefix(doc, frontMatterDelim+"\n")
	if !ok {
		return fm, doc, nil
	}

	meta, body, ok := strings.Cut(rest, "\n"+frontMatterDelim+"\n")
	if !ok {
		return fm, doc, nil
	}

	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return FrontMatter{}, doc, fmt.Errorf("failed to parse front matter: %w", err)
	}

	return fm, strings.TrimLeft(body, "\n"), nil
}
