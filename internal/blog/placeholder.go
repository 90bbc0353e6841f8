package blog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	bareImageToken      = "[IMAGE]"
	describedImageOpen  = "[GENERATE_IMAGE: "
	describedImageClose = "]"

	defaultImageAlt     = "Blog image"
	genericImageSubject = "a relevant image for this topic"
)

// Descriptions may hold one level of balanced brackets, e.g. "a [red] ball".
var placeholderRe = regexp.MustCompile(`\[IMAGE\]|\[GENERATE_IMAGE:((?:[^\[\]\n]|\[[^\[\]\n]*\])*)\]`)

// Placeholder is one image token found in generated text. Start and End are
// byte offsets into the text it was found in; they give each occurrence its
// own identity even when the raw text repeats.
type Placeholder struct {
	Raw         string
	Description string
	Start       int
	End         int
}

// Alt returns the alt text used for the resolved image.
func (p Placeholder) Alt() string {
	if p.Description == "" {
		return defaultImageAlt
	}
	return p.Description
}

// FindPlaceholders returns every non-overlapping image token in body, in
// order of appearance.
func FindPlaceholders(body string) []Placeholder {
	matches := placeholderRe.FindAllStringSubmatchIndex(body, -1)
	placeholders := make([]Placeholder, 0, len(matches))

	for _, m := range matches {
		ph := Placeholder{
			Raw:   body[m[0]:m[1]],
			Start: m[0],
			End:   m[1],
		}
		if m[2] >= 0 {
			ph.Description = strings.TrimSpace(body[m[2]:m[3]])
		}
		placeholders = append(placeholders, ph)
	}

	return placeholders
}

// ImagePrompt derives the image-generation prompt for a placeholder.
func ImagePrompt(topic, tones, description string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate an image for a blog post about %q", topic)
	if tones != "" {
		fmt.Fprintf(&sb, " written in a %s tone", tones)
	}

	subject := description
	if subject == "" {
		subject = genericImageSubject
	}
	fmt.Fprintf(&sb, ": %s.", subject)

	return sb.String()
}

// imageMarkdown renders a resolved placeholder as a markdown image reference.
func imageMarkdown(alt, url string) string {
	return fmt.Sprintf("![%s](%s)", alt, url)
}

// failureMarker replaces a placeholder whose image could not be generated.
func failureMarker(alt string) string {
	return fmt.Sprintf("*Image generation failed: %s*", alt)
}

// StripPlaceholders removes image tokens without resolving them.
func StripPlaceholders(body string) string {
	return placeholderRe.ReplaceAllLiteralString(body, "")
}
