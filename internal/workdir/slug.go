package workdir

import (
	"regexp"
	"strings"
)

var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphens  = regexp.MustCompile(`-+`)
)

const maxSlugLength = 80

// GenerateSlug converts a topic to a URL-friendly slug.
// Example: "Composting at Home: A Guide" -> "composting-at-home-a-guide"
func GenerateSlug(title string) string {
	// Convert to lowercase
	slug := strings.ToLower(title)

	// Replace whitespace runs with hyphens
	slug = strings.Join(strings.Fields(slug), "-")

	// Remove special characters (keep alphanumeric and hyphens)
	slug = invalidSlugChars.ReplaceAllString(slug, "")

	// Collapse multiple hyphens to single hyphen
	slug = repeatedHyphens.ReplaceAllString(slug, "-")

	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}

	// Trim hyphens from start and end
	return strings.Trim(slug, "-")
}
