package blog

import (
	"regexp"
	"strings"

	"github.com/alkime/writeablog/pkg/collections"
)

var tagLineRe = regexp.MustCompile(`^[ \t]*` + regexp.QuoteMeta(TagPrefix) + `(.*)$`)

// ExtractTags splits the tag line off generated text.
//
// If the model emits more than one tag line, the last one supplies the tags
// and every tag line is removed from the body. A blank line directly after a
// removed tag line is removed with it. Text without a tag line is returned
// unchanged with an empty tag list.
func ExtractTags(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	var (
		payload   string
		found     bool
		skipBlank bool
	)

	for _, line := range lines {
		if m := tagLineRe.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			payload = m[1]
			found = true
			skipBlank = true
			continue
		}

		if skipBlank && strings.TrimSpace(line) == "" {
			skipBlank = false
			continue
		}
		skipBlank = false

		kept = append(kept, line)
	}

	if !found {
		return text, []string{}
	}

	body := strings.TrimRight(strings.Join(kept, "\n"), " \t\r\n")

	return body, parseTags(payload)
}

func parseTags(payload string) []string {
	tags := collections.Apply(strings.Split(payload, ","), strings.TrimSpace)
	tags = collections.Filter(tags, func(t string) bool { return t != "" })

	return collections.Take(tags, MaxTags)
}
