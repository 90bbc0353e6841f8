package blog

import (
	"fmt"
	"strings"
)

// SystemPrompt is the fixed system instruction sent with every chat completion.
const SystemPrompt = "You are a professional blog writer skilled in SEO optimization and creating engaging content."

// TagPrefix starts the trailing line that carries the post's tags.
const TagPrefix = "TAGS:"

// MaxTags caps the number of tags requested from the model and kept from its answer.
const MaxTags = 10

// BuildPrompt assembles the user instruction for a request. It performs no
// validation; run Request.Validate first.
func BuildPrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write a %d-word, %s tone, SEO-optimized blog post about \"%s\".\n",
		req.WordCount, req.ToneList(), req.Topic)

	if strings.TrimSpace(req.SeedContent) != "" {
		fmt.Fprintf(&sb, "Include this original content: \"%s\"\n", req.SeedContent)
	}

	if req.IncludeResearch {
		sb.WriteString("Include well-researched information and cite sources.\n")
	}

	if req.IncludeImages {
		fmt.Fprintf(&sb,
			"Include image placeholders where relevant images should be placed. "+
				"Use %s for a generic image related to the topic, or %sshort description%s "+
				"to request a specific image. Put each placeholder on its own line.\n",
			bareImageToken, describedImageOpen, describedImageClose)
	}

	sb.WriteString("Format the response in Markdown.\n")
	sb.WriteString("Ensure proper headings, paragraphs, and formatting for readability.\n")
	fmt.Fprintf(&sb,
		"End the response with a final line that starts with %q followed by up to %d "+
			"comma-separated tags of one or two words each.",
		TagPrefix, MaxTags)

	return sb.String()
}
