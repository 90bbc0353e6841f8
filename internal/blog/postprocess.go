package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ImageResolver generates an image for a prompt and returns its URL.
type ImageResolver func(ctx context.Context, prompt string) (string, error)

// Result is the finished blog post. Images counts every placeholder found,
// FailedImages the ones left as failure markers.
type Result struct {
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	Images       int      `json:"images"`
	FailedImages int      `json:"failedImages"`
}

// PostProcessor turns raw model output into a Result.
type PostProcessor struct {
	// Resolve generates images for placeholders. Nil marks every placeholder failed.
	Resolve ImageResolver
	// Concurrency bounds in-flight image calls. Values below 1 resolve sequentially.
	Concurrency int
	Logger      *slog.Logger
}

// PostProcess extracts the tag line from raw and resolves its image
// placeholders one at a time.
func PostProcess(ctx context.Context, raw, topic, tones string, resolve ImageResolver) Result {
	return PostProcessor{Resolve: resolve}.Process(ctx, raw, topic, tones)
}

// Process extracts tags, then resolves each placeholder in the tag-free body.
func (p PostProcessor) Process(ctx context.Context, raw, topic, tones string) Result {
	body, tags := ExtractTags(raw)
	body, images, failed := p.resolvePlaceholders(ctx, body, topic, tones)

	return Result{
		Body:         body,
		Tags:         tags,
		Images:       images,
		FailedImages: failed,
	}
}

type resolution struct {
	text   string
	failed bool
}

func (p PostProcessor) resolvePlaceholders(ctx context.Context, body, topic, tones string) (string, int, int) {
	placeholders := FindPlaceholders(body)
	if len(placeholders) == 0 {
		return body, 0, 0
	}

	limit := max(p.Concurrency, 1)
	results := make([]resolution, len(placeholders))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, ph := range placeholders {
		i, ph := i, ph
		g.Go(func() error {
			results[i] = p.resolveOne(ctx, ph, topic, tones)
			return nil
		})
	}
	_ = g.Wait() // resolveOne never fails; errors become markers

	var (
		sb     strings.Builder
		prev   int
		failed int
	)
	for i, ph := range placeholders {
		sb.WriteString(body[prev:ph.Start])
		sb.WriteString(results[i].text)
		prev = ph.End
		if results[i].failed {
			failed++
		}
	}
	sb.WriteString(body[prev:])

	return sb.String(), len(placeholders), failed
}

func (p PostProcessor) resolveOne(ctx context.Context, ph Placeholder, topic, tones string) resolution {
	url, err := p.generate(ctx, ImagePrompt(topic, tones, ph.Description))
	if err != nil {
		p.logger().Warn("Image placeholder left unresolved",
			"error", &ImageError{Placeholder: ph, Err: err},
			"offset", ph.Start,
		)
		return resolution{text: failureMarker(ph.Alt()), failed: true}
	}

	return resolution{text: imageMarkdown(ph.Alt(), url)}
}

func (p PostProcessor) generate(ctx context.Context, prompt string) (string, error) {
	if p.Resolve == nil {
		return "", ErrNoImageGenerator
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	url, err := p.Resolve(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(url) == "" {
		return "", errors.New("image generator returned no URL")
	}

	return url, nil
}

func (p PostProcessor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
