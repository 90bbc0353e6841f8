// Package blog builds blog post prompts, calls the text and image
// generators, and turns the model output into a finished markdown post.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a whole generation, image calls included.
	DefaultTimeout = 2 * time.Minute
	// DefaultImageConcurrency bounds in-flight image calls per generation.
	DefaultImageConcurrency = 3

	headerImageAlt = "Blog header image"
)

// TextGenerator is a chat-completion backend.
type TextGenerator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ImageGenerator is an image-generation backend returning image URLs.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Options tune a Generator. Zero values pick the defaults.
type Options struct {
	Timeout          time.Duration
	ImageConcurrency int
	// HeaderImage prepends a topic image when images were requested but
	// the model placed no placeholders.
	HeaderImage bool
	Logger      *slog.Logger
}

// Generator composes prompt building, text generation and post-processing.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	text    TextGenerator
	images  ImageGenerator
	timeout time.Duration
	workers int
	header  bool
	logger  *slog.Logger
}

// NewGenerator creates a Generator. images may be nil, in which case any
// placeholders in the output become failure markers.
func NewGenerator(text TextGenerator, images ImageGenerator, opts Options) *Generator {
	g := &Generator{
		text:    text,
		images:  images,
		timeout: opts.Timeout,
		workers: opts.ImageConcurrency,
		header:  opts.HeaderImage,
		logger:  opts.Logger,
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.workers < 1 {
		g.workers = DefaultImageConcurrency
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Generate produces a blog post for req. Validation failures return
// ErrInvalidRequest without any network call; text generation failures
// return ErrUpstreamUnavailable. Image failures never fail the call.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if g.text == nil {
		return Result{}, fmt.Errorf("%w: no text generator configured", ErrUpstreamUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	g.logger.Debug("Generating blog post",
		"topic", req.Topic,
		"tones", req.Tones,
		"word_count", req.WordCount,
		"research", req.IncludeResearch,
		"images", req.IncludeImages,
	)

	raw, err := g.text.Complete(ctx, SystemPrompt, BuildPrompt(req))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return Result{}, fmt.Errorf("%w: %w: %w", ErrUpstreamUnavailable, ctxErr, err)
		}
		return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if strings.TrimSpace(raw) == "" {
		return Result{}, fmt.Errorf("%w: empty response from text generator", ErrUpstreamUnavailable)
	}

	res := g.postProcess(ctx, req, raw)

	g.logger.Info("Blog post generated",
		"topic", req.Topic,
		"tags", len(res.Tags),
		"images", res.Images,
		"failed_images", res.FailedImages,
		"duration", time.Since(start),
	)

	return res, nil
}

func (g *Generator) postProcess(ctx context.Context, req Request, raw string) Result {
	tones := req.ToneList()

	// Images were not asked for; drop any stray tokens instead of paying for them.
	if !req.IncludeImages {
		body, tags := ExtractTags(raw)
		return Result{Body: StripPlaceholders(body), Tags: tags}
	}

	var resolve ImageResolver
	if g.images != nil {
		resolve = g.images.GenerateImage
	}

	pp := PostProcessor{
		Resolve:     resolve,
		Concurrency: g.workers,
		Logger:      g.logger,
	}
	res := pp.Process(ctx, raw, req.Topic, tones)

	if g.header && res.Images == 0 && resolve != nil {
		res.Body = g.withHeaderImage(ctx, req.Topic, tones, resolve, res.Body)
	}

	return res
}

func (g *Generator) withHeaderImage(
	ctx context.Context,
	topic, tones string,
	resolve ImageResolver,
	body string,
) string {
	url, err := resolve(ctx, ImagePrompt(topic, tones, ""))
	if err != nil || strings.TrimSpace(url) == "" {
		g.logger.Warn("Header image skipped", "topic", topic, "error", err)
		return body
	}

	return imageMarkdown(headerImageAlt, url) + "\n\n" + body
}
