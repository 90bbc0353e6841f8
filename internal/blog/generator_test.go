package blog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alkime/writeablog/internal/blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeText implements blog.TextGenerator for testing.
type fakeText struct {
	result string
	err    error
	delay  time.Duration
	called bool
	system string
	prompt string
}

func (f *fakeText) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.called = true
	f.system = system
	f.prompt = prompt

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.result, f.err
}

// fakeImages implements blog.ImageGenerator for testing.
type fakeImages struct {
	countingResolver
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return f.resolve(ctx, prompt)
}

func quietOptions() blog.Options {
	return blog.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestGenerator_Generate(t *testing.T) {
	text := &fakeText{result: "# Bees\n\nIntro.\n\n[GENERATE_IMAGE: a hive]\n\nMore.\nTAGS: bees, honey"}
	images := &fakeImages{}
	gen := blog.NewGenerator(text, images, quietOptions())

	req := validRequest()
	req.Topic = "  Bees "
	req.Tones = []string{"casual", "casual", "humorous"}
	req.IncludeImages = true

	res, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "# Bees\n\nIntro.\n\n![a hive](http://x/1.png)\n\nMore.", res.Body)
	assert.Equal(t, []string{"bees", "honey"}, res.Tags)
	assert.Equal(t, blog.SystemPrompt, text.system)
	assert.Contains(t, text.prompt, `"Bees"`)
	assert.Contains(t, text.prompt, "casual, humorous tone")
	require.Len(t, images.prompts, 1)
	assert.Contains(t, images.prompts[0], "a hive")
}

func TestGenerator_InvalidRequestSkipsNetwork(t *testing.T) {
	text := &fakeText{result: "unused"}
	gen := blog.NewGenerator(text, nil, quietOptions())

	_, err := gen.Generate(context.Background(), blog.Request{Topic: " ", Tones: []string{"casual"}, WordCount: 500})

	require.ErrorIs(t, err, blog.ErrInvalidRequest)
	assert.False(t, text.called)
}

func TestGenerator_UpstreamFailures(t *testing.T) {
	t.Run("text generator error", func(t *testing.T) {
		cause := errors.New("429 rate limited")
		gen := blog.NewGenerator(&fakeText{err: cause}, nil, quietOptions())

		_, err := gen.Generate(context.Background(), validRequest())

		require.ErrorIs(t, err, blog.ErrUpstreamUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("blank text", func(t *testing.T) {
		gen := blog.NewGenerator(&fakeText{result: " \n "}, nil, quietOptions())

		_, err := gen.Generate(context.Background(), validRequest())

		require.ErrorIs(t, err, blog.ErrUpstreamUnavailable)
		assert.Contains(t, err.Error(), "empty response")
	})

	t.Run("no text generator", func(t *testing.T) {
		gen := blog.NewGenerator(nil, nil, quietOptions())

		_, err := gen.Generate(context.Background(), validRequest())

		require.ErrorIs(t, err, blog.ErrUpstreamUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		opts := quietOptions()
		opts.Timeout = 20 * time.Millisecond
		gen := blog.NewGenerator(&fakeText{result: "late", delay: time.Second}, nil, opts)

		_, err := gen.Generate(context.Background(), validRequest())

		require.ErrorIs(t, err, blog.ErrUpstreamUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestGenerator_ImagesNotRequested(t *testing.T) {
	images := &fakeImages{}
	text := &fakeText{result: "Intro [IMAGE] text.\nTAGS: a"}
	gen := blog.NewGenerator(text, images, quietOptions())

	res, err := gen.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Intro  text.", res.Body)
	assert.Equal(t, []string{"a"}, res.Tags)
	assert.Zero(t, images.calls)
}

func TestGenerator_ImageFailureDoesNotFailGeneration(t *testing.T) {
	images := &fakeImages{countingResolver{failOn: map[int]bool{1: true}}}
	gen := blog.NewGenerator(&fakeText{result: "[IMAGE]\n\nBody"}, images, quietOptions())

	req := validRequest()
	req.IncludeImages = true

	res, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "*Image generation failed: Blog image*\n\nBody", res.Body)
	assert.Equal(t, 1, res.FailedImages)
}

func TestGenerator_HeaderImage(t *testing.T) {
	req := validRequest()
	req.IncludeImages = true

	t.Run("prepended when no placeholders", func(t *testing.T) {
		images := &fakeImages{}
		opts := quietOptions()
		opts.HeaderImage = true
		gen := blog.NewGenerator(&fakeText{result: "Body\nTAGS: x"}, images, opts)

		res, err := gen.Generate(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "![Blog header image](http://x/1.png)\n\nBody", res.Body)
		require.Len(t, images.prompts, 1)
		assert.Contains(t, images.prompts[0], "a relevant image for this topic")
	})

	t.Run("skipped when placeholders exist", func(t *testing.T) {
		images := &fakeImages{}
		opts := quietOptions()
		opts.HeaderImage = true
		gen := blog.NewGenerator(&fakeText{result: "[IMAGE] Body"}, images, opts)

		res, err := gen.Generate(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "![Blog image](http://x/1.png) Body", res.Body)
		assert.Equal(t, 1, images.calls)
	})

	t.Run("failure leaves body untouched", func(t *testing.T) {
		images := &fakeImages{countingResolver{failOn: map[int]bool{1: true}}}
		opts := quietOptions()
		opts.HeaderImage = true
		gen := blog.NewGenerator(&fakeText{result: "Body"}, images, opts)

		res, err := gen.Generate(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "Body", res.Body)
	})
}
