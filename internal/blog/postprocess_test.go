package blog_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alkime/writeablog/internal/blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver hands out numbered URLs and fails the calls listed in failOn (1-based).
type countingResolver struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	failOn  map[int]bool
}

func (r *countingResolver) resolve(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	r.prompts = append(r.prompts, prompt)
	if r.failOn[r.calls] {
		return "", errors.New("content policy violation")
	}
	return fmt.Sprintf("http://x/%d.png", r.calls), nil
}

func TestFindPlaceholders(t *testing.T) {
	body := "a [IMAGE] b [GENERATE_IMAGE:  a red barn ] c [GENERATE_IMAGE: a red barn] [GENERATE_IMAGE:] [IMAGE"

	phs := blog.FindPlaceholders(body)

	require.Len(t, phs, 4)
	assert.Equal(t, "[IMAGE]", phs[0].Raw)
	assert.Empty(t, phs[0].Description)
	assert.Equal(t, "a red barn", phs[1].Description)
	assert.Equal(t, "a red barn", phs[2].Description)
	assert.Empty(t, phs[3].Description)
	assert.Equal(t, "Blog image", phs[3].Alt())

	for _, ph := range phs {
		assert.Equal(t, ph.Raw, body[ph.Start:ph.End])
	}
	assert.Less(t, phs[1].End, phs[2].Start, "identical tokens keep distinct offsets")
}

func TestFindPlaceholders_NestedBrackets(t *testing.T) {
	body := "x [GENERATE_IMAGE: a [red] ball] y [GENERATE_IMAGE: a [broken ball] z"

	phs := blog.FindPlaceholders(body)

	require.Len(t, phs, 1)
	assert.Equal(t, "[GENERATE_IMAGE: a [red] ball]", phs[0].Raw)
	assert.Equal(t, "a [red] ball", phs[0].Description)
}

func TestPostProcess_NestedBracketsRenderWholeImage(t *testing.T) {
	r := &countingResolver{}

	res := blog.PostProcess(context.Background(), "Intro\n[GENERATE_IMAGE: a [red] ball]\nEnd", "Toys", "", r.resolve)

	assert.Equal(t, "Intro\n![a [red] ball](http://x/1.png)\nEnd", res.Body)
	assert.Equal(t, 1, res.Images)
	assert.Contains(t, r.prompts[0], ": a [red] ball.")
}

func TestImagePrompt(t *testing.T) {
	assert.Equal(t,
		`Generate an image for a blog post about "Bees" written in a casual, humorous tone: a hive at dawn.`,
		blog.ImagePrompt("Bees", "casual, humorous", "a hive at dawn"),
	)
	assert.Equal(t,
		`Generate an image for a blog post about "Bees": a relevant image for this topic.`,
		blog.ImagePrompt("Bees", "", ""),
	)
}

func TestPostProcess_BareImage(t *testing.T) {
	resolve := func(context.Context, string) (string, error) { return "http://x/1.png", nil }

	res := blog.PostProcess(context.Background(), "intro [IMAGE] outro", "Bees", "casual", resolve)

	assert.Equal(t, "intro ![Blog image](http://x/1.png) outro", res.Body)
	assert.Equal(t, 1, strings.Count(res.Body, "](http://x/1.png)"))
	assert.NotContains(t, res.Body, "[IMAGE]")
	assert.Empty(t, res.Tags)
	assert.Equal(t, 1, res.Images)
	assert.Zero(t, res.FailedImages)
}

func TestPostProcess_SecondDuplicateFails(t *testing.T) {
	r := &countingResolver{failOn: map[int]bool{2: true}}
	raw := "start [GENERATE_IMAGE: cats] middle [GENERATE_IMAGE: cats] end\nTAGS: pets, cats"

	res := blog.PostProcess(context.Background(), raw, "Cats", "friendly", r.resolve)

	assert.Equal(t,
		"start ![cats](http://x/1.png) middle *Image generation failed: cats* end",
		res.Body,
	)
	assert.Equal(t, []string{"pets", "cats"}, res.Tags)
	assert.Equal(t, 2, res.Images)
	assert.Equal(t, 1, res.FailedImages)
	require.Len(t, r.prompts, 2)
	assert.Contains(t, r.prompts[0], "cats")
	assert.Contains(t, r.prompts[0], "friendly")
}

func TestPostProcess_TagsExtractedBeforePlaceholders(t *testing.T) {
	r := &countingResolver{}

	res := blog.PostProcess(context.Background(), "body\nTAGS: [IMAGE], b", "T", "", r.resolve)

	assert.Equal(t, "body", res.Body)
	assert.Equal(t, []string{"[IMAGE]", "b"}, res.Tags)
	assert.Zero(t, r.calls)
}

func TestPostProcess_NilResolver(t *testing.T) {
	res := blog.PostProcess(context.Background(), "[IMAGE]\n\ntext", "T", "", nil)

	assert.Equal(t, "*Image generation failed: Blog image*\n\ntext", res.Body)
	assert.Equal(t, 1, res.FailedImages)
}

func TestPostProcess_EmptyURLIsFailure(t *testing.T) {
	resolve := func(context.Context, string) (string, error) { return "  ", nil }

	res := blog.PostProcess(context.Background(), "[GENERATE_IMAGE: dog]", "T", "", resolve)

	assert.Equal(t, "*Image generation failed: dog*", res.Body)
}

func TestPostProcess_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &countingResolver{}
	res := blog.PostProcess(ctx, "[IMAGE] and [IMAGE]", "T", "", r.resolve)

	assert.Equal(t, "*Image generation failed: Blog image* and *Image generation failed: Blog image*", res.Body)
	assert.Zero(t, r.calls)
}

func TestPostProcessor_ConcurrentKeepsOrder(t *testing.T) {
	const n = 8

	var inFlight, peak atomic.Int32
	resolve := func(_ context.Context, prompt string) (string, error) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}

		// later placeholders finish first
		idx := strings.TrimSuffix(prompt[strings.LastIndex(prompt, "img-")+4:], ".")
		var i int
		_, _ = fmt.Sscanf(idx, "%d", &i)
		time.Sleep(time.Duration(n-i) * 5 * time.Millisecond)

		if i%3 == 0 {
			return "", errors.New("boom")
		}
		return "http://x/" + idx + ".png", nil
	}

	var raw, want strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&raw, "p%d [GENERATE_IMAGE: img-%d]\n", i, i)
		if i%3 == 0 {
			fmt.Fprintf(&want, "p%d *Image generation failed: img-%d*\n", i, i)
		} else {
			fmt.Fprintf(&want, "p%d ![img-%d](http://x/%d.png)\n", i, i, i)
		}
	}

	pp := blog.PostProcessor{Resolve: resolve, Concurrency: 3}
	res := pp.Process(context.Background(), raw.String(), "T", "")

	assert.Equal(t, want.String(), res.Body)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, n, res.Images)
	assert.Equal(t, 3, res.FailedImages) // 0, 3, 6
}
