package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alkime/writeablog/internal/blog"
	"github.com/alkime/writeablog/internal/render"
)

// SavePost writes res to path as markdown with front matter, or as a
// standalone HTML page when asHTML is set.
func SavePost(path string, req blog.Request, res blog.Result, asHTML bool, now time.Time) error {
	var (
		doc string
		err error
	)
	if asHTML {
		doc, err = render.Document(req.Topic, res.Body, res.Tags)
	} else {
		doc, err = render.Markdown(req.Topic, res.Body, res.Tags, now)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	//nolint:gosec // Posts need to be readable
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to save post to %s: %w", path, err)
	}

	return nil
}
