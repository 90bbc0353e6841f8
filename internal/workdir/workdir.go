// Package workdir provides utilities for managing where the CLI writes generated posts.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Root returns the base directory for all CLI output files.
// The path is expanded at runtime to resolve to:
//
//	$HOME/Documents/WriteABlog
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "WriteABlog"), nil
}

// PostsDir returns the default directory for generated posts.
func PostsDir() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "posts"), nil
}

// PostPath returns the file path for a post about topic inside dir. The file
// name is the topic slug, falling back to a timestamp when the topic has no
// usable characters.
func PostPath(dir, topic, ext string) string {
	name := GenerateSlug(topic)
	if name == "" {
		name = "post-" + time.Now().Format("20060102-150405")
	}
	return filepath.Join(dir, name+ext)
}

// Prep ensures that dir exists.
func Prep(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	return nil
}
