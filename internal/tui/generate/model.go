// Package generate is the terminal UI for generating a single blog post.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alkime/writeablog/internal/blog"
	"github.com/alkime/writeablog/internal/render"
	"github.com/alkime/writeablog/internal/tui/components/labeledspinner"
	"github.com/alkime/writeablog/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCanceled is reported when the user quits before the post is saved.
var ErrCanceled = errors.New("generation canceled")

// Generator produces blog posts. *blog.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, req blog.Request) (blog.Result, error)
}

// Config describes the post to generate and where to save it.
type Config struct {
	Request    blog.Request
	OutputPath string
	HTML       bool
}

type state int

const (
	stateConfirm state = iota
	stateGenerating
	stateDone
	stateFailed
)

type generatedMsg struct {
	result blog.Result
}

type failedMsg struct {
	err error
}

// Model runs one generation behind a spinner and saves the result.
type Model struct {
	gen     Generator
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
	spinner labeledspinner.Model
	keys    keyMap
	now     func() time.Time

	state   state
	started time.Time
	kept    bool
	result  blog.Result
	err     error

	// existing is the front matter of the post already at OutputPath.
	existing render.FrontMatter
}

// New creates the generate model. When cfg.OutputPath already exists the
// user is asked before it is overwritten.
func New(ctx context.Context, gen Generator, cfg Config) *Model {
	ctx, cancel := context.WithCancel(ctx)

	keys := defaultKeyMap()
	m := &Model{
		gen:    gen,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		spinner: labeledspinner.New(
			spinner.Pulse,
			"Writing your post...",
			describeRequest(cfg.Request),
			renderKeyHelp(keys.ForceQuit),
		),
		keys:  keys,
		now:   time.Now,
		state: stateGenerating,
	}

	if doc, err := os.ReadFile(cfg.OutputPath); err == nil {
		m.state = stateConfirm
		// HTML exports and hand-written files have no front matter; show the path only.
		if fm, _, err := render.SplitFrontMatter(string(doc)); err == nil {
			m.existing = fm
		} else {
			slog.Debug("Existing post has unreadable front matter", "path", cfg.OutputPath, "error", err)
		}
	}

	return m
}

func describeRequest(req blog.Request) string {
	parts := []string{fmt.Sprintf("Topic: %s", req.Topic)}
	parts = append(parts, fmt.Sprintf("%d words, %s", req.WordCount, req.ToneList()))

	var extras []string
	if req.IncludeResearch {
		extras = append(extras, "research")
	}
	if req.IncludeImages {
		extras = append(extras, "images")
	}
	if len(extras) > 0 {
		parts = append(parts, "with "+strings.Join(extras, " and "))
	}

	return strings.Join(parts, " · ")
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.state == stateConfirm {
		return nil
	}

	return m.start()
}

func (m *Model) start() tea.Cmd {
	m.state = stateGenerating
	m.started = m.now()

	return tea.Batch(m.spinner.Init(), m.generateCmd())
}

// Update implements tea.Model.
func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case generatedMsg:
		m.result = msg.result
		if err := SavePost(m.cfg.OutputPath, m.cfg.Request, msg.result, m.cfg.HTML, m.now()); err != nil {
			m.state = stateFailed
			m.err = err
			return m, tea.Quit
		}
		m.state = stateDone
		slog.Debug("Post saved", "path", m.cfg.OutputPath, "duration", m.now().Sub(m.started))
		return m, tea.Quit

	case failedMsg:
		m.state = stateFailed
		m.err = msg.err
		return m, tea.Quit
	}

	if m.state == stateGenerating {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(teaMsg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quitCanceled()
	}

	switch m.state {
	case stateConfirm:
		switch {
		case key.Matches(msg, m.keys.Overwrite):
			return m, m.start()
		case key.Matches(msg, m.keys.Keep):
			m.kept = true
			m.state = stateDone
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			return m.quitCanceled()
		}
	case stateGenerating:
		if key.Matches(msg, m.keys.Quit) {
			return m.quitCanceled()
		}
	case stateDone, stateFailed:
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) quitCanceled() (tea.Model, tea.Cmd) {
	m.cancel()
	if m.state != stateDone {
		m.state = stateFailed
		m.err = ErrCanceled
	}
	return m, tea.Quit
}

func (m *Model) generateCmd() tea.Cmd {
	ctx, gen, req := m.ctx, m.gen, m.cfg.Request

	return func() tea.Msg {
		res, err := gen.Generate(ctx, req)
		if err != nil {
			return failedMsg{err: err}
		}
		return generatedMsg{result: res}
	}
}

// Err returns the reason the run did not produce a post, or nil.
func (m *Model) Err() error {
	return m.err
}

// Result returns the generated post, if any.
func (m *Model) Result() blog.Result {
	return m.result
}

// Kept reports whether the user chose to keep an existing file.
func (m *Model) Kept() bool {
	return m.kept
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.state {
	case stateConfirm:
		return m.confirmView()
	case stateDone:
		return m.doneView()
	case stateFailed:
		return style.Error.Render("✗ "+m.err.Error()) + "\n"
	default:
		return m.spinner.ViewElapsed(m.started, m.now())
	}
}

func (m *Model) confirmView() string {
	var sb strings.Builder

	sb.WriteString(style.Warning.Render("! A post already exists at this path"))
	sb.WriteString("\n\n")
	sb.WriteString(style.Label.Render("File: "))
	sb.WriteString(style.Muted.Render(m.cfg.OutputPath))
	sb.WriteString("\n")

	if m.existing.Title != "" {
		sb.WriteString(style.Label.Render("Title: "))
		sb.WriteString(m.existing.Title)
		if m.existing.Date != "" {
			sb.WriteString(style.Muted.Render(" (" + m.existing.Date + ")"))
		}
		sb.WriteString("\n")
	}
	if len(m.existing.Tags) > 0 {
		sb.WriteString(style.Label.Render("Tags: "))
		sb.WriteString(renderTags(m.existing.Tags))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(renderKeyHelp(m.keys.Overwrite, " "))
	sb.WriteString(renderKeyHelp(m.keys.Keep, " "))
	sb.WriteString(renderKeyHelp(m.keys.Quit, "\n"))

	return sb.String()
}

func (m *Model) doneView() string {
	var sb strings.Builder

	if m.kept {
		sb.WriteString(style.Success.Render("✓ Kept existing post"))
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render(m.cfg.OutputPath))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(style.Success.Render("✓ Post saved"))
	sb.WriteString("\n\n")
	sb.WriteString(style.Label.Render("Saved: "))
	sb.WriteString(style.Muted.Render(m.cfg.OutputPath))
	sb.WriteString("\n")

	if len(m.result.Tags) > 0 {
		sb.WriteString(style.Label.Render("Tags: "))
		sb.WriteString(renderTags(m.result.Tags))
		sb.WriteString("\n")
	}

	if m.result.Images > 0 || m.result.FailedImages > 0 {
		sb.WriteString(style.Label.Render("Images: "))
		fmt.Fprintf(&sb, "%d generated", m.result.Images-m.result.FailedImages)
		if m.result.FailedImages > 0 {
			sb.WriteString(style.Warning.Render(fmt.Sprintf(", %d failed", m.result.FailedImages)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderTags(tags []string) string {
	rendered := make([]string, 0, len(tags))
	for _, tag := range tags {
		rendered = append(rendered, style.Tag.Render(tag))
	}
	return strings.Join(rendered, ", ")
}
