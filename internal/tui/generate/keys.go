package generate

import (
	"strings"

	"github.com/alkime/writeablog/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Overwrite key.Binding
	Keep      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Overwrite: key.NewBinding(
			key.WithKeys("o", "r"),
			key.WithHelp("o", "overwrite"),
		),
		Keep: key.NewBinding(
			key.WithKeys("enter", "k"),
			key.WithHelp("enter/k", "keep existing"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	return s + strings.Join(suffix, "")
}
