package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Up     key.Binding
	Down   key.Binding
	Tab    key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Retry  key.Binding
	New    key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tag")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle tag")),
		Clear:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Tab, k.Toggle, k.Clear, k.Retry, k.New, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Up, k.Down},
		{k.Tab, k.Toggle, k.Clear},
		{k.Retry, k.New, k.Quit},
	}
}

type formKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Switch key.Binding
	Quit   key.Binding
}

func defaultFormKeyMap() formKeyMap {
	return formKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Switch: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
