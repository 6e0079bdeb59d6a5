package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/speedtype/internal/model"
)

type keyMap struct {
	Start     key.Binding
	Stop      key.Binding
	Retry     key.Binding
	NextTier  key.Binding
	PrevTier  key.Binding
	Easy      key.Binding
	Medium    key.Binding
	Hard      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Stop:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop")),
		Retry:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
		NextTier:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next level")),
		PrevTier:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev level")),
		Easy:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "easy")),
		Medium:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "medium")),
		Hard:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "hard")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// apply enables the bindings that match the control flags. Quit on "q" is
// only available while typing is disabled.
func (k *keyMap) apply(c model.Controls, inputEnabled bool) {
	k.Start.SetEnabled(c.Start)
	k.Stop.SetEnabled(c.Stop)
	k.Retry.SetEnabled(c.Retry)
	for _, b := range []*key.Binding{&k.NextTier, &k.PrevTier, &k.Easy, &k.Medium, &k.Hard} {
		b.SetEnabled(c.Tier)
	}
	k.Quit.SetEnabled(!inputEnabled)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Retry, k.NextTier, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Retry},
		{k.NextTier, k.PrevTier, k.Easy, k.Medium, k.Hard},
		{k.Quit},
	}
}
