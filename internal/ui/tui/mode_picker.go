package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skillvault/skillvault/internal/plan"
)

// modePickerKeyMap defines the key bindings for the mode picker.
type modePickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultModePickerKeyMap() modePickerKeyMap {
	return modePickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// ModePickerModel is the BubbleTea model for choosing a sync strategy.
type ModePickerModel struct {
	modes    []plan.Mode
	cursor   int
	keys     modePickerKeyMap
	selected plan.Mode
	chosen   bool
	quitting bool
	titler   cases.Caser
}

// NewModePickerModel creates a picker preselecting the given mode.
func NewModePickerModel(current plan.Mode) ModePickerModel {
	modes := plan.AllModes()
	cursor := 0
	for i, m := range modes {
		if m == current {
			cursor = i
			break
		}
	}

	return ModePickerModel{
		modes:  modes,
		cursor: cursor,
		keys:   defaultModePickerKeyMap(),
		titler: cases.Title(language.English),
	}
}

// Init implements tea.Model.
func (m ModePickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ModePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Confirm):
		m.selected = m.modes[m.cursor]
		m.chosen = true
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m ModePickerModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Styles.Title.Render("Choose sync strategy"))
	sb.WriteString("\n\n")

	for i, mode := range m.modes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s — %s", cursor, m.titler.String(string(mode)), mode.Description())
		if i == m.cursor {
			line = Styles.Selected.Render(line)
		} else {
			line = Styles.Normal.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(Styles.Help.Render("↑/↓ move · enter select · q cancel"))
	sb.WriteString("\n")
	return sb.String()
}

// Selection returns the chosen mode and whether a choice was made.
func (m ModePickerModel) Selection() (plan.Mode, bool) {
	return m.selected, m.chosen
}
