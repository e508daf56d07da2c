package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillvault/skillvault/internal/model"
	"github.com/skillvault/skillvault/internal/plan"
)

// PlanAction represents the action to perform after plan review.
type PlanAction int

const (
	// PlanActionNone means the user quit without applying.
	PlanActionNone PlanAction = iota
	// PlanActionApply means the user confirmed the (possibly narrowed) plan.
	PlanActionApply
)

// PlanListResult contains the result of the plan review interaction.
type PlanListResult struct {
	Action  PlanAction
	Install []model.Record
	Remove  []model.Record
}

// planItem is one toggleable row in the review list.
type planItem struct {
	record   model.Record
	isRemove bool
	selected bool
}

// planListKeyMap defines the key bindings for the plan review list.
type planListKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Confirm   key.Binding
	Quit      key.Binding
}

func defaultPlanListKeyMap() planListKeyMap {
	return planListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "tab"),
			key.WithHelp("space", "toggle"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle all"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter", "apply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// PlanListModel is the BubbleTea model for reviewing a sync plan before it
// is applied. Every candidate starts selected; deselected entries are
// dropped from the applied plan.
type PlanListModel struct {
	mode     plan.Mode
	items    []planItem
	cursor   int
	keys     planListKeyMap
	result   PlanListResult
	quitting bool
}

// NewPlanListModel creates a review list for the given plan.
func NewPlanListModel(p plan.Plan) PlanListModel {
	items := make([]planItem, 0, len(p.InstallCandidates)+len(p.RemoveCandidates))
	for _, r := range p.InstallCandidates {
		items = append(items, planItem{record: r, selected: true})
	}
	for _, r := range p.RemoveCandidates {
		items = append(items, planItem{record: r, isRemove: true, selected: true})
	}

	return PlanListModel{
		mode:  p.Mode,
		items: items,
		keys:  defaultPlanListKeyMap(),
	}
}

// Init implements tea.Model.
func (m PlanListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PlanListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.result = PlanListResult{Action: PlanActionNone}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.items) > 0 {
			m.items[m.cursor].selected = !m.items[m.cursor].selected
		}

	case key.Matches(keyMsg, m.keys.ToggleAll):
		all := true
		for _, it := range m.items {
			if !it.selected {
				all = false
				break
			}
		}
		for i := range m.items {
			m.items[i].selected = !all
		}

	case key.Matches(keyMsg, m.keys.Confirm):
		m.result = m.buildResult()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m PlanListModel) buildResult() PlanListResult {
	result := PlanListResult{Action: PlanActionApply}
	for _, it := range m.items {
		if !it.selected {
			continue
		}
		if it.isRemove {
			result.Remove = append(result.Remove, it.record)
		} else {
			result.Install = append(result.Install, it.record)
		}
	}
	return result
}

// View implements tea.Model.
func (m PlanListModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Styles.Title.Render(fmt.Sprintf("Review %s plan", m.mode)))
	sb.WriteString("\n\n")

	if len(m.items) == 0 {
		sb.WriteString(Styles.Normal.Render("Nothing to change."))
		sb.WriteString("\n")
	}

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		checkbox := "[ ]"
		if it.selected {
			checkbox = "[x]"
		}

		marker := Styles.Install.Render("+")
		if it.isRemove {
			marker = Styles.Remove.Render("-")
		}

		line := fmt.Sprintf("%s%s %s %s", cursor, checkbox, marker, it.record)
		if i == m.cursor {
			line = Styles.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(Styles.Help.Render("space toggle · a toggle all · enter apply · q cancel"))
	sb.WriteString("\n")
	return sb.String()
}

// Result returns the outcome after the program finishes.
func (m PlanListModel) Result() PlanListResult {
	return m.result
}
