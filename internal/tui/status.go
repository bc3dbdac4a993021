// Package tui renders the per-case phase-status tables, either once or as
// a live terminal view that polls the persisted status files.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaishnavey/CALVADOS-poly/internal/phase"
)

// RenderCase formats one case's status table.
func RenderCase(cs *phase.CaseStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "case %s  (updated %s)\n", cs.Case, cs.Updated.Format("15:04:05"))
	for _, step := range cs.Steps {
		line := phaseStyle.Render(step.Phase) + statusStyle(step.Status).Render(step.Status)
		if step.Error != "" {
			line += "  " + errStyle.Render(step.Error)
		}
		sb.WriteString(line + "\n")
	}
	return panelStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderAll formats the status tables of every case found under root.
func RenderAll(root string, caseIDs []string) string {
	var parts []string
	for _, id := range caseIDs {
		caseDir := filepath.Join(root, "case_"+id)
		cs, err := phase.ReadStatus(caseDir)
		if err != nil {
			parts = append(parts, panelStyle.Render(fmt.Sprintf("case %s  no status recorded", id)))
			continue
		}
		parts = append(parts, RenderCase(cs))
	}
	return strings.Join(parts, "\n")
}

type tickMsg time.Time

// WatchModel is the bubbletea model behind `status --watch`: it re-reads
// the status files once per second until quit.
type WatchModel struct {
	Root    string
	CaseIDs []string
}

func (m WatchModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m WatchModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("polysim phase status") + "\n")
	sb.WriteString(RenderAll(m.Root, m.CaseIDs))
	sb.WriteString(helpStyle.Render("\nq: quit"))
	return sb.String()
}

// Watch runs the live status view until the user quits.
func Watch(root string, caseIDs []string) error {
	p := tea.NewProgram(WatchModel{Root: root, CaseIDs: caseIDs})
	_, err := p.Run()
	return err
}
