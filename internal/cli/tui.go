package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reqsmith/reqsmith/pkg/reconcile"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// PackageListModel is the bubbletea model for picking which missing or
// mismatched packages to install. Space toggles, enter confirms, q aborts.
type PackageListModel struct {
	Packages []reconcile.PackageStatus
	Cursor   int
	Checked  map[int]bool
	Height   int
	Offset   int

	// Confirmed is true when the user accepted the selection rather
	// than quitting out.
	Confirmed bool
}

// NewPackageListModel creates a picker preselecting every package.
func NewPackageListModel(packages []reconcile.PackageStatus) PackageListModel {
	checked := make(map[int]bool, len(packages))
	for i := range packages {
		checked[i] = true
	}
	return PackageListModel{
		Packages: packages,
		Checked:  checked,
		Height:   15,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Packages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Packages {
				m.Checked[i] = true
			}
		case "n":
			for i := range m.Packages {
				m.Checked[i] = false
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select packages to install"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ install  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Packages) {
		end = len(m.Packages)
	}

	for i := m.Offset; i < end; i++ {
		pkg := m.Packages[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[i] {
			box = "[x]"
		}

		label := pkg.Name
		if pkg.Pinned != "" {
			label += "==" + pkg.Pinned
		}
		detail := string(pkg.Status)
		if pkg.Status == reconcile.StatusMismatch && pkg.Installed != "" {
			detail = fmt.Sprintf("installed %s", pkg.Installed)
		}

		style := listNormalStyle
		if i == m.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + box + " " + style.Render(label) + " " + listDimStyle.Render(detail) + "\n")
	}

	if len(m.Packages) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d", m.Cursor+1, len(m.Packages))))
	}
	return b.String()
}

// Selection returns the names of checked packages, nil when the picker
// was aborted.
func (m PackageListModel) Selection() []string {
	if !m.Confirmed {
		return nil
	}
	var names []string
	for i, pkg := range m.Packages {
		if m.Checked[i] {
			names = append(names, pkg.Name)
		}
	}
	return names
}

// pickPackages runs the interactive picker and returns the chosen names.
func pickPackages(packages []reconcile.PackageStatus) ([]string, error) {
	model := NewPackageListModel(packages)
	out, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	final, ok := out.(PackageListModel)
	if !ok {
		return nil, nil
	}
	return final.Selection(), nil
}
