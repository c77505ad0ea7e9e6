package history

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/internwatch/internal/model"
)

// AllSources is the picker entry that disables source filtering.
const AllSources = "all"

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// sourceCount is one picker entry.
type sourceCount struct {
	source string
	count  int
}

type pickerModel struct {
	entries []sourceCount
	cursor  int
	chosen  int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Seen postings: select a source")
	s += "\n"

	for i, e := range m.entries {
		label := fmt.Sprintf("%s (%d)", e.source, e.count)
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// countSources returns the "all" entry followed by each source, busiest first.
func countSources(records []model.SeenRecord) []sourceCount {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.Source]++
	}
	entries := make([]sourceCount, 0, len(counts)+1)
	for s, n := range counts {
		entries = append(entries, sourceCount{source: s, count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].source < entries[j].source
	})
	return append([]sourceCount{{source: AllSources, count: len(records)}}, entries...)
}

// RunSourcePicker shows an interactive source selector over records.
// Returns the chosen source (AllSources for no filter) and ok=false if the
// user quit.
func RunSourcePicker(records []model.SeenRecord) (source string, ok bool, err error) {
	m := pickerModel{
		entries: countSources(records),
		chosen:  -1,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return "", false, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return "", false, nil
	}
	return final.entries[final.chosen].source, true, nil
}
