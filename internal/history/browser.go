package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/internwatch/internal/model"
)

// sgt is the timezone alerts are read in.
var sgt = time.FixedZone("SGT", 8*60*60)

const timeLayout = "2006-01-02 15:04 MST"

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)
)

type browserModel struct {
	source  string
	records []model.SeenRecord
	table   table.Model
	detail  viewport.Model
	view    viewState
	width   int
	height  int

	wantQuit bool
}

func newBrowserModel(source string, records []model.SeenRecord) browserModel {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithRows(toRows(records)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("24"))
	t.SetStyles(styles)

	return browserModel{
		source:  source,
		records: records,
		table:   t,
	}
}

// columns splits width between the table columns, giving title the most.
func columns(width int) []table.Column {
	avail := max(width-8, 60)
	seen := 17
	source := 10
	company := (avail - seen - source) / 3
	title := avail - seen - source - company
	return []table.Column{
		{Title: "First seen", Width: seen},
		{Title: "Source", Width: source},
		{Title: "Company", Width: company},
		{Title: "Title", Width: title},
	}
}

func toRows(records []model.SeenRecord) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = table.Row{formatSeen(r.FirstSeen, "2006-01-02 15:04"), r.Source, r.Company, r.Title}
	}
	return rows
}

func formatSeen(t time.Time, layout string) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.In(sgt).Format(layout)
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.width))
		// Header (1) + border (2) + status bar (1) + table header (2).
		m.table.SetHeight(max(m.height-6, 3))
		if m.view == viewDetail {
			m.detail.Width = m.width - 4
			m.detail.Height = m.height - 4
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browserModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "enter":
		if len(m.records) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.detail = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
		m.detail.SetContent(renderDetail(m.records[m.table.Cursor()]))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browserModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	if m.view == viewDetail {
		title := detailTitleStyle.Render("Seen Posting")
		content := activeBorderStyle.Width(max(m.width-2, 20)).Render(m.detail.View())
		status := statusBarStyle.Width(m.width).Render(" esc/backspace back  ↑/↓ scroll  q quit")
		return title + "\n" + content + "\n" + status
	}

	header := headerStyle.Render(fmt.Sprintf("Seen postings: %s (%d)", m.source, len(m.records)))
	body := activeBorderStyle.Render(m.table.View())
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ cursor  Enter detail  Esc sources  q quit")
	return header + "\n" + body + "\n" + status
}

func renderDetail(r model.SeenRecord) string {
	var b strings.Builder
	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", r.Title)
	addField("Company", r.Company)
	addField("Source", r.Source)
	addField("Identity", r.Identity)
	b.WriteByte('\n')
	addField("First seen", formatSeen(r.FirstSeen, timeLayout))
	return b.String()
}

// FilterSource returns the records from source, or all of them for AllSources.
func FilterSource(records []model.SeenRecord, source string) []model.SeenRecord {
	if source == "" || source == AllSources {
		return records
	}
	var out []model.SeenRecord
	for _, r := range records {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out
}

// RunBrowser launches the full-screen table of records.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to return to the source picker.
func RunBrowser(source string, records []model.SeenRecord) (bool, error) {
	p := tea.NewProgram(newBrowserModel(source, records), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browserModel)
	return final.wantQuit, nil
}
