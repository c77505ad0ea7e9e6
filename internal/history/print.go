package history

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amishk599/internwatch/internal/model"
)

// Print writes records as a bordered table, for non-interactive output.
func Print(w io.Writer, records []model.SeenRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No postings have been announced yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FIRST SEEN", "SOURCE", "COMPANY", "TITLE", "IDENTITY")
	for _, r := range records {
		t.Row(formatSeen(r.FirstSeen, "2006-01-02 15:04"), r.Source, r.Company, r.Title, r.Identity)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
