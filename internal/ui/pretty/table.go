package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/gomdpos/pkg/analysis"
)

// Type table layout constants.
const (
	typeColumn  = 0
	countColumn = 1
	filesColumn = 2
	cellPadding = 1
)

// FormatTypeTable renders the per-type breakdown as a bordered table no wider
// than width. The files column lists how many files contain each type.
func (s *Styles) FormatTypeTable(rows []analysis.TypeAnalysis, width int) string {
	if len(rows) == 0 {
		return ""
	}

	body := make([][]string, 0, len(rows))
	total := 0
	for _, r := range rows {
		body = append(body, []string{r.Type, strconv.Itoa(r.Count), strconv.Itoa(len(r.Files))})
		total += r.Count
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableBorder).
		Headers("TYPE", "TOKENS", "FILES").
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, cellPadding)
			if row == table.HeaderRow {
				style = style.Inherit(s.TableHeader)
			}
			if col == countColumn || col == filesColumn {
				style = style.Align(lipgloss.Right)
			}
			if col == typeColumn && row != table.HeaderRow {
				style = style.Inherit(s.TokenType)
			}
			return style
		})

	rendered := t.String()
	if width > 0 && lipgloss.Width(rendered) > width {
		rendered = t.Width(width).String()
	}

	return s.SummaryTitle.Render("Token types") + "\n" +
		rendered + "\n" +
		s.Dim.Render(strconv.Itoa(total)+" tokens, "+strconv.Itoa(len(rows))+" types") + "\n"
}
