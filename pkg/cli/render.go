package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/score"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)

	categoryColors = map[score.Category]lipgloss.Color{
		score.High:   lipgloss.Color("42"),
		score.Medium: lipgloss.Color("214"),
		score.Low:    lipgloss.Color("244"),
	}

	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mismatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var scoreHeaders = []string{"Use Case", "R", "C", "E", "H", "Total", "Category", "Budget ($B)"}

func renderScores(list []score.Scored) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.Revenue),
			strconv.Itoa(s.Cost),
			strconv.Itoa(s.Ease),
			strconv.Itoa(s.Human),
			strconv.Itoa(s.Total),
			s.Category.String(),
			fmt.Sprintf("%.3f", s.Budget),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 6 && row >= 0 && row < len(list):
				return cellStyle.Foreground(categoryColors[list[row].Category])
			case col > 0:
				return numStyle
			default:
				return cellStyle
			}
		}).
		Headers(scoreHeaders...).
		Rows(rows...).
		Render()
}

func renderReconciliation(r *alloc.Reconciliation) string {
	if r.Matched() {
		return matchStyle.Render(r.Message())
	}
	return mismatchStyle.Render(r.Message())
}
