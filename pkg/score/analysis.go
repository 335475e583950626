package score

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metric names of the RCEH axes as shown on charts.
const (
	MetricRevenue = "Revenue"
	MetricCost    = "Cost"
	MetricEase    = "Ease"
	MetricHuman   = "Human"
	MetricTotal   = "Total"
	MetricBudget  = "Budget"
)

// MetricScore is one use case rating in long form.
type MetricScore struct {
	UseCase  string   `json:"use_case" yaml:"use_case"`
	Category Category `json:"category" yaml:"category"`
	Metric   string   `json:"metric" yaml:"metric"`
	Score    int      `json:"score" yaml:"score"`
}

// Melt unpivots the four ratings of each use case into long form, use case
// major, in RCEH order.
func Melt(list []Scored) []MetricScore {
	out := make([]MetricScore, 0, len(list)*4)
	for _, s := range list {
		for _, m := range []struct {
			name  string
			score int
		}{
			{MetricRevenue, s.Revenue},
			{MetricCost, s.Cost},
			{MetricEase, s.Ease},
			{MetricHuman, s.Human},
		} {
			out = append(out, MetricScore{
				UseCase:  s.Name,
				Category: s.Category,
				Metric:   m.name,
				Score:    m.score,
			})
		}
	}
	return out
}

// CorrelationMatrix is a labeled square matrix of Pearson coefficients.
type CorrelationMatrix struct {
	Labels []string    `json:"labels" yaml:"labels"`
	Values [][]float64 `json:"values" yaml:"values"`
}

// Correlation computes the Pearson correlation between the rating, total and
// budget columns. Undefined coefficients (fewer than two rows or a constant
// column) are reported as 0; the diagonal is always 1.
func Correlation(list []Scored) *CorrelationMatrix {
	labels := []string{MetricRevenue, MetricCost, MetricEase, MetricHuman, MetricTotal, MetricBudget}
	cols := make([][]float64, len(labels))
	for i := range cols {
		cols[i] = make([]float64, 0, len(list))
	}
	for _, s := range list {
		cols[0] = append(cols[0], float64(s.Revenue))
		cols[1] = append(cols[1], float64(s.Cost))
		cols[2] = append(cols[2], float64(s.Ease))
		cols[3] = append(cols[3], float64(s.Human))
		cols[4] = append(cols[4], float64(s.Total))
		cols[5] = append(cols[5], s.Budget)
	}

	n := len(labels)
	m := &CorrelationMatrix{
		Labels: labels,
		Values: make([][]float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := 0.0
			if len(list) > 1 {
				c = stat.Correlation(cols[i], cols[j], nil)
			}
			if math.IsNaN(c) || math.IsInf(c, 0) {
				c = 0
			}
			c = math.Max(-1.0, math.Min(1.0, c))
			m.Values[i][j] = c
			m.Values[j][i] = c
		}
		m.Values[i][i] = 1.0
	}

	return m
}
