package score

import (
	"sort"
)

const (
	// HumanOffset inverts the human-dependency axis: less human involvement scores higher.
	HumanOffset = 6

	// HighThreshold is the lowest total that lands in the High category.
	HighThreshold = 14
	// MediumThreshold is the lowest total that lands in the Medium category.
	MediumThreshold = 11
)

// UseCase is one candidate initiative with its raw RCEH ratings and budget.
type UseCase struct {
	Name    string  `json:"name" yaml:"name"`
	Revenue int     `json:"revenue" yaml:"revenue"`
	Cost    int     `json:"cost" yaml:"cost"`
	Ease    int     `json:"ease" yaml:"ease"`
	Human   int     `json:"human" yaml:"human"`
	Budget  float64 `json:"budget" yaml:"budget"`
}

// Scored is a UseCase together with its derived fields. The derived fields
// are only ever produced by Score.
type Scored struct {
	UseCase  `yaml:",inline"`
	Total    int      `json:"total" yaml:"total"`
	Category Category `json:"category" yaml:"category"`
}

// Total returns revenue + cost + ease + (6 - human).
func Total(u UseCase) int {
	return u.Revenue + u.Cost + u.Ease + (HumanOffset - u.Human)
}

// Categorize buckets a total score. Each band includes its lower bound.
func Categorize(total int) Category {
	switch {
	case total >= HighThreshold:
		return High
	case total >= MediumThreshold:
		return Medium
	default:
		return Low
	}
}

// Score derives total and category for every use case. Output order equals
// input order and the input is not modified. Ratings are not range checked,
// see Validate.
func Score(in []UseCase) []Scored {
	out := make([]Scored, 0, len(in))
	for _, u := range in {
		t := Total(u)
		out = append(out, Scored{
			UseCase:  u,
			Total:    t,
			Category: Categorize(t),
		})
	}
	return out
}

// Filter returns the scored use cases whose category is in cats, preserving
// order. No categories means no filter.
func Filter(list []Scored, cats ...Category) []Scored {
	if len(cats) == 0 {
		return append([]Scored(nil), list...)
	}

	out := make([]Scored, 0, len(list))
	for _, s := range list {
		for _, c := range cats {
			if s.Category == c {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// SortByTotal returns a copy sorted by total, highest first. Ties keep input order.
func SortByTotal(list []Scored) []Scored {
	out := append([]Scored(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// CountByCategory counts use cases per category. All categories are present.
func CountByCategory(list []Scored) map[Category]int {
	counts := make(map[Category]int, len(Categories()))
	for _, c := range Categories() {
		counts[c] = 0
	}
	for _, s := range list {
		counts[s.Category]++
	}
	return counts
}

// SumBudget adds up the budgets of the list.
func SumBudget(list []Scored) float64 {
	var sum float64
	for _, s := range list {
		sum += s.Budget
	}
	return sum
}

// Budgets returns the budget column in input order.
func Budgets(list []Scored) []float64 {
	out := make([]float64, 0, len(list))
	for _, s := range list {
		out = append(out, s.Budget)
	}
	return out
}

// BudgetByCategory sums budgets per category, only for categories present in list.
func BudgetByCategory(list []Scored) map[Category]float64 {
	out := make(map[Category]float64)
	for _, s := range list {
		out[s.Category] += s.Budget
	}
	return out
}
