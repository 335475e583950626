package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/mchmarny/ucdash/pkg/resource"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
)

const (
	BannerSuccess = "success"
	BannerWarning = "warning"
	BannerInfo    = "info"
)

// Series is a labeled chart series.
type Series[T any] struct {
	Labels []string `json:"labels" yaml:"labels"`
	Data   []T      `json:"data" yaml:"data"`
}

// Metric is a single headline number.
type Metric struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Delta string `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// Banner is a status message with a severity used for styling.
type Banner struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// NavItem is one navigation button.
type NavItem struct {
	Page   Page   `json:"page" yaml:"page"`
	Title  string `json:"title" yaml:"title"`
	Active bool   `json:"active" yaml:"active"`
}

// ScatterPoint places one use case on the total-vs-budget chart.
type ScatterPoint struct {
	UseCase  string         `json:"use_case" yaml:"use_case"`
	Category score.Category `json:"category" yaml:"category"`
	Total    int            `json:"total" yaml:"total"`
	Budget   float64        `json:"budget" yaml:"budget"`
}

// KPIs are computed over the whole table, regardless of the filter.
type KPIs struct {
	UseCaseBudget float64 `json:"use_case_budget" yaml:"use_case_budget"`
	High          int     `json:"high" yaml:"high"`
	Medium        int     `json:"medium" yaml:"medium"`
	Low           int     `json:"low" yaml:"low"`
}

// Allocation is the investment allocation section.
type Allocation struct {
	Plan              *alloc.Plan           `json:"plan" yaml:"plan"`
	Metrics           []Metric              `json:"metrics" yaml:"metrics"`
	Split             Series[float64]       `json:"split" yaml:"split"`
	SubReconciliation *alloc.Reconciliation `json:"sub_reconciliation" yaml:"sub_reconciliation"`
}

// LocalFile is an optional file next to the app.
type LocalFile struct {
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Found bool   `json:"found" yaml:"found"`
	Hint  string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// NamedSeries is one group of a grouped bar chart.
type NamedSeries struct {
	Name string `json:"name" yaml:"name"`
	Data []int  `json:"data" yaml:"data"`
}

// GroupedSeries shares labels across several named series.
type GroupedSeries struct {
	Labels []string      `json:"labels" yaml:"labels"`
	Groups []NamedSeries `json:"groups" yaml:"groups"`
}

// View is everything a page renders.
type View struct {
	Page       Page             `json:"page" yaml:"page"`
	Title      string           `json:"title" yaml:"title"`
	Nav        []NavItem        `json:"nav" yaml:"nav"`
	Categories []score.Category `json:"categories" yaml:"categories"`

	Allocation       *Allocation              `json:"allocation,omitempty" yaml:"allocation,omitempty"`
	Reconciliation   *alloc.Reconciliation    `json:"reconciliation,omitempty" yaml:"reconciliation,omitempty"`
	Banner           *Banner                  `json:"banner,omitempty" yaml:"banner,omitempty"`
	KPIs             *KPIs                    `json:"kpis,omitempty" yaml:"kpis,omitempty"`
	FilterOptions    []score.Category         `json:"filter_options,omitempty" yaml:"filter_options,omitempty"`
	Scatter          []ScatterPoint           `json:"scatter,omitempty" yaml:"scatter,omitempty"`
	BudgetByCategory *Series[float64]         `json:"budget_by_category,omitempty" yaml:"budget_by_category,omitempty"`
	RCEH             *GroupedSeries           `json:"rceh,omitempty" yaml:"rceh,omitempty"`
	Table            []score.Scored           `json:"table,omitempty" yaml:"table,omitempty"`
	Correlation      *score.CorrelationMatrix `json:"correlation,omitempty" yaml:"correlation,omitempty"`

	Decks      []resource.Deck `json:"decks,omitempty" yaml:"decks,omitempty"`
	Roadmap    *LocalFile      `json:"roadmap,omitempty" yaml:"roadmap,omitempty"`
	GanttURL   string          `json:"gantt_url,omitempty" yaml:"gantt_url,omitempty"`
	Milestones *LocalFile      `json:"milestones,omitempty" yaml:"milestones,omitempty"`
}

// Options carry the environment a view is built in.
type Options struct {
	// AssetsDir is where optional local files (milestones image, roadmap deck) live.
	AssetsDir string
}

// Build produces the view for state. Only the data the page needs is loaded;
// every call reloads from src and recomputes.
func Build(ctx context.Context, src data.Source, state State, opt Options) (*View, error) {
	if !state.Page.Valid() {
		return nil, errors.Wrapf(ErrUnknownPage, "%d", int(state.Page))
	}

	v := &View{
		Page:       state.Page,
		Title:      state.Page.String(),
		Nav:        navItems(state.Page),
		Categories: state.Categories,
	}

	switch state.Page {
	case Presentations:
		v.Title = "Presentations"
		v.Decks = resource.Decks()
		v.Roadmap = localFile(opt.AssetsDir, resource.RoadmapDeckFile)
	case Dashboard:
		v.Title = "Use Cases Prioritization Analysis Dashboard"
		if src == nil {
			return nil, errors.New("source required")
		}
		if err := buildDashboard(ctx, v, src, state); err != nil {
			return nil, err
		}
	case GanttChart:
		v.GanttURL = resource.GanttSheetURL
	case Milestones:
		v.Title = "Project Milestones"
		v.Milestones = localFile(opt.AssetsDir, resource.MilestoneCandidates...)
	}

	return v, nil
}

func buildDashboard(ctx context.Context, v *View, src data.Source, state State) error {
	list, err := src.LoadUseCases(ctx)
	if err != nil {
		return errors.Wrap(err, "error loading use cases")
	}
	plan, err := src.LoadPlan(ctx)
	if err != nil {
		return errors.Wrap(err, "error loading allocation plan")
	}
	if plan == nil {
		return alloc.ErrNoPlan
	}

	scored := score.Score(list)

	v.Allocation = allocation(plan)
	v.Reconciliation = alloc.Reconcile(plan, score.Budgets(scored))
	v.Banner = reconciliationBanner(v.Reconciliation)

	counts := score.CountByCategory(scored)
	v.KPIs = &KPIs{
		UseCaseBudget: v.Reconciliation.ObservedSum,
		High:          counts[score.High],
		Medium:        counts[score.Medium],
		Low:           counts[score.Low],
	}

	v.FilterOptions = presentCategories(scored)
	filtered := []score.Scored{}
	switch {
	case state.NoCategories:
		v.Categories = []score.Category{}
	case len(v.Categories) == 0:
		v.Categories = v.FilterOptions
		filtered = score.Filter(scored)
	default:
		filtered = score.Filter(scored, state.Categories...)
	}

	v.Scatter = scatter(filtered)
	v.BudgetByCategory = budgetByCategory(filtered)
	v.RCEH = rceh(filtered)
	v.Table = score.SortByTotal(filtered)
	v.Correlation = score.Correlation(filtered)
	return nil
}

func navItems(active Page) []NavItem {
	items := make([]NavItem, 0, len(Pages()))
	for _, p := range Pages() {
		items = append(items, NavItem{Page: p, Title: p.String(), Active: p == active})
	}
	return items
}

func allocation(p *alloc.Plan) *Allocation {
	a := &Allocation{
		Plan: p,
		Metrics: []Metric{
			{Label: "Total Allocation", Value: money(p.Total)},
			{Label: bucketTitle("A", p.BucketALabel), Value: money(p.BucketA()), Delta: percentOfTotal(p.BucketAPercent)},
			{Label: bucketTitle("B", p.BucketBLabel), Value: money(p.BucketB()), Delta: percentOfTotal(p.BucketBPercent)},
		},
		Split: Series[float64]{
			Labels: []string{bucketTitle("A", p.BucketALabel), bucketTitle("B", p.BucketBLabel)},
			Data:   []float64{roundCents(p.BucketA()), roundCents(p.BucketB())},
		},
	}
	if len(p.SubAllocation) > 0 {
		a.SubReconciliation = alloc.ReconcileSubAllocation(p)
	}
	return a
}

func reconciliationBanner(r *alloc.Reconciliation) *Banner {
	if r.Matched() {
		return &Banner{Level: BannerSuccess, Message: r.Message()}
	}
	return &Banner{Level: BannerWarning, Message: r.Message()}
}

func presentCategories(list []score.Scored) []score.Category {
	counts := score.CountByCategory(list)
	out := make([]score.Category, 0, len(counts))
	for _, c := range score.Categories() {
		if counts[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}

func scatter(list []score.Scored) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(list))
	for _, s := range list {
		out = append(out, ScatterPoint{
			UseCase:  s.Name,
			Category: s.Category,
			Total:    s.Total,
			Budget:   s.Budget,
		})
	}
	return out
}

func budgetByCategory(list []score.Scored) *Series[float64] {
	by := score.BudgetByCategory(list)
	s := &Series[float64]{
		Labels: make([]string, 0, len(by)),
		Data:   make([]float64, 0, len(by)),
	}
	for _, c := range score.Categories() {
		if b, ok := by[c]; ok {
			s.Labels = append(s.Labels, c.String())
			s.Data = append(s.Data, b)
		}
	}
	return s
}

// rceh groups the four ratings per axis, one value per use case.
func rceh(list []score.Scored) *GroupedSeries {
	g := &GroupedSeries{
		Labels: make([]string, 0, len(list)),
		Groups: []NamedSeries{
			{Name: score.MetricRevenue, Data: []int{}},
			{Name: score.MetricCost, Data: []int{}},
			{Name: score.MetricEase, Data: []int{}},
			{Name: score.MetricHuman, Data: []int{}},
		},
	}
	for _, s := range list {
		g.Labels = append(g.Labels, s.Name)
	}

	idx := make(map[string]int, len(g.Groups))
	for i, n := range g.Groups {
		idx[n.Name] = i
	}
	for _, m := range score.Melt(list) {
		i := idx[m.Metric]
		g.Groups[i].Data = append(g.Groups[i].Data, m.Score)
	}
	return g
}

func localFile(dir string, candidates ...string) *LocalFile {
	f := &LocalFile{Name: candidates[0]}
	p, err := resource.FindLocal(dir, candidates...)
	if err != nil {
		f.Hint = resource.Hint(err)
		return f
	}
	f.Path = p
	f.Found = true
	return f
}

func bucketTitle(key, label string) string {
	if label == "" {
		return key
	}
	return key + ") " + label
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func money(v float64) string {
	return fmt.Sprintf("$%.2fB", v)
}

func percentOfTotal(pct float64) string {
	return fmt.Sprintf("%d%% of total", int(math.Round(pct*100)))
}
