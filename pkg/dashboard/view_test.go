package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	list  []score.UseCase
	plan  *alloc.Plan
	err   error
	loads int
}

func (s *stubSource) LoadUseCases(context.Context) ([]score.UseCase, error) {
	s.loads++
	return s.list, s.err
}

func (s *stubSource) LoadPlan(context.Context) (*alloc.Plan, error) {
	return s.plan, s.err
}

func dashboardState(cats ...score.Category) State {
	return WithCategories(Navigate(DefaultState(), Dashboard), cats...)
}

func TestBuild_Dashboard(t *testing.T) {
	v, err := Build(context.Background(), data.Embedded{}, dashboardState(), Options{})
	require.NoError(t, err)

	assert.Equal(t, Dashboard, v.Page)
	require.Len(t, v.Nav, 4)
	assert.True(t, v.Nav[1].Active)
	assert.False(t, v.Nav[0].Active)

	require.NotNil(t, v.Reconciliation)
	assert.Equal(t, alloc.Match, v.Reconciliation.Verdict)
	assert.InDelta(t, 3.50, v.Reconciliation.ObservedSum, 1e-6)
	assert.InDelta(t, 3.50, v.Reconciliation.Expected, 1e-9)
	assert.Equal(t, BannerSuccess, v.Banner.Level)

	require.NotNil(t, v.Allocation)
	require.Len(t, v.Allocation.Metrics, 3)
	assert.Equal(t, "$5.00B", v.Allocation.Metrics[0].Value)
	assert.Equal(t, "$1.50B", v.Allocation.Metrics[1].Value)
	assert.Equal(t, "30% of total", v.Allocation.Metrics[1].Delta)
	assert.Equal(t, "$3.50B", v.Allocation.Metrics[2].Value)
	assert.Equal(t, "70% of total", v.Allocation.Metrics[2].Delta)
	assert.Equal(t, []float64{1.50, 3.50}, v.Allocation.Split.Data)
	assert.Equal(t, alloc.Match, v.Allocation.SubReconciliation.Verdict)

	assert.Equal(t, &KPIs{UseCaseBudget: v.Reconciliation.ObservedSum, High: 5, Medium: 5, Low: 1}, v.KPIs)
	assert.Equal(t, []score.Category{score.High, score.Medium, score.Low}, v.FilterOptions)
	assert.Equal(t, v.FilterOptions, v.Categories)

	require.Len(t, v.Table, 11)
	for i := 1; i < len(v.Table); i++ {
		assert.GreaterOrEqual(t, v.Table[i-1].Total, v.Table[i].Total)
	}
	assert.Len(t, v.Scatter, 11)
	require.NotNil(t, v.RCEH)
	assert.Len(t, v.RCEH.Labels, 11)
	require.Len(t, v.RCEH.Groups, 4)
	assert.Equal(t, score.MetricRevenue, v.RCEH.Groups[0].Name)
	assert.Equal(t, 5, v.RCEH.Groups[0].Data[0])
	assert.Equal(t, []string{"High", "Medium", "Low"}, v.BudgetByCategory.Labels)
	assert.Len(t, v.Correlation.Values, 6)
}

func TestBuild_DashboardFilter(t *testing.T) {
	v, err := Build(context.Background(), data.Embedded{}, dashboardState(score.Low), Options{})
	require.NoError(t, err)

	require.Len(t, v.Table, 1)
	assert.Equal(t, "Next Product to Launch", v.Table[0].Name)
	assert.Len(t, v.Scatter, 1)
	assert.Equal(t, []string{"Low"}, v.BudgetByCategory.Labels)
	assert.Equal(t, []score.Category{score.Low}, v.Categories)

	// KPIs and reconciliation ignore the filter
	assert.Equal(t, 5, v.KPIs.High)
	assert.Equal(t, alloc.Match, v.Reconciliation.Verdict)
}

func TestBuild_DashboardNoCategories(t *testing.T) {
	state := ClearCategories(Navigate(DefaultState(), Dashboard))
	v, err := Build(context.Background(), data.Embedded{}, state, Options{})
	require.NoError(t, err)

	assert.Empty(t, v.Table)
	assert.Empty(t, v.Scatter)
	assert.Empty(t, v.BudgetByCategory.Labels)
	assert.Empty(t, v.RCEH.Labels)
	assert.Empty(t, v.Categories)
	assert.Equal(t, []score.Category{score.High, score.Medium, score.Low}, v.FilterOptions)

	assert.Equal(t, &KPIs{UseCaseBudget: v.Reconciliation.ObservedSum, High: 5, Medium: 5, Low: 1}, v.KPIs)
	assert.Equal(t, alloc.Match, v.Reconciliation.Verdict)
}

func TestBuild_Mismatch(t *testing.T) {
	list := data.Reference()
	list[0].Budget = 0.10
	src := &stubSource{list: list, plan: data.ReferencePlan()}

	v, err := Build(context.Background(), src, dashboardState(), Options{})
	require.NoError(t, err)
	assert.Equal(t, alloc.Mismatch, v.Reconciliation.Verdict)
	assert.Equal(t, BannerWarning, v.Banner.Level)
	assert.Contains(t, v.Banner.Message, "does not equal planned")
}

func TestBuild_RecomputesEveryCall(t *testing.T) {
	src := &stubSource{list: data.Reference(), plan: data.ReferencePlan()}
	ctx := context.Background()

	v1, err := Build(ctx, src, dashboardState(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 16, v1.Table[0].Total)

	src.list = []score.UseCase{{Name: "only", Revenue: 1, Cost: 1, Ease: 1, Human: 5, Budget: 3.5}}
	v2, err := Build(ctx, src, dashboardState(), Options{})
	require.NoError(t, err)
	require.Len(t, v2.Table, 1)
	assert.Equal(t, score.Low, v2.Table[0].Category)
	assert.Equal(t, 2, src.loads)
}

func TestBuild_SourceError(t *testing.T) {
	src := &stubSource{err: errors.New("boom")}
	_, err := Build(context.Background(), src, dashboardState(), Options{})
	assert.Error(t, err)

	_, err = Build(context.Background(), nil, dashboardState(), Options{})
	assert.Error(t, err)
}

func TestBuild_NilPlan(t *testing.T) {
	src := &stubSource{list: data.Reference()}
	_, err := Build(context.Background(), src, dashboardState(), Options{})
	assert.ErrorIs(t, err, alloc.ErrNoPlan)
}

func TestBuild_UnknownPage(t *testing.T) {
	_, err := Build(context.Background(), data.Embedded{}, State{Page: Page(12)}, Options{})
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestBuild_Presentations(t *testing.T) {
	dir := t.TempDir()
	v, err := Build(context.Background(), nil, DefaultState(), Options{AssetsDir: dir})
	require.NoError(t, err)
	assert.Len(t, v.Decks, 3)
	require.NotNil(t, v.Roadmap)
	assert.False(t, v.Roadmap.Found)
	assert.Contains(t, v.Roadmap.Hint, "roadmap.pptx")
	assert.Nil(t, v.KPIs)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "roadmap.pptx"), []byte("pptx"), 0600))
	v, err = Build(context.Background(), nil, DefaultState(), Options{AssetsDir: dir})
	require.NoError(t, err)
	assert.True(t, v.Roadmap.Found)
	assert.Empty(t, v.Roadmap.Hint)
}

func TestBuild_GanttAndMilestones(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	v, err := Build(ctx, nil, Navigate(DefaultState(), GanttChart), Options{})
	require.NoError(t, err)
	assert.Contains(t, v.GanttURL, "docs.google.com/spreadsheets")

	v, err = Build(ctx, nil, Navigate(DefaultState(), Milestones), Options{AssetsDir: dir})
	require.NoError(t, err)
	require.NotNil(t, v.Milestones)
	assert.False(t, v.Milestones.Found)
	assert.Contains(t, v.Milestones.Hint, "milestones.png")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "milestones.jpg"), []byte("jpg"), 0600))
	v, err = Build(ctx, nil, Navigate(DefaultState(), Milestones), Options{AssetsDir: dir})
	require.NoError(t, err)
	assert.True(t, v.Milestones.Found)
	assert.Equal(t, filepath.Join(dir, "milestones.jpg"), v.Milestones.Path)
}
