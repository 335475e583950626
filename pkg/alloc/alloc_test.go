package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *Plan {
	return &Plan{
		Total:          5.00,
		BucketAPercent: 0.30,
		BucketBPercent: 0.70,
		SubAllocation: []Component{
			{Name: "lakehouse", Amount: 0.70},
			{Name: "mlops", Amount: 0.40},
			{Name: "training", Amount: 0.25},
			{Name: "governance", Amount: 0.15},
		},
	}
}

func TestPlan_Buckets(t *testing.T) {
	p := testPlan()
	assert.InDelta(t, 1.50, p.BucketA(), 1e-9)
	assert.InDelta(t, 3.50, p.BucketB(), 1e-9)
	assert.InDelta(t, 1.50, p.SubAllocationTotal(), 1e-9)
}

func TestPlan_Validate(t *testing.T) {
	assert.NoError(t, testPlan().Validate())

	var nilPlan *Plan
	assert.ErrorIs(t, nilPlan.Validate(), ErrNoPlan)

	tests := []struct {
		name string
		mod  func(p *Plan)
	}{
		{"negative total", func(p *Plan) { p.Total = -1 }},
		{"percent above one", func(p *Plan) { p.BucketAPercent = 1.2; p.BucketBPercent = -0.2 }},
		{"percents do not sum", func(p *Plan) { p.BucketBPercent = 0.6 }},
		{"unnamed component", func(p *Plan) { p.SubAllocation[0].Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlan()
			tt.mod(p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestReconcile_ToleranceBoundary(t *testing.T) {
	p := testPlan()

	tests := []struct {
		name    string
		budgets []float64
		want    Verdict
	}{
		{"exact", []float64{3.50}, Match},
		{"within tolerance", []float64{3.50 - 1e-7}, Match},
		{"outside tolerance", []float64{3.50 - 1e-5}, Mismatch},
		{"short by a cent", []float64{3.49}, Mismatch},
		{"over", []float64{2.0, 2.0}, Mismatch},
		{"empty", nil, Mismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reconcile(p, tt.budgets)
			assert.Equal(t, tt.want, r.Verdict)
			assert.InDelta(t, 3.50, r.Expected, 1e-9)
		})
	}
}

func TestReconcile_CarriesValues(t *testing.T) {
	r := Reconcile(testPlan(), []float64{1.0, 1.25, 1.25})
	require.NotNil(t, r)
	assert.Equal(t, "B", r.Bucket)
	assert.InDelta(t, 3.50, r.ObservedSum, 1e-12)
	assert.True(t, r.Matched())
	assert.Contains(t, r.Message(), "$3.50B")
}

func TestReconcile_Idempotent(t *testing.T) {
	p := testPlan()
	b := []float64{0.38, 0.40, 0.35, 0.35, 0.345, 0.45, 0.275, 0.30, 0.15, 0.20, 0.30}
	assert.Equal(t, Reconcile(p, b), Reconcile(p, b))
	assert.Equal(t, Match, Reconcile(p, b).Verdict)
}

func TestReconcile_MismatchMessage(t *testing.T) {
	p := testPlan()
	p.BucketBLabel = "Use-case Build & Scale"
	r := Reconcile(p, []float64{3.0})
	assert.False(t, r.Matched())
	assert.Equal(t, "B) Use-case Build & Scale", r.Bucket)
	assert.Contains(t, r.Message(), "does not equal planned")
	assert.Contains(t, r.Message(), "$3.50B")
}

func TestReconcileSubAllocation(t *testing.T) {
	p := testPlan()
	r := ReconcileSubAllocation(p)
	assert.Equal(t, Match, r.Verdict)
	assert.InDelta(t, 1.50, r.Expected, 1e-9)

	p.SubAllocation = p.SubAllocation[:3]
	r = ReconcileSubAllocation(p)
	assert.Equal(t, Mismatch, r.Verdict)
	assert.InDelta(t, 1.35, r.ObservedSum, 1e-9)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(1.0, 1.0+5e-7))
	assert.False(t, Equal(1.0, 1.0+1e-6+1e-9))
}

func TestReconcile_FractionalCents(t *testing.T) {
	p := &Plan{Total: 1.0, BucketAPercent: 0.667, BucketBPercent: 0.333}

	r := Reconcile(p, []float64{0.333})
	assert.Equal(t, Match, r.Verdict)
	assert.InDelta(t, 0.333, r.Expected, 1e-12)

	// rounding the target to cents would hide a 0.003 gap
	assert.Equal(t, Mismatch, Reconcile(p, []float64{0.33}).Verdict)

	p.SubAllocation = []Component{{Name: "platform", Amount: 0.667}}
	assert.Equal(t, Match, ReconcileSubAllocation(p).Verdict)
}

func TestReconcile_NilPlan(t *testing.T) {
	r := Reconcile(nil, []float64{1.0, 2.5})
	assert.Equal(t, Mismatch, r.Verdict)
	assert.InDelta(t, 3.5, r.ObservedSum, 1e-12)
	assert.Equal(t, "B", r.Bucket)

	r = ReconcileSubAllocation(nil)
	assert.Equal(t, Mismatch, r.Verdict)
	assert.Equal(t, "A", r.Bucket)
}
