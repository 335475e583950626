package alloc

import (
	"math"

	"github.com/pkg/errors"
)

// Tolerance is the absolute difference under which two amounts are considered equal.
const Tolerance = 1e-6

// ErrNoPlan is returned when a source yields no allocation plan.
var ErrNoPlan = errors.New("allocation plan required")

// Verdict is the outcome of a reconciliation.
type Verdict string

const (
	Match    Verdict = "Match"
	Mismatch Verdict = "Mismatch"
)

// Component is one line of the bucket A sub-allocation.
type Component struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// Plan is the fixed investment allocation: a total split into bucket A
// (platform capability) and bucket B (use-case execution).
type Plan struct {
	Total          float64     `json:"total" yaml:"total"`
	BucketAPercent float64     `json:"bucket_a_percent" yaml:"bucket_a_percent"`
	BucketBPercent float64     `json:"bucket_b_percent" yaml:"bucket_b_percent"`
	BucketALabel   string      `json:"bucket_a_label,omitempty" yaml:"bucket_a_label,omitempty"`
	BucketBLabel   string      `json:"bucket_b_label,omitempty" yaml:"bucket_b_label,omitempty"`
	SubAllocation  []Component `json:"sub_allocation,omitempty" yaml:"sub_allocation,omitempty"`
}

// BucketA returns total * bucket A percent. Not rounded; round only for display.
func (p *Plan) BucketA() float64 {
	return p.Total * p.BucketAPercent
}

// BucketB returns total * bucket B percent. Not rounded; round only for display.
func (p *Plan) BucketB() float64 {
	return p.Total * p.BucketBPercent
}

// SubAllocationTotal sums the bucket A components.
func (p *Plan) SubAllocationTotal() float64 {
	var sum float64
	for _, c := range p.SubAllocation {
		sum += c.Amount
	}
	return sum
}

// Validate checks the plan's own constraints: non-negative total and two
// percentages in [0,1] that add up to 1.
func (p *Plan) Validate() error {
	if p == nil {
		return ErrNoPlan
	}
	if p.Total < 0 {
		return errors.Errorf("total allocation must be non-negative: %.2f", p.Total)
	}
	for _, v := range []float64{p.BucketAPercent, p.BucketBPercent} {
		if v < 0 || v > 1 {
			return errors.Errorf("bucket percent must be in [0,1]: %.4f", v)
		}
	}
	if !Equal(p.BucketAPercent+p.BucketBPercent, 1.0) {
		return errors.Errorf("bucket percents must sum to 1: %.4f + %.4f",
			p.BucketAPercent, p.BucketBPercent)
	}
	for _, c := range p.SubAllocation {
		if c.Name == "" {
			return errors.New("sub-allocation component name required")
		}
	}
	return nil
}

// Equal reports whether a and b differ by less than Tolerance.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}
