package alloc

import (
	"fmt"
)

// Reconciliation compares an observed sum with the planned amount for a bucket.
type Reconciliation struct {
	Bucket      string  `json:"bucket" yaml:"bucket"`
	ObservedSum float64 `json:"observed_sum" yaml:"observed_sum"`
	Expected    float64 `json:"expected" yaml:"expected"`
	Verdict     Verdict `json:"verdict" yaml:"verdict"`
}

// Matched is shorthand for Verdict == Match.
func (r *Reconciliation) Matched() bool {
	return r.Verdict == Match
}

// Message is the banner text shown for the reconciliation.
func (r *Reconciliation) Message() string {
	if r.Matched() {
		return fmt.Sprintf("Budgets total $%.2fB, matching %s.", r.ObservedSum, r.Bucket)
	}
	return fmt.Sprintf("Budgets total $%.2fB; does not equal planned %s ($%.2fB).",
		r.ObservedSum, r.Bucket, r.Expected)
}

// Reconcile checks that the per use case budgets add up to bucket B. A
// mismatch is a verdict, not an error. A nil plan never matches.
func Reconcile(p *Plan, budgets []float64) *Reconciliation {
	var sum float64
	for _, b := range budgets {
		sum += b
	}
	if p == nil {
		return &Reconciliation{Bucket: "B", ObservedSum: sum, Verdict: Mismatch}
	}
	return compare(bucketName(p.BucketBLabel, "B"), sum, p.BucketB())
}

// ReconcileSubAllocation checks that the bucket A components add up to bucket A.
// A nil plan never matches.
func ReconcileSubAllocation(p *Plan) *Reconciliation {
	if p == nil {
		return &Reconciliation{Bucket: "A", Verdict: Mismatch}
	}
	return compare(bucketName(p.BucketALabel, "A"), p.SubAllocationTotal(), p.BucketA())
}

func compare(bucket string, observed, expected float64) *Reconciliation {
	v := Mismatch
	if Equal(observed, expected) {
		v = Match
	}
	return &Reconciliation{
		Bucket:      bucket,
		ObservedSum: observed,
		Expected:    expected,
		Verdict:     v,
	}
}

func bucketName(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return fallback + ") " + label
}
