package data

import (
	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/score"
)

// Reference returns a fresh copy of the compiled-in use case table.
func Reference() []score.UseCase {
	return []score.UseCase{
		{Name: "Dynamic Menu Pricing & Promotions", Revenue: 5, Cost: 3, Ease: 4, Human: 2, Budget: 0.38},
		{Name: "Delivery Time Optimization", Revenue: 4, Cost: 3, Ease: 4, Human: 2, Budget: 0.40},
		{Name: "Store Workforce Optimization", Revenue: 3, Cost: 4, Ease: 4, Human: 3, Budget: 0.35},
		{Name: "Inventory Waste Reduction", Revenue: 3, Cost: 5, Ease: 4, Human: 2, Budget: 0.35},
		{Name: "Personalized Upselling Engine", Revenue: 5, Cost: 2, Ease: 3, Human: 3, Budget: 0.345},
		{Name: "Location Selection & Expansion", Revenue: 5, Cost: 3, Ease: 3, Human: 3, Budget: 0.45},
		{Name: "Customer Sentiment Analysis", Revenue: 3, Cost: 2, Ease: 4, Human: 4, Budget: 0.275},
		{Name: "Energy Use Optimization", Revenue: 2, Cost: 4, Ease: 3, Human: 3, Budget: 0.30},
		{Name: "Next Product to Launch", Revenue: 4, Cost: 1, Ease: 3, Human: 4, Budget: 0.15},
		{Name: "Franchise Performance Benchmarking", Revenue: 3, Cost: 3, Ease: 3, Human: 4, Budget: 0.20},
		{Name: "Churn Prediction (Loyalty)", Revenue: 4, Cost: 2, Ease: 3, Human: 3, Budget: 0.30},
	}
}

// ReferencePlan returns a fresh copy of the compiled-in USD 5.0B allocation plan.
func ReferencePlan() *alloc.Plan {
	return &alloc.Plan{
		Total:          5.00,
		BucketAPercent: 0.30,
		BucketBPercent: 0.70,
		BucketALabel:   "Capability & Platform",
		BucketBLabel:   "Use-case Build & Scale",
		SubAllocation: []alloc.Component{
			{Name: "Data lakehouse + integrations (POS/CRM/ERP)", Amount: 0.70},
			{Name: "MLOps & AI platform (CI/CD, monitoring)", Amount: 0.40},
			{Name: "Change management & training (data literacy)", Amount: 0.25},
			{Name: "Governance, privacy, security", Amount: 0.15},
		},
	}
}
