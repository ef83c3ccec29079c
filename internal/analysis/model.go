package analysis

import "vdr-backend/internal/classify"

// DocumentAnalysis is the structured extraction result for one document.
// Facts and red flags keep the order the model emitted them in.
type DocumentAnalysis struct {
	Doc      string            `json:"doc"`
	Category classify.Category `json:"category"`
	Facts    []string          `json:"facts"`
	RedFlags []string          `json:"red_flags"`
}

// CategoryCounts tallies facts and red flags for one category bucket.
type CategoryCounts struct {
	Facts    int `json:"facts"`
	RedFlags int `json:"red_flags"`
}

// AggregateCounts holds one bucket per category. Buckets are addressed
// through the Category enum, never by field-name lookup.
type AggregateCounts struct {
	Financial  CategoryCounts `json:"financial"`
	Legal      CategoryCounts `json:"legal"`
	Operations CategoryCounts `json:"operations"`
	Commercial CategoryCounts `json:"commercial"`
	Other      CategoryCounts `json:"other"`
}

func (a *AggregateCounts) bucket(cat classify.Category) *CategoryCounts {
	switch cat {
	case classify.CategoryFinancial:
		return &a.Financial
	case classify.CategoryLegal:
		return &a.Legal
	case classify.CategoryOperations:
		return &a.Operations
	case classify.CategoryCommercial:
		return &a.Commercial
	default:
		return &a.Other
	}
}

// Add folds one document's counts into the category's bucket.
func (a *AggregateCounts) Add(cat classify.Category, facts, redFlags int) {
	b := a.bucket(cat)
	b.Facts += facts
	b.RedFlags += redFlags
}

// Counts returns the bucket for a category.
func (a *AggregateCounts) Counts(cat classify.Category) CategoryCounts {
	return *a.bucket(cat)
}

// BatchResult is the terminal artifact of one pipeline run. Docs and
// Errors are always non-nil so they marshal as [] rather than null.
type BatchResult struct {
	Docs        []DocumentAnalysis `json:"docs"`
	Aggregate   AggregateCounts    `json:"aggregate"`
	SummaryText string             `json:"summaryText"`
	Errors      []string           `json:"errors"`
}
