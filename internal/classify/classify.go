package classify

import "strings"

// Category is the closed set of document classification buckets.
type Category string

const (
	CategoryFinancial  Category = "financial"
	CategoryLegal      Category = "legal"
	CategoryCommercial Category = "commercial"
	CategoryOperations Category = "operations"
	CategoryOther      Category = "other"
)

// Categories lists all buckets in declaration order.
var Categories = []Category{
	CategoryFinancial,
	CategoryLegal,
	CategoryCommercial,
	CategoryOperations,
	CategoryOther,
}

// scoredCategories are the buckets that carry keywords. CategoryOther is
// the fallback and is never scored. Order here fixes the tie-break: the
// first category reaching the maximum score wins.
var scoredCategories = []Category{
	CategoryFinancial,
	CategoryLegal,
	CategoryCommercial,
	CategoryOperations,
}

var categoryKeywords = map[Category][]string{
	CategoryFinancial: {
		"revenue", "profit", "loss", "cash", "debt", "equity",
		"financial", "audit", "accounting", "budget", "forecast",
		"ebitda", "margins", "balance sheet", "income statement",
		"expenses", "assets", "liabilities", "capital",
	},
	CategoryLegal: {
		"contract", "agreement", "terms", "conditions", "liability",
		"indemnity", "warranty", "compliance", "regulation", "legal",
		"law", "court", "litigation", "dispute", "clause", "covenant",
		"jurisdiction", "governing law", "arbitration",
	},
	CategoryCommercial: {
		"customer", "client", "sales", "marketing", "pricing",
		"competition", "market", "brand", "product", "service",
		"revenue", "growth", "acquisition", "retention", "segment",
		"channel", "distribution", "partnership",
	},
	CategoryOperations: {
		"process", "production", "manufacturing", "supply", "logistics",
		"quality", "safety", "environment", "facility", "equipment",
		"staff", "training", "procedure", "workflow", "inventory",
		"maintenance", "efficiency", "capacity",
	},
}

// sampleLen bounds how much document text feeds the keyword scan. The
// opening of a document is the densest signal; scanning more mostly adds
// noise from boilerplate.
const sampleLen = 300

// ParseCategory maps a raw string onto the enum.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Categorize scores filename and the leading text sample against each
// category's keyword list and returns the best match. Filename hits count
// double: filenames are short, deliberate, and rarely misleading. A zero
// score everywhere falls back to CategoryOther. Deterministic for any
// (filename, text) pair.
func Categorize(filename, text string) Category {
	sample := strings.ToLower(Truncate(text, sampleLen))
	name := strings.ToLower(filename)

	best := CategoryOther
	bestScore := 0
	for _, cat := range scoredCategories {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			score += strings.Count(sample, kw)
			score += strings.Count(name, kw) * 2
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}

// Truncate cuts s to at most max bytes, backing off to the previous rune
// boundary so the result stays valid UTF-8.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
