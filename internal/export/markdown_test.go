package export

import (
	"strings"
	"testing"

	"vdr-backend/internal/analysis"
	"vdr-backend/internal/classify"
)

func TestMarkdownReport(t *testing.T) {
	res := &analysis.BatchResult{
		Docs: []analysis.DocumentAnalysis{
			{
				Doc:      "msa.docx",
				Category: classify.CategoryLegal,
				Facts:    []string{"3-year initial term", "auto-renews annually"},
				RedFlags: []string{"unilateral termination by counterparty"},
			},
			{
				Doc:      "p&l_2023.xlsx",
				Category: classify.CategoryFinancial,
				Facts:    []string{"revenue 4.2m"},
				RedFlags: []string{},
			},
		},
		SummaryText: "Two red flags across the contract set.",
		Errors:      []string{"Failed to analyze: scan.pdf"},
	}
	res.Aggregate.Add(classify.CategoryLegal, 2, 1)
	res.Aggregate.Add(classify.CategoryFinancial, 1, 0)

	md := MarkdownReport(res)

	for _, want := range []string{
		"# Due Diligence Summary",
		"Two red flags across the contract set.",
		"| Legal | 2 | 1 |",
		"| Financial | 1 | 0 |",
		"### Legal",
		"#### msa.docx",
		"- unilateral termination by counterparty",
		"## Processing Errors",
		"- Failed to analyze: scan.pdf",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}

	// Red flags must precede facts within a document section.
	if strings.Index(md, "unilateral termination") > strings.Index(md, "3-year initial term") {
		t.Fatal("red flags must be rendered before facts")
	}
}

func TestMarkdownReportEmptyBatch(t *testing.T) {
	res := &analysis.BatchResult{
		Docs:        []analysis.DocumentAnalysis{},
		SummaryText: "",
		Errors:      []string{},
	}
	md := MarkdownReport(res)

	if !strings.Contains(md, "_No summary available._") {
		t.Fatalf("missing empty-summary placeholder:\n%s", md)
	}
	if !strings.Contains(md, "_No documents were analyzed._") {
		t.Fatalf("missing empty-docs placeholder:\n%s", md)
	}
	if strings.Contains(md, "## Processing Errors") {
		t.Fatal("empty errors must not render an errors section")
	}
	if !strings.Contains(md, "| Other | 0 | 0 |") {
		t.Fatalf("aggregate table must render all-zero buckets:\n%s", md)
	}
}
