package export

import (
	"fmt"
	"strings"

	"vdr-backend/internal/analysis"
	"vdr-backend/internal/classify"
)

var categoryTitles = map[classify.Category]string{
	classify.CategoryFinancial:  "Financial",
	classify.CategoryLegal:      "Legal",
	classify.CategoryCommercial: "Commercial",
	classify.CategoryOperations: "Operations",
	classify.CategoryOther:      "Other",
}

// MarkdownReport renders a batch result as a standalone Markdown document:
// executive summary, aggregate counts, per-category document details, and
// any processing errors. Pure function of its input.
func MarkdownReport(res *analysis.BatchResult) string {
	var sb strings.Builder

	sb.WriteString("# Due Diligence Summary\n\n")

	sb.WriteString("## Executive Summary\n\n")
	summary := strings.TrimSpace(res.SummaryText)
	if summary == "" {
		summary = "_No summary available._"
	}
	sb.WriteString(summary)
	sb.WriteString("\n\n")

	sb.WriteString("## Aggregate Counts\n\n")
	sb.WriteString("| Category | Facts | Red Flags |\n")
	sb.WriteString("| --- | ---: | ---: |\n")
	for _, cat := range classify.Categories {
		counts := res.Aggregate.Counts(cat)
		fmt.Fprintf(&sb, "| %s | %d | %d |\n", categoryTitles[cat], counts.Facts, counts.RedFlags)
	}
	sb.WriteString("\n")

	sb.WriteString("## Documents\n\n")
	if len(res.Docs) == 0 {
		sb.WriteString("_No documents were analyzed._\n\n")
	}
	for _, cat := range classify.Categories {
		docs := docsInCategory(res.Docs, cat)
		if len(docs) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", categoryTitles[cat])
		for _, doc := range docs {
			fmt.Fprintf(&sb, "#### %s\n\n", doc.Doc)
			writeBullets(&sb, "Red flags", doc.RedFlags)
			writeBullets(&sb, "Key facts", doc.Facts)
		}
	}

	if len(res.Errors) > 0 {
		sb.WriteString("## Processing Errors\n\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func docsInCategory(docs []analysis.DocumentAnalysis, cat classify.Category) []analysis.DocumentAnalysis {
	var out []analysis.DocumentAnalysis
	for _, doc := range docs {
		if doc.Category == cat {
			out = append(out, doc)
		}
	}
	return out
}

// writeBullets renders a labelled bullet list, skipping the section when
// empty. Red flags are rendered before facts by the caller.
func writeBullets(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s**\n\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
