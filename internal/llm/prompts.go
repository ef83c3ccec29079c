package llm

import "fmt"

const analysisPromptTemplate = `You are a private-equity diligence analyst. Be concise, literal, and conservative. If unsure, say 'Unknown'. Output valid JSON only that matches the schema.

Return JSON for this document.

Document meta:
- filename: %s
- category: %s

JSON schema:
{
  "doc": "string",           // filename
  "category": "financial|legal|commercial|operations|other",
  "facts": ["string", ...],  // 1-5 bullets, short, objective
  "red_flags": ["string", ...] // 0-5 bullets, short, concrete risk statements
}

Heuristics:
- Prefer explicit numbers, terms, durations, thresholds, parties, and dates.
- Red flags include: missing statements, exclusivity, unilateral termination, indemnities, breaches, going concern, overdue/arrears, covenants, related parties, churn, key-customer risk, safety/compliance issues, expired docs.

Document text (truncated):
%s`

const retryPromptTemplate = `Your last output was invalid JSON. Return only valid JSON matching the schema, no prose.

Document: %s
Category: %s

Return JSON in this exact format:
{
  "doc": "%s",
  "category": "%s",
  "facts": ["fact1", "fact2"],
  "red_flags": ["flag1", "flag2"]
}

Document text:
%s`

const summaryPromptTemplate = `You summarize for an Investment Committee. Group by category. Be concise and professional. 300-400 words.

Input is a JSON array of per-document results:
%s

Write a single 300-400 word summary focusing on red flags first. Group by Financial, Legal, Operations, Commercial. Where helpful, reference counts (e.g., "3 red flags across two contracts").`

// AnalysisPrompt builds the primary per-document extraction prompt.
func AnalysisPrompt(filename, category, text string) string {
	return fmt.Sprintf(analysisPromptTemplate, filename, category, text)
}

// RetryPrompt builds the stricter prompt used after a malformed response.
// It restates the target schema with the filename and category filled in.
func RetryPrompt(filename, category, text string) string {
	return fmt.Sprintf(retryPromptTemplate, filename, category, filename, category, text)
}

// SummaryPrompt builds the executive-summary prompt over the serialized
// per-document results.
func SummaryPrompt(analysisJSON string) string {
	return fmt.Sprintf(summaryPromptTemplate, analysisJSON)
}
