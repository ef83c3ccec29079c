package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"vdr-backend/internal/classify"
)

// Expected response shape:
// {
//   "doc": "string",
//   "category": "financial|legal|commercial|operations|other",
//   "facts": ["string", ...],
//   "red_flags": ["string", ...]
// }
// Extra fields are tolerated; a missing required field is a failure.

const rawSampleLen = 200

// ParseError reports a malformed model response with enough context for
// logging. It never carries more than a truncated sample of the raw text.
type ParseError struct {
	Filename string
	Reason   string
	Raw      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response for %s: %s", e.Filename, e.Reason)
}

func newParseError(filename, reason, raw string) *ParseError {
	return &ParseError{
		Filename: filename,
		Reason:   reason,
		Raw:      classify.Truncate(raw, rawSampleLen),
	}
}

var requiredFields = []string{"doc", "category", "facts", "red_flags"}

// parseAnalysisResponse cleans and validates one model response. It is
// stateless and single-shot; retrying is the caller's job.
func parseAnalysisResponse(raw, filename string) (*DocumentAnalysis, error) {
	content := stripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, newParseError(filename, fmt.Sprintf("invalid JSON: %v", err), raw)
	}
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return nil, newParseError(filename, fmt.Sprintf("missing required field %q", field), raw)
		}
	}

	var result DocumentAnalysis
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, newParseError(filename, fmt.Sprintf("decode: %v", err), raw)
	}
	cat, ok := classify.ParseCategory(string(result.Category))
	if !ok {
		return nil, newParseError(filename, fmt.Sprintf("unknown category %q", result.Category), raw)
	}
	result.Category = cat
	return &result, nil
}

// stripCodeFence removes a wrapping markdown code fence, optionally tagged
// json, that models habitually add around structured output.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	if strings.HasSuffix(content, "```") {
		content = content[:len(content)-len("```")]
	}
	return strings.TrimSpace(content)
}
