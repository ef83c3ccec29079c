package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vdr-backend/internal/classify"
	"vdr-backend/internal/llm"
	"vdr-backend/internal/shared/metrics"
	"vdr-backend/internal/shared/telemetry"
)

// retryTextLen bounds the document text sent on the retry attempt. A
// smaller context shrinks both the failure surface and the cost of the
// second call.
const retryTextLen = 1000

const (
	// FallbackSummary is returned when the summary call fails; the batch
	// never fails because of it.
	FallbackSummary = "Summary generation failed. Please review individual document analyses."

	// EmptyBatchSummary is returned without a provider call when there are
	// no results to summarize.
	EmptyBatchSummary = "No documents were analyzed."
)

// AnalyzerConfig fixes the generation budgets. RetryMaxTokens must not
// exceed MaxTokens.
type AnalyzerConfig struct {
	Temperature      float32
	MaxTokens        int32
	RetryMaxTokens   int32
	SummaryMaxTokens int32
}

// Analyzer drives per-document structured extraction and batch
// summarization against the LLM provider.
type Analyzer struct {
	client llm.Client
	cfg    AnalyzerConfig
}

// NewAnalyzer constructs an Analyzer over the given provider client.
func NewAnalyzer(client llm.Client, cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{client: client, cfg: cfg}
}

// AnalyzeDocument extracts facts and red flags for one document. A
// malformed response or provider error triggers exactly one retry with a
// stricter prompt over a shortened text; a second failure is terminal.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, filename string, category classify.Category, text string) (*DocumentAnalysis, error) {
	prompt := llm.AnalysisPrompt(filename, string(category), text)
	raw, err := a.client.Generate(ctx, prompt, llm.GenerateConfig{
		Temperature:     a.cfg.Temperature,
		MaxOutputTokens: a.cfg.MaxTokens,
	})
	if err != nil {
		telemetry.Error("analysis.provider_error", map[string]any{
			"file":  filename,
			"kind":  classifyProviderError(err),
			"error": err.Error(),
		})
	} else {
		result, perr := parseAnalysisResponse(raw, filename)
		if perr == nil {
			telemetry.Info("analysis.complete", map[string]any{
				"file":      filename,
				"facts":     len(result.Facts),
				"red_flags": len(result.RedFlags),
			})
			return result, nil
		}
		logParseFailure(perr)
	}

	return a.retryAnalysis(ctx, filename, category, text)
}

// retryAnalysis is the single permitted re-attempt: stricter prompt, first
// retryTextLen bytes of the text, temperature pinned to zero, tighter
// token budget.
func (a *Analyzer) retryAnalysis(ctx context.Context, filename string, category classify.Category, text string) (*DocumentAnalysis, error) {
	telemetry.Warn("analysis.retry", map[string]any{"file": filename})
	metrics.IncLLMRetry()

	prompt := llm.RetryPrompt(filename, string(category), classify.Truncate(text, retryTextLen))
	raw, err := a.client.Generate(ctx, prompt, llm.GenerateConfig{
		Temperature:     0,
		MaxOutputTokens: a.cfg.RetryMaxTokens,
	})
	if err != nil {
		telemetry.Error("analysis.retry_provider_error", map[string]any{
			"file":  filename,
			"kind":  classifyProviderError(err),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("analysis retry for %s: %w", filename, err)
	}

	result, perr := parseAnalysisResponse(raw, filename)
	if perr != nil {
		logParseFailure(perr)
		return nil, fmt.Errorf("analysis retry for %s: %w", filename, perr)
	}
	telemetry.Info("analysis.retry_success", map[string]any{"file": filename})
	return result, nil
}

// GenerateSummary produces the executive summary over all per-document
// results. It never fails outward: provider errors degrade to
// FallbackSummary, and an empty result set short-circuits to
// EmptyBatchSummary without a call.
func (a *Analyzer) GenerateSummary(ctx context.Context, docs []DocumentAnalysis) string {
	if len(docs) == 0 {
		return EmptyBatchSummary
	}

	payload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		telemetry.Error("summary.marshal_error", map[string]any{"error": err.Error()})
		return FallbackSummary
	}

	raw, err := a.client.Generate(ctx, llm.SummaryPrompt(string(payload)), llm.GenerateConfig{
		Temperature:     a.cfg.Temperature,
		MaxOutputTokens: a.cfg.SummaryMaxTokens,
	})
	if err != nil {
		telemetry.Error("summary.provider_error", map[string]any{
			"kind":  classifyProviderError(err),
			"error": err.Error(),
		})
		return FallbackSummary
	}

	summary := strings.TrimSpace(raw)
	telemetry.Info("summary.complete", map[string]any{"chars": len(summary)})
	return summary
}

func logParseFailure(err error) {
	var perr *ParseError
	if !errors.As(err, &perr) {
		telemetry.Warn("analysis.parse_failed", map[string]any{"error": err.Error()})
		return
	}
	telemetry.Warn("analysis.parse_failed", map[string]any{
		"file":   perr.Filename,
		"reason": perr.Reason,
		"raw":    perr.Raw,
	})
}

// classifyProviderError buckets a provider error for diagnostics. It never
// influences control flow.
func classifyProviderError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource exhausted"):
		return "quota"
	case strings.Contains(msg, "api key") || strings.Contains(msg, "authentication") || strings.Contains(msg, "unauthenticated"):
		return "auth"
	case strings.Contains(msg, "invalid"):
		return "invalid_request"
	default:
		return "provider"
	}
}
