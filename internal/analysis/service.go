package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vdr-backend/internal/classify"
	"vdr-backend/internal/extract"
	"vdr-backend/internal/shared/metrics"
	"vdr-backend/internal/shared/telemetry"
)

// TextExtractor converts one document file into plain text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// DocumentAnalyzer runs LLM-backed extraction and summarization.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, filename string, category classify.Category, text string) (*DocumentAnalysis, error)
	GenerateSummary(ctx context.Context, docs []DocumentAnalysis) string
}

// errAnalyzeFailed marks the soft per-file failures (no extractable text,
// LLM analysis exhausted) that the batch absorbs as error entries.
var errAnalyzeFailed = errors.New("document analysis failed")

// Service orchestrates one batch: walk, filter, extract, categorize,
// analyze, aggregate, summarize.
type Service struct {
	Extractor          TextExtractor
	Analyzer           DocumentAnalyzer
	MaxTextLength      int
	AllowedExtensions  []string
	ExcludedExtensions []string
}

// AnalyzeDirectory processes every allowed file under dir, in
// lexicographic path order, with per-file error isolation: one file's
// failure never aborts the rest. The returned result is always complete:
// successes in Docs, failures in Errors, and a summary at the end.
func (s *Service) AnalyzeDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	start := time.Now()
	metrics.IncBatchStarted()

	res := &BatchResult{
		Docs:   []DocumentAnalysis{},
		Errors: []string{},
	}

	paths, err := s.processableFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", dir, err)
	}
	telemetry.Info("batch.start", map[string]any{"dir": dir, "files": len(paths)})

	for i, path := range paths {
		filename := filepath.Base(path)
		telemetry.Info("batch.file", map[string]any{
			"index": i + 1,
			"total": len(paths),
			"file":  filename,
		})

		doc, err := s.processDocument(ctx, path)
		if err != nil {
			metrics.IncDocumentFailed()
			if errors.Is(err, errAnalyzeFailed) {
				res.Errors = append(res.Errors, fmt.Sprintf("Failed to analyze: %s", filename))
			} else {
				res.Errors = append(res.Errors, fmt.Sprintf("Error processing %s: %v", filename, err))
			}
			continue
		}

		metrics.IncDocumentAnalyzed()
		res.Docs = append(res.Docs, *doc)
		res.Aggregate.Add(doc.Category, len(doc.Facts), len(doc.RedFlags))
	}

	res.SummaryText = s.Analyzer.GenerateSummary(ctx, res.Docs)

	metrics.IncBatchCompleted()
	metrics.ObserveBatchDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("batch.complete", map[string]any{
		"docs":   len(res.Docs),
		"errors": len(res.Errors),
	})
	return res, nil
}

// processDocument runs the per-file pipeline. A panic anywhere inside is
// converted to an error so it stays confined to this file's entry in the
// batch errors.
func (s *Service) processDocument(ctx context.Context, path string) (doc *DocumentAnalysis, err error) {
	filename := filepath.Base(path)
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("batch.panic", map[string]any{"file": filename, "panic": fmt.Sprint(rec)})
			doc = nil
			err = fmt.Errorf("panic while processing %s: %v", filename, rec)
		}
	}()

	text, err := s.Extractor.ExtractText(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		telemetry.Warn("batch.no_text", map[string]any{"file": filename})
		return nil, errAnalyzeFailed
	}

	text = classify.Truncate(text, s.MaxTextLength)
	category := classify.Categorize(filename, text)
	telemetry.Debug("batch.categorized", map[string]any{"file": filename, "category": string(category)})

	result, err := s.Analyzer.AnalyzeDocument(ctx, filename, category, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errAnalyzeFailed, err)
	}
	return result, nil
}

// processableFiles walks dir and returns the allowed files sorted
// lexicographically. Directory walk order is not stable across platforms;
// sorting makes batch ordering deterministic.
func (s *Service) processableFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if extract.IsAllowed(d.Name(), s.AllowedExtensions, s.ExcludedExtensions) {
			paths = append(paths, path)
		} else {
			telemetry.Debug("batch.skip_file", map[string]any{"file": d.Name()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
