package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vdr-backend/internal/classify"
)

// fakeExtractor serves canned text per basename and can fail selected
// files.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) ExtractText(path string) (string, error) {
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.texts[name], nil
}

// fakeAnalyzer returns a fixed result per basename and a fixed summary.
type fakeAnalyzer struct {
	results map[string]*DocumentAnalysis
	fail    map[string]bool
	summary string

	summarized []DocumentAnalysis
}

func (f *fakeAnalyzer) AnalyzeDocument(ctx context.Context, filename string, category classify.Category, text string) (*DocumentAnalysis, error) {
	_ = ctx
	_ = text
	if f.fail[filename] {
		return nil, errors.New("analysis exhausted")
	}
	if res, ok := f.results[filename]; ok {
		return res, nil
	}
	return &DocumentAnalysis{Doc: filename, Category: category, Facts: []string{"fact"}, RedFlags: []string{}}, nil
}

func (f *fakeAnalyzer) GenerateSummary(ctx context.Context, docs []DocumentAnalysis) string {
	_ = ctx
	f.summarized = docs
	return f.summary
}

func writeBatchFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestService(ex TextExtractor, an DocumentAnalyzer) *Service {
	return &Service{
		Extractor:          ex,
		Analyzer:           an,
		MaxTextLength:      15000,
		AllowedExtensions:  []string{".txt", ".csv", ".xlsx", ".xls", ".docx"},
		ExcludedExtensions: []string{".json", ".pdf"},
	}
}

func TestAnalyzeDirectoryIsolatesFailures(t *testing.T) {
	dir := writeBatchFiles(t, "a.txt", "b.txt", "c.txt")
	ex := &fakeExtractor{
		texts: map[string]string{"a.txt": "alpha", "c.txt": "gamma"},
		errs:  map[string]error{"b.txt": errors.New("disk read failed")},
	}
	an := &fakeAnalyzer{summary: "done"}
	svc := newTestService(ex, an)

	res, err := svc.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Docs) != 2 {
		t.Fatalf("docs: %d, want 2", len(res.Docs))
	}
	if res.Docs[0].Doc != "a.txt" || res.Docs[1].Doc != "c.txt" {
		t.Fatalf("docs: %+v", res.Docs)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "b.txt") {
		t.Fatalf("errors: %v", res.Errors)
	}

	// Aggregate reflects only the two successes.
	total := 0
	for _, cat := range classify.Categories {
		total += res.Aggregate.Counts(cat).Facts
	}
	if total != 2 {
		t.Fatalf("aggregate facts: %d, want 2", total)
	}
	if res.SummaryText != "done" {
		t.Fatalf("summary: %q", res.SummaryText)
	}
}

func TestAnalyzeDirectoryAggregatesByCategory(t *testing.T) {
	dir := writeBatchFiles(t, "q1.txt", "q2.txt")
	ex := &fakeExtractor{texts: map[string]string{"q1.txt": "t", "q2.txt": "t"}}
	an := &fakeAnalyzer{
		summary: "s",
		results: map[string]*DocumentAnalysis{
			"q1.txt": {Doc: "q1.txt", Category: classify.CategoryFinancial, Facts: []string{"a", "b", "c"}, RedFlags: []string{"r"}},
			"q2.txt": {Doc: "q2.txt", Category: classify.CategoryFinancial, Facts: []string{"a", "b"}, RedFlags: []string{}},
		},
	}
	svc := newTestService(ex, an)

	res, err := svc.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	fin := res.Aggregate.Counts(classify.CategoryFinancial)
	if fin.Facts != 5 || fin.RedFlags != 1 {
		t.Fatalf("financial: %+v", fin)
	}
	for _, cat := range classify.Categories {
		if cat == classify.CategoryFinancial {
			continue
		}
		if c := res.Aggregate.Counts(cat); c.Facts != 0 || c.RedFlags != 0 {
			t.Fatalf("%s: %+v, want zero", cat, c)
		}
	}
}

func TestAnalyzeDirectoryEmptyBatch(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, NewAnalyzer(&scriptedLLM{}, testAnalyzerConfig()))

	res, err := svc.AnalyzeDirectory(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Docs) != 0 || len(res.Errors) != 0 {
		t.Fatalf("docs=%d errors=%d, want empty", len(res.Docs), len(res.Errors))
	}
	if res.SummaryText != EmptyBatchSummary {
		t.Fatalf("summary: %q", res.SummaryText)
	}
	for _, cat := range classify.Categories {
		if c := res.Aggregate.Counts(cat); c.Facts != 0 || c.RedFlags != 0 {
			t.Fatalf("%s: %+v, want zero", cat, c)
		}
	}
}

func TestAnalyzeDirectoryNoTextRecordsError(t *testing.T) {
	dir := writeBatchFiles(t, "empty.txt")
	ex := &fakeExtractor{texts: map[string]string{"empty.txt": "   \n"}}
	svc := newTestService(ex, &fakeAnalyzer{summary: "s"})

	res, err := svc.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Docs) != 0 {
		t.Fatalf("docs: %+v", res.Docs)
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Failed to analyze: empty.txt" {
		t.Fatalf("errors: %v", res.Errors)
	}
}

func TestAnalyzeDirectorySortsPaths(t *testing.T) {
	dir := writeBatchFiles(t, "zeta.txt", "alpha.txt", "mid.txt")
	ex := &fakeExtractor{texts: map[string]string{"zeta.txt": "t", "alpha.txt": "t", "mid.txt": "t"}}
	svc := newTestService(ex, &fakeAnalyzer{summary: "s"})

	res, err := svc.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []string{"alpha.txt", "mid.txt", "zeta.txt"}
	for i, doc := range res.Docs {
		if doc.Doc != want[i] {
			t.Fatalf("docs out of order: %+v", res.Docs)
		}
	}
}

func TestAnalyzeDirectorySkipsDisallowedFiles(t *testing.T) {
	dir := writeBatchFiles(t, "keep.txt", "skip.json", "skip.exe")
	ex := &fakeExtractor{texts: map[string]string{"keep.txt": "t"}}
	svc := newTestService(ex, &fakeAnalyzer{summary: "s"})

	res, err := svc.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Docs) != 1 || res.Docs[0].Doc != "keep.txt" {
		t.Fatalf("docs: %+v", res.Docs)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("skipped files must not produce errors: %v", res.Errors)
	}
}

func TestAnalyzeDirectoryRecoversFromPanic(t *testing.T) {
	dir := writeBatchFiles(t, "a.txt", "boom.txt")
	ex := &panickyExtractor{on: "boom.txt", texts: map[string]string{"a.txt": "t"}}
	svc := newTestService(ex, &fakeAnalyzer{summary: "s"})

	res, err := svc.AnalyzeDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Docs) != 1 || res.Docs[0].Doc != "a.txt" {
		t.Fatalf("docs: %+v", res.Docs)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "boom.txt") {
		t.Fatalf("errors: %v", res.Errors)
	}
}

type panickyExtractor struct {
	on    string
	texts map[string]string
}

func (p *panickyExtractor) ExtractText(path string) (string, error) {
	name := filepath.Base(path)
	if name == p.on {
		panic("extractor blew up")
	}
	return p.texts[name], nil
}
