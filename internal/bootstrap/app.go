// Package bootstrap wires configuration into the concrete service graph.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"vdr-backend/internal/analysis"
	"vdr-backend/internal/export"
	"vdr-backend/internal/extract"
	"vdr-backend/internal/llm/gemini"
	"vdr-backend/internal/shared/config"
	"vdr-backend/internal/shared/server"
)

// App holds the assembled service graph.
type App struct {
	Router *gin.Engine
	LLM    *gemini.Client
}

// Build constructs the full service graph from cfg.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	llmClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	extractor := extract.New(extract.Options{
		MaxTableRows:    cfg.MaxTableRows,
		MaxColumnValues: cfg.MaxColumnValues,
	})

	analyzer := analysis.NewAnalyzer(llmClient, analysis.AnalyzerConfig{
		Temperature:      cfg.LLMTemperature,
		MaxTokens:        cfg.LLMMaxTokens,
		RetryMaxTokens:   cfg.LLMRetryMaxTokens,
		SummaryMaxTokens: cfg.LLMSummaryMaxTokens,
	})

	svc := &analysis.Service{
		Extractor:          extractor,
		Analyzer:           analyzer,
		MaxTextLength:      cfg.MaxTextLength,
		AllowedExtensions:  cfg.AllowedExtensions,
		ExcludedExtensions: cfg.ExcludedExtensions,
	}

	analysisHandler := analysis.NewHandler(svc, cfg.MaxUploadBytes)
	exportHandler := export.NewHandler()

	router := server.NewRouter(cfg, analysisHandler, exportHandler)

	return &App{Router: router, LLM: llmClient}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.LLM != nil {
		return a.LLM.Close()
	}
	return nil
}
