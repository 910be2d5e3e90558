// Package app wires configuration, logging and the pipeline services into
// a single application container the server and handlers draw from.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
	"github.com/ternarybob/medela/internal/services/extraction"
	"github.com/ternarybob/medela/internal/services/llm"
	"github.com/ternarybob/medela/internal/services/lookup"
	"github.com/ternarybob/medela/internal/services/pipeline"
	"github.com/ternarybob/medela/internal/services/report"
)

// App holds the wired application services
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	LLMFactory  *llm.ProviderFactory
	BrowserPool *lookup.BrowserPool
	Extraction  *extraction.Service
	Lookup      *lookup.Service
	Reports     *report.Service
	Sweeper     *report.Sweeper
	Pipeline    *pipeline.Service
}

// New builds the application: provider factory, browser pool, pipeline
// stages and the report sweeper. The browser pool is started here so a
// broken Chrome install fails fast at startup.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	llmFactory := llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)

	poolConfig := lookup.BrowserPoolConfig{
		MaxInstances:   config.Lookup.PoolSize,
		UserAgent:      config.Lookup.UserAgent,
		Headless:       config.Lookup.Headless,
		RequestTimeout: config.Lookup.PageTimeout,
	}

	browserPool := lookup.NewBrowserPool(poolConfig, logger)
	if err := browserPool.Init(poolConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize browser pool: %w", err)
	}

	extractionService := extraction.NewService(llmFactory, config, logger)
	lookupService := lookup.NewService(browserPool, llmFactory, config, logger)

	reportService, err := report.NewService(config, logger)
	if err != nil {
		browserPool.Shutdown()
		return nil, err
	}

	sweeper := report.NewSweeper(reportService, config, logger)
	if err := sweeper.Start(); err != nil {
		browserPool.Shutdown()
		return nil, fmt.Errorf("failed to start report sweeper: %w", err)
	}

	pipelineService := pipeline.NewService(extractionService, lookupService, reportService, config, logger)

	return &App{
		Config:      config,
		Logger:      logger,
		LLMFactory:  llmFactory,
		BrowserPool: browserPool,
		Extraction:  extractionService,
		Lookup:      lookupService,
		Reports:     reportService,
		Sweeper:     sweeper,
		Pipeline:    pipelineService,
	}, nil
}

// Close releases application resources
func (a *App) Close() {
	a.Sweeper.Stop()

	if err := a.BrowserPool.Shutdown(); err != nil {
		a.Logger.Warn().Err(err).Msg("Browser pool shutdown failed")
	}

	if err := a.LLMFactory.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("LLM factory close failed")
	}
}
