package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/llm-web-summarizer/models"
	"github.com/dtnitsch/llm-web-summarizer/pkg/caching"
	"github.com/dtnitsch/llm-web-summarizer/pkg/chunker"
	"github.com/dtnitsch/llm-web-summarizer/pkg/extractor"
	"github.com/dtnitsch/llm-web-summarizer/pkg/fetcher"
	"github.com/dtnitsch/llm-web-summarizer/pkg/llm"
	"github.com/dtnitsch/llm-web-summarizer/pkg/pipeline"
	"github.com/dtnitsch/llm-web-summarizer/pkg/store"
	summarizepkg "github.com/dtnitsch/llm-web-summarizer/pkg/summarize"
	"github.com/dtnitsch/llm-web-summarizer/pkg/tokens"
	"github.com/urfave/cli/v2"
)

// SummarizeAction fetches a page, summarizes it and prints the result.
func SummarizeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	rawURL := c.String("url")
	if rawURL == "" {
		rawURL = c.Args().First()
	}
	if rawURL == "" {
		return fmt.Errorf("usage: %s summarize --url <url>", c.App.Name)
	}

	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("chunk-size") {
		config.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.Bool("force-fetch") {
		config.PageMaxAge = 0
	}
	if err := config.ValidateCredentials(); err != nil {
		return err
	}

	pageCache, err := caching.New(config.PageCacheDir(), config.PageMaxAge)
	if err != nil {
		return fmt.Errorf("failed to initialize page cache: %w", err)
	}

	summaryStore, err := store.Open(config.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open summary store: %w", err)
	}
	defer summaryStore.Close()

	client := llm.NewClient(config, logger)
	estimator := tokens.NewEstimator()

	p := pipeline.New(
		fetcher.New(pageCache, logger),
		extractor.New(),
		chunker.New(estimator),
		summarizepkg.NewSummarizer(client, config.WorkerCount, logger),
		summarizepkg.NewIntegrator(client, logger),
		summaryStore,
		config.ChunkSize,
		logger,
	)

	ctx := context.Background()
	if c.IsSet("timeout") {
		timeout, err := time.ParseDuration(c.String("timeout"))
		if err != nil {
			return fmt.Errorf("invalid timeout duration: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := p.Run(ctx, rawURL, pipeline.Options{ForceFetch: c.Bool("force-fetch")})
	if err != nil {
		return err
	}

	logger.Info("summarize complete",
		"url", rawURL,
		"cached", result.Cached,
		"chunks", result.Chunks,
		"degraded", result.Degraded,
		"duration", time.Since(startTime).String(),
	)

	fmt.Println(result.Summary)
	return nil
}
