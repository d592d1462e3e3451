package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/llm-web-summarizer/internal/common"
	"github.com/dtnitsch/llm-web-summarizer/models"
	"github.com/dtnitsch/llm-web-summarizer/pkg/extractor"
	"github.com/dtnitsch/llm-web-summarizer/pkg/summarize"
)

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Extractor distills readable text out of raw HTML.
type Extractor interface {
	Extract(html []byte, rawURL string) (*extractor.Content, error)
}

// Chunker splits text into pieces that fit a token budget.
type Chunker interface {
	Split(text string, maxTokens int) []string
}

// Summarizer produces one summary per chunk.
type Summarizer interface {
	SummarizeAll(ctx context.Context, chunks []string, language string) []string
}

// Integrator merges per-chunk summaries into one document.
type Integrator interface {
	Integrate(ctx context.Context, summaries []string, sourceURL string) (string, error)
}

// Store persists finished summaries keyed by URL.
type Store interface {
	GetByURL(url string) (*models.SummaryRecord, error)
	Save(url, content, language string) (string, error)
}

// Result describes one summarize run.
type Result struct {
	Summary  string
	RecordID string
	Cached   bool
	Chunks   int
	Degraded bool
}

// Options tune a single run.
type Options struct {
	// ForceFetch skips the stored-summary lookup and always
	// re-fetches the page.
	ForceFetch bool
}

type Pipeline struct {
	fetcher    Fetcher
	extractor  Extractor
	chunker    Chunker
	summarizer Summarizer
	integrator Integrator
	store      Store
	chunkSize  int
	logger     *slog.Logger
}

func New(fetcher Fetcher, extractor Extractor, chunker Chunker, summarizer Summarizer, integrator Integrator, store Store, chunkSize int, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		extractor:  extractor,
		chunker:    chunker,
		summarizer: summarizer,
		integrator: integrator,
		store:      store,
		chunkSize:  chunkSize,
		logger:     logger,
	}
}

// Run summarizes a single page. A stored summary for the same URL is
// returned as-is unless opts.ForceFetch is set.
func (p *Pipeline) Run(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	url := common.SanitizeURL(rawURL)
	if err := common.ValidateURL(url); err != nil {
		return nil, err
	}

	if !opts.ForceFetch {
		record, err := p.store.GetByURL(url)
		if err == nil {
			p.logger.Info("returning stored summary", "url", url, "id", record.ID)
			return &Result{Summary: record.Content, RecordID: record.ID, Cached: true}, nil
		}
	}

	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	content, err := p.extractor.Extract(html, url)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	chunks := p.chunker.Split(content.Text, p.chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("page %s yielded no summarizable text", url)
	}
	p.logger.Info("page split for summarization", "url", url, "chunks", len(chunks), "language", content.Language)

	summaries := p.summarizer.SummarizeAll(ctx, chunks, content.Language)

	result := &Result{Chunks: len(chunks)}
	if len(summaries) == 1 {
		result.Summary = summaries[0]
	} else {
		merged, err := p.integrator.Integrate(ctx, summaries, url)
		if err != nil {
			p.logger.Error("integration failed, concatenating partial summaries", "url", url, "error", err)
			merged = summarize.Concatenate(summaries)
			result.Degraded = true
		}
		result.Summary = merged
	}

	id, err := p.store.Save(url, result.Summary, content.Language)
	if err != nil {
		// The summary is still good, so hand it back and only log
		// the persistence failure.
		p.logger.Error("failed to store summary", "url", url, "error", err)
		return result, nil
	}
	result.RecordID = id
	return result, nil
}
