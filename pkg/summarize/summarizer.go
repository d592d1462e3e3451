// Package summarize generates per-chunk summaries and merges them into one
// coherent result.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dtnitsch/llm-web-summarizer/pkg/llm"
)

const summarizerSystemPrompt = `You are a professional text summarization expert. Your task is to produce accurate, comprehensive and coherent summaries.
Follow these principles:
1. Stay objective; add no personal opinions
2. Cover the main points and key information of the text
3. Keep important facts, figures and arguments
4. Use clear, concise language
5. Preserve the tone and register of the source
6. Write flowing prose, not bullet points
7. Scale the summary length to the length and complexity of the source, typically 10-20% of the original

Output the summary directly, without meta commentary such as "here is the summary".`

// Summarizer produces one summary per content chunk through the LLM
// backend.
type Summarizer struct {
	backend llm.Backend
	logger  *slog.Logger
	workers int
}

func NewSummarizer(backend llm.Backend, workers int, logger *slog.Logger) *Summarizer {
	if workers < 1 {
		workers = 1
	}
	return &Summarizer{backend: backend, logger: logger, workers: workers}
}

// SummarizeChunk summarizes a single chunk. When language is non-empty the
// model is told to answer in that language, keeping the summary readable
// alongside the source.
func (s *Summarizer) SummarizeChunk(ctx context.Context, chunk, language string) (string, error) {
	prompt := fmt.Sprintf(`Produce a comprehensive, accurate summary of the following content:

--- content start
%s
--- content end

Output the summary directly, without meta commentary such as "here is the summary".`, chunk)
	if language != "" {
		prompt += fmt.Sprintf("\nWrite the summary in %s, the language of the source.", language)
	}

	summary, err := s.backend.Complete(ctx, summarizerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("chunk summarization failed: %w", err)
	}
	return summary, nil
}

type chunkJob struct {
	index int
	chunk string
}

type chunkResult struct {
	index   int
	summary string
}

// SummarizeAll summarizes every chunk and returns the summaries in original
// chunk order. The result always has exactly one entry per chunk: a failed
// chunk is logged and replaced with a placeholder identifying it, so one
// bad chunk never aborts the batch. Calls are issued concurrently through a
// bounded worker pool.
func (s *Summarizer) SummarizeAll(ctx context.Context, chunks []string, language string) []string {
	if len(chunks) == 0 {
		return nil
	}

	jobs := make(chan chunkJob, len(chunks))
	results := make(chan chunkResult, len(chunks))

	workerCount := s.workers
	if workerCount > len(chunks) {
		workerCount = len(chunks)
	}

	var wg sync.WaitGroup
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				s.logger.Info("Summarizing chunk", "worker_id", id, "chunk", job.index+1, "total", len(chunks))
				summary, err := s.SummarizeChunk(ctx, job.chunk, language)
				if err != nil {
					s.logger.Error("Chunk summarization failed", "worker_id", id, "chunk", job.index+1, "error", err)
					summary = fmt.Sprintf("[chunk %d summary unavailable]", job.index+1)
				}
				results <- chunkResult{index: job.index, summary: summary}
			}
		}(w)
	}

	for i, chunk := range chunks {
		jobs <- chunkJob{index: i, chunk: chunk}
	}
	close(jobs)

	wg.Wait()
	close(results)

	// Reassemble in original chunk order regardless of completion order.
	summaries := make([]string, len(chunks))
	for result := range results {
		summaries[result.index] = result.summary
	}
	return summaries
}
