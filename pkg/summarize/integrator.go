package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/llm-web-summarizer/pkg/llm"
)

const integratorSystemPrompt = `You are a professional text integration expert. Your task is to merge several related partial summaries into one coherent, comprehensive summary.
Follow these principles:
1. Make the final summary flow; avoid repetition
2. Identify and merge themes shared between the partial summaries
3. Keep information and insights unique to each part
4. Reorder content where needed for logical flow and clarity
5. Use transitions so the whole reads as one text
6. Merge similar or duplicated information without losing substance
7. The result must be a single unified summary, not a list of fragments

Output the merged summary directly, without meta commentary such as "here is the merged summary".`

// Integrator merges ordered chunk summaries into one final summary with a
// single further LLM call.
type Integrator struct {
	backend llm.Backend
	logger  *slog.Logger
}

func NewIntegrator(backend llm.Backend, logger *slog.Logger) *Integrator {
	return &Integrator{backend: backend, logger: logger}
}

// Integrate merges the summaries, which must be in original chunk order.
// sourceURL situates the model; it is context only and never fetched. On
// backend failure the error is returned and the caller picks the fallback.
func (in *Integrator) Integrate(ctx context.Context, summaries []string, sourceURL string) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Below are partial summaries of consecutive sections of the same web page (%s). Merge them into one coherent, comprehensive summary:\n", sourceURL)
	for i, summary := range summaries {
		fmt.Fprintf(&prompt, "\nSummary block %d:\n%s\n", i+1, summary)
	}
	prompt.WriteString("\nMerge the blocks above into a single coherent, comprehensive and non-repetitive summary. Output the merged summary directly, without meta commentary.")

	merged, err := in.backend.Complete(ctx, integratorSystemPrompt, prompt.String())
	if err != nil {
		return "", fmt.Errorf("summary integration failed: %w", err)
	}
	return merged, nil
}

// Concatenate is the degraded fallback when integration fails: the partial
// summaries in original order, separated by blank lines.
func Concatenate(summaries []string) string {
	return strings.Join(summaries, "\n\n")
}
