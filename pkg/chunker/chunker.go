// Package chunker partitions cleaned text into token-bounded chunks,
// preferring paragraph and sentence boundaries over mid-sentence splits.
package chunker

import (
	"strings"
)

// Estimator provides token counts and the hard token-window split used when
// a single sentence exceeds the chunk budget.
type Estimator interface {
	Estimate(text string) int
	Split(text string, maxTokens int) []string
}

// Chunker splits text into chunks whose estimated token count stays within
// a budget. Output order follows document order and the split is
// deterministic for identical input.
type Chunker struct {
	est Estimator
}

func New(est Estimator) *Chunker {
	return &Chunker{est: est}
}

// sentenceTerminators covers both Latin and CJK sentence-ending punctuation.
const sentenceTerminators = ".!?;。！？；"

// Split partitions text into chunks of at most maxTokens estimated tokens.
// Short input is returned unchanged as a single chunk. Oversized paragraphs
// fall through to sentence granularity; an oversized single sentence is
// hard-split into fixed token windows, the only case where the output may
// exceed natural boundaries. The result is never empty for non-empty input.
func (c *Chunker) Split(text string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	if c.est.Estimate(text) <= maxTokens {
		return []string{text}
	}

	// Joining with a blank line costs tokens too; charge it per separator
	// so flushed chunks stay within budget.
	paraSep := c.est.Estimate("\n\n")

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentTokens = 0
		}
	}

	for _, para := range splitParagraphs(text) {
		paraTokens := c.est.Estimate(para)

		if paraTokens > maxTokens {
			// Paragraph alone blows the budget; flush what we have and
			// recurse at sentence granularity.
			flush()
			chunks = append(chunks, c.splitBySentences(para, maxTokens)...)
			continue
		}

		cost := paraTokens
		if len(current) > 0 {
			cost += paraSep
		}
		if currentTokens+cost > maxTokens {
			flush()
		}
		current = append(current, para)
		currentTokens += paraTokens
		if len(current) > 1 {
			currentTokens += paraSep
		}
	}
	flush()

	return chunks
}

// splitBySentences applies the same greedy accumulation at sentence
// granularity, joining accumulated sentences with a single space.
func (c *Chunker) splitBySentences(para string, maxTokens int) []string {
	sentenceSep := c.est.Estimate(" ")

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentTokens = 0
		}
	}

	for _, sentence := range SplitSentences(para) {
		sentTokens := c.est.Estimate(sentence)

		if sentTokens > maxTokens {
			// Pathological case: a single unsplittable run. Hard token
			// windows are the only option left.
			flush()
			chunks = append(chunks, c.est.Split(sentence, maxTokens)...)
			continue
		}

		cost := sentTokens
		if len(current) > 0 {
			cost += sentenceSep
		}
		if currentTokens+cost > maxTokens {
			flush()
		}
		current = append(current, sentence)
		currentTokens += sentTokens
		if len(current) > 1 {
			currentTokens += sentenceSep
		}
	}
	flush()

	return chunks
}

// splitParagraphs splits text on blank-line boundaries, dropping empty
// paragraphs and preserving order.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// SplitSentences splits text after sentence-ending punctuation, keeping the
// terminator attached to its sentence. Whitespace-only fragments are
// dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if strings.ContainsRune(sentenceTerminators, r) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
