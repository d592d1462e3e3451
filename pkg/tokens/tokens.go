// Package tokens estimates how many LLM tokens a piece of text consumes.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens with the cl100k_base encoding when it is
// available, and falls back to a character-class heuristic otherwise.
// Estimates are deterministic for identical input and never require
// network access at call time.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

// NewEstimator builds an Estimator. If the cl100k_base encoding cannot be
// loaded the heuristic fallback is used; construction never fails.
func NewEstimator() *Estimator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{enc: enc}
}

// Estimate returns the approximate token count for text. Empty input
// returns 0.
func (e *Estimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	if e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	return heuristicEstimate(text)
}

// Split hard-splits text into windows of at most maxTokens tokens each via
// an encode/slice/decode round trip. It is the last resort for text with no
// usable paragraph or sentence boundaries; decoded windows may not restore
// the original whitespace exactly. maxTokens must be >= 1.
func (e *Estimator) Split(text string, maxTokens int) []string {
	if text == "" || maxTokens < 1 {
		return nil
	}
	if e.enc == nil {
		return heuristicSplit(text, maxTokens)
	}

	ids := e.enc.Encode(text, nil, nil)
	windows := make([]string, 0, (len(ids)+maxTokens-1)/maxTokens)
	for start := 0; start < len(ids); start += maxTokens {
		end := start + maxTokens
		if end > len(ids) {
			end = len(ids)
		}
		windows = append(windows, e.enc.Decode(ids[start:end]))
	}
	return windows
}

// heuristicEstimate approximates OpenAI's guidance: roughly 4 ASCII
// characters per token, 2 tokens per CJK ideograph, 3 characters per token
// for everything else.
func heuristicEstimate(text string) int {
	var ascii, cjk, other int
	for _, r := range text {
		switch {
		case r < 128:
			ascii++
		case r >= 0x4E00 && r <= 0x9FFF:
			cjk++
		default:
			other++
		}
	}
	return int(float64(ascii)/4 + float64(cjk)*2 + float64(other)/3)
}

// heuristicSplit windows text by runes, flushing whenever the heuristic
// estimate of the accumulated window reaches maxTokens.
func heuristicSplit(text string, maxTokens int) []string {
	var windows []string
	var current []rune
	for _, r := range text {
		current = append(current, r)
		if heuristicEstimate(string(current)) >= maxTokens {
			windows = append(windows, string(current))
			current = nil
		}
	}
	if len(current) > 0 {
		windows = append(windows, string(current))
	}
	return windows
}
