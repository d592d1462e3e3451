// Package extractor turns raw HTML into cleaned plain text suitable for
// chunking, using readability extraction with a goquery pass over the
// distilled content.
package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// maxLineLength guards against unprocessed code or minified junk sneaking
// into the cleaned text as a single enormous line.
const maxLineLength = 1000

// Content is the cleaned result of one extraction.
type Content struct {
	Title    string
	Text     string
	Excerpt  string
	SiteName string
	// Language is the detected source language ("English", "Chinese", ...)
	// or empty when detection is inconclusive.
	Language string
}

type Extractor struct {
	detector lingua.LanguageDetector
}

// New builds an Extractor with a language detector over the languages the
// summarizer is expected to meet in practice.
func New() *Extractor {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Chinese,
			lingua.Japanese,
			lingua.Korean,
			lingua.French,
			lingua.German,
			lingua.Spanish,
			lingua.Portuguese,
			lingua.Russian,
		).
		Build()
	return &Extractor{detector: detector}
}

// Extract distills the main content of an HTML page into paragraph-separated
// plain text, with the page title prepended as a heading. It fails when no
// usable text remains after extraction.
func (e *Extractor) Extract(html []byte, rawURL string) (*Content, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(string(html)), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article content: %w", err)
	}

	paragraphs := collectParagraphs(article.Content)
	if len(paragraphs) == 0 {
		// goquery found nothing block-shaped; fall back to the flat text
		// readability produced.
		paragraphs = fallbackParagraphs(article.TextContent)
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("no content extracted from %s", rawURL)
	}

	text := strings.Join(paragraphs, "\n\n")
	title := strings.TrimSpace(article.Title)
	if title != "" {
		text = "# " + title + "\n\n" + text
	}

	return &Content{
		Title:    title,
		Text:     text,
		Excerpt:  strings.TrimSpace(article.Excerpt),
		SiteName: article.SiteName,
		Language: e.detectLanguage(text),
	}, nil
}

func (e *Extractor) detectLanguage(text string) string {
	// A short sample is plenty for detection and keeps it cheap.
	sample := text
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	language, ok := e.detector.DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return language.String()
}

// collectParagraphs walks the readability-distilled HTML and gathers
// content-bearing blocks as normalized paragraphs, in document order.
func collectParagraphs(distilledHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(distilledHTML))
	if err != nil {
		return nil
	}

	var paragraphs []string
	doc.Find("h1,h2,h3,h4,p,li,blockquote,pre").Each(func(i int, s *goquery.Selection) {
		// Skip containers whose text is already collected via children.
		if s.Children().Filter("p,li").Length() > 0 {
			return
		}
		text := normalizeWhitespace(s.Text())
		if text == "" || len(text) > maxLineLength {
			return
		}
		paragraphs = append(paragraphs, text)
	})
	return paragraphs
}

// fallbackParagraphs splits flat text into paragraphs on line boundaries,
// applying the same normalization and long-line guard.
func fallbackParagraphs(text string) []string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		line = normalizeWhitespace(line)
		if line == "" || len(line) > maxLineLength {
			continue
		}
		paragraphs = append(paragraphs, line)
	}
	return paragraphs
}

// normalizeWhitespace collapses runs of whitespace to single spaces and
// trims the edges.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
