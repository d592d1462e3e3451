package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// markdownLinkPattern extracts the URL from a pasted markdown link:
// "[text](https://example.com)" -> "https://example.com".
var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste
// issues: surrounding whitespace, markdown artifacts and trailing
// punctuation.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL checks that rawURL is a fetchable http(s) URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL is empty")
	}
	if strings.Contains(rawURL, " ") {
		return fmt.Errorf("URL contains spaces: %s", rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q in %s", parsed.Scheme, rawURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL has no host: %s", rawURL)
	}
	if strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return fmt.Errorf("malformed host in URL: %s", rawURL)
	}
	return nil
}
