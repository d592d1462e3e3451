package records

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-web-summarizer/models"
	"github.com/dtnitsch/llm-web-summarizer/pkg/store"
	"github.com/urfave/cli/v2"
)

// openStore resolves the data directory from config and opens the
// summary store. History and read commands never need API credentials.
func openStore(c *cli.Context) (*store.Store, error) {
	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s, err := store.Open(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary store: %w", err)
	}
	return s, nil
}

// selector returns the single --url or --id value a record command
// operates on. Exactly one of the two flags must be set.
func selector(c *cli.Context) (url, id string, err error) {
	url = c.String("url")
	id = c.String("id")
	switch {
	case url == "" && id == "":
		return "", "", fmt.Errorf("either --url or --id is required")
	case url != "" && id != "":
		return "", "", fmt.Errorf("--url and --id are mutually exclusive")
	}
	return url, id, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// HistoryAction lists stored summaries, newest first.
func HistoryAction(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	summaries, err := s.List(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list summaries: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No summaries found")
		return nil
	}

	fmt.Printf("%-24s %-20s %-10s %s\n", "ID", "Created", "Language", "URL")
	fmt.Println(strings.Repeat("-", 100))
	for _, record := range summaries {
		language := record.Language
		if language == "" {
			language = "-"
		}
		fmt.Printf("%-24s %-20s %-10s %s\n", record.ID, record.Timestamp, language, record.URL)
		if preview := truncate(record.Preview, 100); preview != "" {
			fmt.Printf("    %s\n", preview)
		}
	}
	fmt.Printf("\nTotal: %d summaries\n", len(summaries))

	return nil
}

// ReadAction prints one stored summary in full.
func ReadAction(c *cli.Context) error {
	url, id, err := selector(c)
	if err != nil {
		return err
	}

	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	var record *models.SummaryRecord
	if url != "" {
		record, err = s.GetByURL(url)
	} else {
		record, err = s.GetByID(id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no summary found, run 'summarize' first")
	}
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	fmt.Printf("URL:     %s\n", record.URL)
	fmt.Printf("ID:      %s\n", record.ID)
	fmt.Printf("Created: %s\n", record.Timestamp)
	if record.Language != "" {
		fmt.Printf("Language: %s\n", record.Language)
	}
	fmt.Println()
	fmt.Println(record.Content)

	return nil
}

// DeleteAction removes one stored summary and its content file.
func DeleteAction(c *cli.Context) error {
	url, id, err := selector(c)
	if err != nil {
		return err
	}

	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if url != "" {
		err = s.DeleteByURL(url)
	} else {
		err = s.DeleteByID(id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no summary found to delete")
	}
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}

	fmt.Println("Summary deleted")
	return nil
}
