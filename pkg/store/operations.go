package store

import (
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/llm-web-summarizer/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	previewLength   = 200
)

// newRecordID derives a fresh record ID: a URL hash prefix for a human
// hint, the creation time, and a random suffix to break collisions.
func newRecordID(url string) string {
	urlHash := fmt.Sprintf("%x", md5.Sum([]byte(url)))[:8]
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("%s-%d-%s", urlHash, time.Now().Unix(), random)
}

// makePreview flattens the first previewLength characters of content into a
// single line for listings.
func makePreview(content string) string {
	runes := []rune(content)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}

// Save upserts the summary for url. An existing record keeps its ID; the
// content file is overwritten in place. Returns the record ID.
func (s *Store) Save(url, content, language string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow("SELECT summary_id FROM summaries WHERE url = ?", url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		id = newRecordID(url)
	} else if err != nil {
		return "", fmt.Errorf("failed to check existing record: %w", err)
	}

	contentPath := s.contentPath(id)
	if err := os.WriteFile(contentPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary content: %w", err)
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO summaries (url, summary_id, created_at, created_at_unix, preview, language, content_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			created_at = excluded.created_at,
			created_at_unix = excluded.created_at_unix,
			preview = excluded.preview,
			language = excluded.language,
			content_path = excluded.content_path
	`, url, id, now.Format(timestampLayout), float64(now.UnixMilli())/1000, makePreview(content), language, contentPath)
	if err != nil {
		return "", fmt.Errorf("failed to upsert record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit record: %w", err)
	}
	return id, nil
}

// GetByURL returns the full record for url, including content.
func (s *Store) GetByURL(url string) (*models.SummaryRecord, error) {
	return s.getWhere("url = ?", url)
}

// GetByID returns the full record with the given ID. The lookup is
// explicitly by ID; an ID is never interpreted as a URL or vice versa.
func (s *Store) GetByID(id string) (*models.SummaryRecord, error) {
	return s.getWhere("summary_id = ?", id)
}

func (s *Store) getWhere(where string, arg string) (*models.SummaryRecord, error) {
	record := &models.SummaryRecord{}
	var contentPath string
	err := s.db.QueryRow(
		"SELECT summary_id, url, created_at, created_at_unix, preview, language, content_path FROM summaries WHERE "+where, arg,
	).Scan(&record.ID, &record.URL, &record.Timestamp, &record.TimestampUnix, &record.Preview, &record.Language, &contentPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	content, err := os.ReadFile(contentPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Index row without its content file is as good as absent.
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read summary content: %w", err)
	}
	record.Content = string(content)
	return record, nil
}

// List returns up to limit records, newest first, without content bodies.
func (s *Store) List(limit int) ([]models.SummaryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT summary_id, url, created_at, created_at_unix, preview, language
		FROM summaries
		ORDER BY created_at_unix DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []models.SummaryRecord
	for rows.Next() {
		var record models.SummaryRecord
		if err := rows.Scan(&record.ID, &record.URL, &record.Timestamp, &record.TimestampUnix, &record.Preview, &record.Language); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteByURL removes the record for url and its content file.
func (s *Store) DeleteByURL(url string) error {
	return s.deleteWhere("url = ?", url)
}

// DeleteByID removes the record with the given ID and its content file.
func (s *Store) DeleteByID(id string) error {
	return s.deleteWhere("summary_id = ?", id)
}

func (s *Store) deleteWhere(where string, arg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var contentPath string
	err = tx.QueryRow("SELECT content_path FROM summaries WHERE "+where, arg).Scan(&contentPath)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up record: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM summaries WHERE "+where, arg); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	if err := os.Remove(contentPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove summary content: %w", err)
	}
	return nil
}

func (s *Store) contentPath(id string) string {
	return filepath.Join(s.dir, id+".txt")
}
