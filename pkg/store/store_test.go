package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetByURL(t *testing.T) {
	s := setupTestStore(t)

	id, err := s.Save("https://example.com/a", "summary content here", "English")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Save() returned empty ID")
	}

	record, err := s.GetByURL("https://example.com/a")
	if err != nil {
		t.Fatalf("GetByURL() failed: %v", err)
	}
	if record.ID != id {
		t.Errorf("record ID = %q, want %q", record.ID, id)
	}
	if record.Content != "summary content here" {
		t.Errorf("record content = %q", record.Content)
	}
	if record.Language != "English" {
		t.Errorf("record language = %q", record.Language)
	}
	if record.Timestamp == "" || record.TimestampUnix == 0 {
		t.Error("record timestamps not populated")
	}
}

func TestSaveUpsertKeepsID(t *testing.T) {
	s := setupTestStore(t)
	url := "https://example.com/updated"

	firstID, err := s.Save(url, "first version", "")
	if err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}
	secondID, err := s.Save(url, "second version", "")
	if err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}
	if secondID != firstID {
		t.Errorf("re-save changed ID: %q -> %q", firstID, secondID)
	}

	record, err := s.GetByURL(url)
	if err != nil {
		t.Fatalf("GetByURL() failed: %v", err)
	}
	if record.Content != "second version" {
		t.Errorf("content after upsert = %q, want the second version", record.Content)
	}

	// Still exactly one record for the URL.
	records, err := s.List(10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List() after upsert = %d records, want 1", len(records))
	}
}

func TestGetByIDIsTypeTagged(t *testing.T) {
	s := setupTestStore(t)

	id, err := s.Save("https://example.com/tagged", "content", "")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	record, err := s.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if record.URL != "https://example.com/tagged" {
		t.Errorf("record URL = %q", record.URL)
	}

	// A URL passed to GetByID must not resolve, and vice versa.
	if _, err := s.GetByID("https://example.com/tagged"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(url) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByURL(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByURL(id) error = %v, want ErrNotFound", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetByURL("https://example.com/absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByURL() error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	for _, url := range urls {
		if _, err := s.Save(url, "content for "+url, ""); err != nil {
			t.Fatalf("Save(%s) failed: %v", url, err)
		}
	}

	records, err := s.List(10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List() = %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].TimestampUnix > records[i-1].TimestampUnix {
			t.Errorf("List() not sorted newest first at index %d", i)
		}
	}

	limited, err := s.List(2)
	if err != nil {
		t.Fatalf("List(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) = %d records, want 2", len(limited))
	}
}

func TestListOmitsContent(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.Save("https://example.com/big", strings.Repeat("long content ", 100), ""); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	records, err := s.List(10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if records[0].Content != "" {
		t.Error("List() records carry content bodies")
	}
	if records[0].Preview == "" {
		t.Error("List() records missing preview")
	}
}

func TestPreviewFlattened(t *testing.T) {
	s := setupTestStore(t)
	content := "line one\nline two\n" + strings.Repeat("x", 300)
	if _, err := s.Save("https://example.com/preview", content, ""); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	record, err := s.GetByURL("https://example.com/preview")
	if err != nil {
		t.Fatalf("GetByURL() failed: %v", err)
	}
	if strings.Contains(record.Preview, "\n") {
		t.Error("preview contains newlines")
	}
	if got := len([]rune(record.Preview)); got > 200 {
		t.Errorf("preview length = %d runes, want at most 200", got)
	}
}

func TestDeleteByURLAndByID(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Save("https://example.com/by-url", "content", ""); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	id, err := s.Save("https://example.com/by-id", "content", "")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := s.DeleteByURL("https://example.com/by-url"); err != nil {
		t.Fatalf("DeleteByURL() failed: %v", err)
	}
	if _, err := s.GetByURL("https://example.com/by-url"); !errors.Is(err, ErrNotFound) {
		t.Error("record still present after DeleteByURL()")
	}

	if err := s.DeleteByID(id); err != nil {
		t.Fatalf("DeleteByID() failed: %v", err)
	}
	if _, err := s.GetByID(id); !errors.Is(err, ErrNotFound) {
		t.Error("record still present after DeleteByID()")
	}

	// Content files are removed with their records.
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".txt" {
			t.Errorf("orphaned content file %s after delete", entry.Name())
		}
	}
}

func TestDeleteMissing(t *testing.T) {
	s := setupTestStore(t)
	if err := s.DeleteByURL("https://example.com/nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteByURL() error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteByID() error = %v, want ErrNotFound", err)
	}
}
