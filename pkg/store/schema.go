package store

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Summary index: one row per URL, content stored on disk next to the db.
-- summary_id stays stable when a URL is re-summarized.
CREATE TABLE IF NOT EXISTS summaries (
    url TEXT PRIMARY KEY,
    summary_id TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL,
    created_at_unix REAL NOT NULL,
    preview TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    content_path TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_summaries_created ON summaries(created_at_unix DESC);
`
