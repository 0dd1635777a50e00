package store

// Timestamps are stored as RFC3339 strings in UTC. season_tag is a JSON
// array of season labels.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    is_favorite BOOLEAN NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'active',
    status_updated_at TIMESTAMP,
    season_tag TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS usage_history (
    history_id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    used_at TIMESTAMP NOT NULL,
    FOREIGN KEY (item_id) REFERENCES items(item_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id);
CREATE INDEX IF NOT EXISTS idx_usage_item ON usage_history(item_id);
CREATE INDEX IF NOT EXISTS idx_usage_used_at ON usage_history(used_at);
`
