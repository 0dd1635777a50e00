package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
)

// Item operations

// InsertItem inserts a new item and sets item.ID. Status defaults to active.
func (s *Store) InsertItem(ctx context.Context, item *Item) error {
	if item.UserID == "" || item.Name == "" {
		return errors.New("item user and name are required")
	}
	if item.CreatedAt.IsZero() {
		return errors.New("item created_at is required")
	}
	if item.Status == "" {
		item.Status = analyzer.StatusActive
	}
	if !item.Status.IsValid() {
		return fmt.Errorf("invalid status %q", item.Status)
	}
	for _, tag := range item.SeasonTags {
		if !tag.IsValid() {
			return fmt.Errorf("invalid season tag %q", tag)
		}
	}

	tags := item.SeasonTags
	if tags == nil {
		tags = []analyzer.Season{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal season tags: %w", err)
	}

	query := `
		INSERT INTO items
		(user_id, name, is_favorite, status, status_updated_at, season_tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		item.UserID,
		item.Name,
		item.IsFavorite,
		string(item.Status),
		nullTime(item.StatusUpdatedAt),
		string(tagsJSON),
		formatTime(item.CreatedAt),
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to insert item %q", item.Name), err)
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read item id: %w", err)
	}
	return nil
}

const itemColumns = `item_id, user_id, name, is_favorite, status, status_updated_at, season_tag, created_at`

// GetItem retrieves one of the user's items by id.
func (s *Store) GetItem(ctx context.Context, userID string, itemID int64) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = ? AND user_id = ?`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, itemID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
	}
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get item %d", itemID), err)
	}
	return item, nil
}

// ListItems returns the user's items ordered by id. Deleted items are
// included only when includeDeleted is set.
func (s *Store) ListItems(ctx context.Context, userID string, includeDeleted bool) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = ?`
	if !includeDeleted {
		query += ` AND status <> 'deleted'`
	}
	query += ` ORDER BY item_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapErr("failed to list items", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// DeleteItem soft-deletes an item by moving it to the deleted status. Its
// usage history is kept.
func (s *Store) DeleteItem(ctx context.Context, userID string, itemID int64, now time.Time) error {
	deleted := analyzer.StatusDeleted
	return s.UpdateItem(ctx, userID, itemID, lifecycle.Patch{Status: &deleted, StatusUpdatedAt: &now})
}

// Lifecycle operations

// GetItemState returns the lifecycle fields of one of the user's items.
func (s *Store) GetItemState(ctx context.Context, userID string, itemID int64) (lifecycle.ItemState, error) {
	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return lifecycle.ItemState{}, err
	}
	return lifecycle.ItemState{
		Status:          item.Status,
		StatusUpdatedAt: item.StatusUpdatedAt,
		IsFavorite:      item.IsFavorite,
	}, nil
}

// UpdateItem applies a partial update to one of the user's items.
func (s *Store) UpdateItem(ctx context.Context, userID string, itemID int64, patch lifecycle.Patch) error {
	var sets []string
	var args []any

	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.StatusUpdatedAt != nil {
		sets = append(sets, "status_updated_at = ?")
		args = append(args, formatTime(*patch.StatusUpdatedAt))
	}
	if patch.IsFavorite != nil {
		sets = append(sets, "is_favorite = ?")
		args = append(args, *patch.IsFavorite)
	}
	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE items SET ` + strings.Join(sets, ", ") + ` WHERE item_id = ? AND user_id = ?`
	args = append(args, itemID, userID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update item %d", itemID), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
	}
	return nil
}

// Usage operations

// InsertUsageEvent records that the user used the item at usedAt and
// returns the event id. The item must belong to the user.
func (s *Store) InsertUsageEvent(ctx context.Context, userID string, itemID int64, usedAt time.Time) (int64, error) {
	query := `
		INSERT INTO usage_history (item_id, user_id, used_at)
		SELECT item_id, user_id, ? FROM items WHERE item_id = ? AND user_id = ?
	`

	res, err := s.db.ExecContext(ctx, query, formatTime(usedAt), itemID, userID)
	if err != nil {
		return 0, wrapErr(fmt.Sprintf("failed to insert usage event for item %d", itemID), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
	}

	return res.LastInsertId()
}

// ListUsageEvents returns the usage events of one item, newest first.
func (s *Store) ListUsageEvents(ctx context.Context, userID string, itemID int64) ([]*UsageEvent, error) {
	query := `
		SELECT history_id, item_id, user_id, used_at
		FROM usage_history
		WHERE item_id = ? AND user_id = ?
		ORDER BY used_at DESC, history_id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, itemID, userID)
	if err != nil {
		return nil, wrapErr("failed to list usage events", err)
	}
	defer rows.Close()

	var events []*UsageEvent
	for rows.Next() {
		var event UsageEvent
		var usedAt string
		if err := rows.Scan(&event.ID, &event.ItemID, &event.UserID, &usedAt); err != nil {
			return nil, fmt.Errorf("failed to scan usage event: %w", err)
		}
		event.UsedAt, err = time.Parse(time.RFC3339, usedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse used_at: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage events: %w", err)
	}

	return events, nil
}

// GetStats summarises the user's items and usage.
func (s *Store) GetStats(ctx context.Context, userID string) (*Stats, error) {
	var st Stats

	rows, err := s.db.QueryContext(ctx, `SELECT status, is_favorite, COUNT(*) FROM items WHERE user_id = ? GROUP BY status, is_favorite`, userID)
	if err != nil {
		return nil, wrapErr("failed to count items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var favorite bool
		var n int
		if err := rows.Scan(&status, &favorite, &n); err != nil {
			return nil, fmt.Errorf("failed to scan item counts: %w", err)
		}
		st.Items += n
		switch analyzer.Status(status) {
		case analyzer.StatusActive:
			st.Active += n
		case analyzer.StatusPending:
			st.Pending += n
		case analyzer.StatusDiscard:
			st.Discard += n
		case analyzer.StatusDeleted:
			st.Deleted += n
		}
		if favorite {
			st.Favorites += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item counts: %w", err)
	}

	var first, last sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(used_at), MAX(used_at) FROM usage_history WHERE user_id = ?`, userID,
	).Scan(&st.UsageEvents, &first, &last)
	if err != nil {
		return nil, wrapErr("failed to count usage events", err)
	}

	if st.FirstUsage, err = parseNullTime(first); err != nil {
		return nil, err
	}
	if st.LastUsage, err = parseNullTime(last); err != nil {
		return nil, err
	}

	return &st, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var status, tagsJSON, createdAt string
	var statusUpdatedAt sql.NullString

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.IsFavorite,
		&status,
		&statusUpdatedAt,
		&tagsJSON,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	item.Status = analyzer.Status(status)

	if err := json.Unmarshal([]byte(tagsJSON), &item.SeasonTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal season tags for item %d: %w", item.ID, err)
	}

	item.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for item %d: %w", item.ID, err)
	}

	item.StatusUpdatedAt, err = parseNullTime(statusUpdatedAt)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp %q: %w", ns.String, err)
	}
	return &t, nil
}
