package sqlite

import (
	"database/sql"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/domain"
)

// ─── Gamify Key-Value (domain.StateStore) ───────────────────────────────────

// SetState stores a gamify key-value pair.
func (d *DB) SetState(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO gamify (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetState retrieves a gamify value by key. Returns "" if key not found.
func (d *DB) GetState(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM gamify WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?)`,
		string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountSince returns how many notifications were created at or
// after the given time.
func (d *DB) NotificationCountSince(since time.Time) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE created_at >= ?`, since.Unix(),
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns unshown notifications, newest first.
func (d *DB) ListPendingNotifications(limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, type, title, body, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}

// ─── Leaf Ledger ────────────────────────────────────────────────────────────

// InsertLeafEntry appends one side of a double-entry pair to the leaf ledger.
func (d *DB) InsertLeafEntry(e domain.LeafEntry) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO leaf_ledger (timestamp, type, entry_type, account, amount, ref_id, description, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.Unix(), string(e.Type), string(e.EntryType),
		e.Account, e.Amount, e.RefID, e.Description, e.Balance,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// LeafBalance returns the running balance of an account, 0 if it has no
// entries yet.
func (d *DB) LeafBalance(account string) (int64, error) {
	var balance int64
	err := d.db.QueryRow(
		`SELECT balance FROM leaf_ledger WHERE account = ? ORDER BY id DESC LIMIT 1`,
		account,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return balance, err
}

// LeafEntries returns recent ledger entries for an account, newest first.
func (d *DB) LeafEntries(account string, limit int) ([]domain.LeafEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, type, entry_type, account, amount, ref_id, description, balance
		 FROM leaf_ledger WHERE account = ? ORDER BY id DESC LIMIT ?`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeafEntry
	for rows.Next() {
		var e domain.LeafEntry
		var ts int64
		var refID, desc sql.NullString
		if err := rows.Scan(&e.ID, &ts, &e.Type, &e.EntryType, &e.Account,
			&e.Amount, &refID, &desc, &e.Balance); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		e.RefID = refID.String
		e.Description = desc.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
