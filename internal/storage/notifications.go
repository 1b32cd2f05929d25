package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/breakroster/internal/alerts"
)

// SaveNotifications replaces the stored feed with ns, keeping their order.
func (d *Database) SaveNotifications(ctx context.Context, ns []alerts.Notification) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notifications`); err != nil {
			return fmt.Errorf("failed to clear notifications: %w", err)
		}
		for i, n := range ns {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO notifications (id, position, severity, title, message, timestamp, acknowledged)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				n.ID, i, string(n.Severity), n.Title, n.Message,
				n.Timestamp.UTC().Format(timestampLayout), n.Acknowledged,
			); err != nil {
				return fmt.Errorf("failed to insert notification: %w", err)
			}
		}
		return nil
	})
}

func (d *Database) LoadNotifications(ctx context.Context) ([]alerts.Notification, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, severity, title, message, timestamp, acknowledged FROM notifications ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	defer rows.Close()

	var ns []alerts.Notification
	for rows.Next() {
		var n alerts.Notification
		var sev, ts string
		if err := rows.Scan(&n.ID, &sev, &n.Title, &n.Message, &ts, &n.Acknowledged); err != nil {
			return nil, err
		}
		n.Severity = alerts.Severity(sev)
		if n.Timestamp, err = time.Parse(timestampLayout, ts); err != nil {
			return nil, fmt.Errorf("notification %s: %w", n.ID, err)
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}
