package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/breakroster/internal/share"
)

const shareColumns = `id, email, name, permission, token, url, created_at, expires_at,
	access_count, last_accessed, active`

func (d *Database) InsertShare(ctx context.Context, l share.Link) error {
	var last sql.NullString
	if l.LastAccessed != nil {
		last = sql.NullString{String: l.LastAccessed.UTC().Format(timestampLayout), Valid: true}
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO share_links (`+shareColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Email, l.Name, string(l.Permission), l.Token, l.URL,
		l.CreatedAt.UTC().Format(timestampLayout), l.ExpiresAt.UTC().Format(timestampLayout),
		l.AccessCount, last, l.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share link: %w", err)
	}
	return nil
}

// UpdateShare persists access tracking and revocation for l.
func (d *Database) UpdateShare(ctx context.Context, l share.Link) error {
	var last sql.NullString
	if l.LastAccessed != nil {
		last = sql.NullString{String: l.LastAccessed.UTC().Format(timestampLayout), Valid: true}
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE share_links SET access_count = ?, last_accessed = ?, active = ? WHERE id = ?`,
		l.AccessCount, last, l.Active, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share link: %w", err)
	}
	return requireRow(res, "share link", l.ID)
}

func scanShare(s scanner) (share.Link, error) {
	var l share.Link
	var perm, created, expires string
	var last sql.NullString
	if err := s.Scan(&l.ID, &l.Email, &l.Name, &perm, &l.Token, &l.URL, &created, &expires,
		&l.AccessCount, &last, &l.Active); err != nil {
		return l, err
	}
	l.Permission = share.Permission(perm)

	var err error
	if l.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
		return l, fmt.Errorf("share link %s: %w", l.ID, err)
	}
	if l.ExpiresAt, err = time.Parse(timestampLayout, expires); err != nil {
		return l, fmt.Errorf("share link %s: %w", l.ID, err)
	}
	if last.Valid {
		t, err := time.Parse(timestampLayout, last.String)
		if err != nil {
			return l, fmt.Errorf("share link %s: %w", l.ID, err)
		}
		l.LastAccessed = &t
	}
	return l, nil
}

// FindShare looks a link up by id or token.
func (d *Database) FindShare(ctx context.Context, idOrToken string) (share.Link, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+shareColumns+` FROM share_links WHERE id = ? OR token = ?`, idOrToken, idOrToken)
	l, err := scanShare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("share link %s: %w", idOrToken, ErrNotFound)
	}
	if err != nil {
		return l, fmt.Errorf("failed to read share link: %w", err)
	}
	return l, nil
}

// ListShares returns every link, newest first.
func (d *Database) ListShares(ctx context.Context) ([]share.Link, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+shareColumns+` FROM share_links ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list share links: %w", err)
	}
	defer rows.Close()

	var links []share.Link
	for rows.Next() {
		l, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
