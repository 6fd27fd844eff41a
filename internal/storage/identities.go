package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// IdentityLookup resolves card names to color identities.
type IdentityLookup interface {
	LookupColorIdentities(ctx context.Context, names []string) map[string][]string
}

// IdentityCache keeps lowercased card name to color identity mappings and
// fills misses from an upstream lookup.
type IdentityCache struct {
	db       *DB
	upstream IdentityLookup
	maxAge   time.Duration
}

// NewIdentityCache creates a cache in front of upstream. Entries older than
// maxAge are refetched; zero keeps entries forever.
func NewIdentityCache(db *DB, upstream IdentityLookup, maxAge time.Duration) *IdentityCache {
	return &IdentityCache{db: db, upstream: upstream, maxAge: maxAge}
}

// LookupColorIdentities returns identities for names, keyed by lowercased
// name. Cache failures degrade to an upstream lookup.
func (c *IdentityCache) LookupColorIdentities(ctx context.Context, names []string) map[string][]string {
	result := make(map[string][]string, len(names))

	cached, err := c.Get(ctx, names)
	if err == nil {
		for k, v := range cached {
			result[k] = v
		}
	}

	var missing []string
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := result[key]; ok || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, name)
	}
	if len(missing) == 0 || c.upstream == nil {
		return result
	}

	fetched := c.upstream.LookupColorIdentities(ctx, missing)
	for k, v := range fetched {
		result[k] = v
	}
	_ = c.Put(ctx, fetched)

	return result
}

// Get returns the fresh cached identities among names.
func (c *IdentityCache) Get(ctx context.Context, names []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(names) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for i, name := range names {
		placeholders[i] = "?"
		args = append(args, strings.ToLower(name))
	}

	query := fmt.Sprintf(`SELECT name, color_identity FROM card_identities WHERE name IN (%s)`,
		strings.Join(placeholders, ","))
	if c.maxAge > 0 {
		query += ` AND updated_at >= ?`
		args = append(args, time.Now().Add(-c.maxAge).UTC())
	}

	rows, err := c.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query card identities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, identity string
		if err := rows.Scan(&name, &identity); err != nil {
			return nil, fmt.Errorf("failed to scan card identity: %w", err)
		}
		result[name] = splitIdentity(identity)
	}

	return result, rows.Err()
}

// Put stores identities keyed by name.
func (c *IdentityCache) Put(ctx context.Context, identities map[string][]string) error {
	if len(identities) == 0 {
		return nil
	}

	tx, err := c.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO card_identities (name, color_identity, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			color_identity = excluded.color_identity,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for name, identity := range identities {
		if _, err := stmt.ExecContext(ctx, strings.ToLower(name), strings.Join(identity, ","), now); err != nil {
			return fmt.Errorf("failed to upsert identity for %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func splitIdentity(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
