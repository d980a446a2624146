package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luizdk/shortener/internal/shortener"
)

// pgUniqueViolation is the Postgres error code signalling a uniqueness
// constraint violation on short_code.
const pgUniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed record store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Insert(ctx context.Context, record *shortener.Record) error {
	query := `
		INSERT INTO short_urls (short_code, original_url, owner_id, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		string(record.Code),
		record.OriginalURL,
		nullableString(record.OwnerID),
		record.CreatedAt,
		record.UpdatedAt,
		record.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return &shortener.ShortCodeConflictError{Code: record.Code}
		}

		return fmt.Errorf("insert short url: %w", err)
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Record, error) {
	query := `
		SELECT short_code, original_url, owner_id, created_at, updated_at,
		       expires_at, clicks, last_accessed_at
		FROM short_urls
		WHERE short_code = $1
	`

	return p.scanRecord(p.pool.QueryRow(ctx, query, string(code)))
}

func (p *PostgresStore) FindMatch(
	ctx context.Context, normalizedURL string, expiring bool, ownerID string,
) (*shortener.Record, error) {
	// Expiry classes are partitioned by expires_at nullability; the newest
	// record wins so a fresh mapping shades an expired predecessor.
	expiryClause := "expires_at IS NULL"
	if expiring {
		expiryClause = "expires_at IS NOT NULL"
	}

	ownerClause := "owner_id IS NULL"
	args := []any{normalizedURL}

	if ownerID != "" {
		ownerClause = "owner_id = $2"
		args = append(args, ownerID)
	}

	query := fmt.Sprintf(`
		SELECT short_code, original_url, owner_id, created_at, updated_at,
		       expires_at, clicks, last_accessed_at
		FROM short_urls
		WHERE original_url = $1 AND %s AND %s
		ORDER BY created_at DESC
		LIMIT 1
	`, expiryClause, ownerClause)

	return p.scanRecord(p.pool.QueryRow(ctx, query, args...))
}

func (p *PostgresStore) RecordAccess(ctx context.Context, code shortener.Code, at time.Time) error {
	// The increment happens in the store, never read-modify-write in the
	// application, so concurrent accesses are not lost.
	query := `
		UPDATE short_urls
		SET clicks = clicks + 1, last_accessed_at = $2, updated_at = $2
		WHERE short_code = $1
	`

	tag, err := p.pool.Exec(ctx, query, string(code), at)
	if err != nil {
		return fmt.Errorf("record access: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM short_urls
		WHERE expires_at IS NOT NULL AND expires_at < $1
	`

	tag, err := p.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresStore) scanRecord(row pgx.Row) (*shortener.Record, error) {
	var (
		record  shortener.Record
		ownerID *string
	)

	err := row.Scan(
		&record.Code,
		&record.OriginalURL,
		&ownerID,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.ExpiresAt,
		&record.Clicks,
		&record.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	if ownerID != nil {
		record.OwnerID = *ownerID
	}

	return &record, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
