package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"golang.org/x/oauth2"
)

// ErrNotFound is returned when no stored token exists for an account.
var ErrNotFound = fmt.Errorf("token not found")

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// TokenStore persists OAuth tokens per (provider, email) in Postgres.
type TokenStore struct{ db *sql.DB }

// NewTokenStore creates a Postgres-backed token store.
func NewTokenStore(db *sql.DB) *TokenStore { return &TokenStore{db: db} }

// EnsureSchema creates the token table when missing.
func (s *TokenStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS oauth_tokens (
			provider   TEXT NOT NULL,
			email      TEXT NOT NULL,
			token      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (provider, email)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure token schema: %w", err)
	}
	return nil
}

// Save upserts the token for an account.
func (s *TokenStore) Save(ctx context.Context, provider, email string, token *oauth2.Token) error {
	blob, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO oauth_tokens (provider, email, token, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (provider, email) DO UPDATE SET token = $3, updated_at = NOW()
	`, provider, email, blob)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the stored token for an account.
func (s *TokenStore) Load(ctx context.Context, provider, email string) (*oauth2.Token, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM oauth_tokens WHERE provider = $1 AND email = $2`,
		provider, email,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(blob, &token); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &token, nil
}

// Delete removes the stored token for an account.
func (s *TokenStore) Delete(ctx context.Context, provider, email string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM oauth_tokens WHERE provider = $1 AND email = $2`,
		provider, email,
	)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAccounts returns the emails with a stored token for a provider.
func (s *TokenStore) ListAccounts(ctx context.Context, provider string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email FROM oauth_tokens WHERE provider = $1 ORDER BY email`,
		provider,
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
