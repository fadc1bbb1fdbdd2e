package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Credential is the admin token saved for one API base.
type Credential struct {
	APIBase   string
	Token     string
	UpdatedAt time.Time
}

// CredentialStore persists admin tokens keyed by API base so CLI commands can
// reuse a token between runs.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Get returns the credential for apiBase, or nil when none is saved.
func (s *CredentialStore) Get(ctx context.Context, apiBase string) (*Credential, error) {
	c := &Credential{}
	err := s.db.QueryRowContext(ctx, `
		SELECT api_base, token, updated_at FROM credentials WHERE api_base = ?
	`, apiBase).Scan(&c.APIBase, &c.Token, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return c, nil
}

// Token returns the saved token for apiBase, or "" when none is saved.
func (s *CredentialStore) Token(ctx context.Context, apiBase string) (string, error) {
	c, err := s.Get(ctx, apiBase)
	if err != nil || c == nil {
		return "", err
	}
	return c.Token, nil
}

// Put saves token for apiBase, replacing any previous one.
func (s *CredentialStore) Put(ctx context.Context, apiBase, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (api_base, token, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(api_base) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`, apiBase, token)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Delete forgets the token for apiBase. Deleting a missing credential is not
// an error.
func (s *CredentialStore) Delete(ctx context.Context, apiBase string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM credentials WHERE api_base = ?
	`, apiBase); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// List returns every saved credential ordered by API base.
func (s *CredentialStore) List(ctx context.Context) ([]*Credential, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT api_base, token, updated_at FROM credentials ORDER BY api_base ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*Credential
	for rows.Next() {
		c := &Credential{}
		if err := rows.Scan(&c.APIBase, &c.Token, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}

	return creds, nil
}
