package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventory-console/internal/repository"
)

const createCredentialsTable = `
CREATE TABLE IF NOT EXISTS credentials (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) repository.CredentialStore {
	return &CredentialStore{db: db}
}

func (s *CredentialStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCredentialsTable); err != nil {
		return fmt.Errorf("create credentials table: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (repository.CredentialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name, value
FROM credentials
WHERE name IN (?, ?)`,
		repository.KeyToken,
		repository.KeyUserName,
	)
	if err != nil {
		return repository.CredentialRecord{}, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var record repository.CredentialRecord
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return repository.CredentialRecord{}, fmt.Errorf("scan credential: %w", err)
		}
		switch name {
		case repository.KeyToken:
			record.Token = value
		case repository.KeyUserName:
			record.UserName = value
		}
	}
	if err := rows.Err(); err != nil {
		return repository.CredentialRecord{}, fmt.Errorf("iterate credentials: %w", err)
	}
	return record, nil
}

func (s *CredentialStore) Save(ctx context.Context, record repository.CredentialRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credentials tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, kv := range [][2]string{
		{repository.KeyToken, record.Token},
		{repository.KeyUserName, record.UserName},
	} {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO credentials (name, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			kv[0],
			kv[1],
			now,
		); err != nil {
			return fmt.Errorf("upsert credential %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
DELETE FROM credentials
WHERE name IN (?, ?)`,
		repository.KeyToken,
		repository.KeyUserName,
	); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
