// Package redis keeps the console credentials in a shared redis instance.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"inventory-console/internal/repository"
)

type CredentialStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewCredentialStore stores the credential keys under prefix.
func NewCredentialStore(rdb redis.UniversalClient, prefix string) repository.CredentialStore {
	return &CredentialStore{rdb: rdb, prefix: prefix}
}

func (s *CredentialStore) tokenKey() string    { return s.prefix + repository.KeyToken }
func (s *CredentialStore) userNameKey() string { return s.prefix + repository.KeyUserName }

func (s *CredentialStore) Init(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (repository.CredentialRecord, error) {
	values, err := s.rdb.MGet(ctx, s.tokenKey(), s.userNameKey()).Result()
	if err != nil {
		return repository.CredentialRecord{}, fmt.Errorf("mget credentials: %w", err)
	}

	var record repository.CredentialRecord
	if len(values) == 2 {
		record.Token, _ = values[0].(string)
		record.UserName, _ = values[1].(string)
	}
	return record, nil
}

func (s *CredentialStore) Save(ctx context.Context, record repository.CredentialRecord) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), record.Token, 0)
		pipe.Set(ctx, s.userNameKey(), record.UserName, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.tokenKey(), s.userNameKey()).Err(); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
