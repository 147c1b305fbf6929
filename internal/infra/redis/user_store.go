package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"solo-quiz-service/internal/domain"
)

// UserStore persists account records as JSON blobs in Redis.
// Layout:
//
//	quiz:user:{id}     -> UserRecord JSON
//	quiz:email:{email} -> id (uniqueness index for registration and login)
//
// Update runs as a WATCH/MULTI compare-and-swap: the record key is watched,
// the mutation is re-run against the fresh record whenever a concurrent
// writer commits first, so no attempt is ever lost to a read-then-write race.
type UserStore struct {
	client *redis.Client
}

// casAttempts bounds the optimistic retry loop in Update.
const casAttempts = 5

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) Create(ctx context.Context, record domain.UserRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	claimed, err := s.client.SetNX(ctx, s.emailKey(record.Email), record.ID, 0).Result()
	if err != nil {
		return storeErr(err)
	}
	if !claimed {
		return domain.ErrEmailTaken
	}
	if err := s.client.Set(ctx, s.userKey(record.ID), data, 0).Err(); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (domain.UserRecord, error) {
	data, err := s.client.Get(ctx, s.userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserRecord{}, storeErr(err)
	}
	var record domain.UserRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.UserRecord{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return record, nil
}

func (s *UserStore) FindByCredentials(ctx context.Context, email, password string) (domain.UserRecord, error) {
	id, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserRecord{}, storeErr(err)
	}
	record, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.UserRecord{}, err
	}
	if record.Password != password {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	return record, nil
}

func (s *UserStore) Update(ctx context.Context, id string, fn func(domain.UserRecord) (domain.UserRecord, error)) (domain.UserRecord, error) {
	key := s.userKey(id)
	var updated domain.UserRecord

	apply := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return storeErr(err)
		}
		var record domain.UserRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		next, err := fn(record)
		if err != nil {
			return err
		}
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		err := s.client.Watch(ctx, apply, key)
		if errors.Is(err, redis.TxFailedErr) {
			// another writer committed first; re-run against the fresh record
			continue
		}
		if err != nil {
			return domain.UserRecord{}, err
		}
		return updated, nil
	}
	return domain.UserRecord{}, fmt.Errorf("%w: update contention on user %s", domain.ErrStoreUnavailable, id)
}

func (s *UserStore) userKey(id string) string {
	return "quiz:user:" + id
}

func (s *UserStore) emailKey(email string) string {
	return "quiz:email:" + email
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
