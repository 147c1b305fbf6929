package memory

import (
	"context"
	"sync"

	"solo-quiz-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore. Update holds the
// write lock for the whole read-modify-write, so attempts are never lost to a
// concurrent writer.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.UserRecord
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, record domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[record.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.byID[record.ID] = cloneRecord(record)
	s.byEmail[record.Email] = record.ID
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byID[id]
	if !ok {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	return cloneRecord(record), nil
}

func (s *UserStore) FindByCredentials(_ context.Context, email, password string) (domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	record := s.byID[id]
	if record.Password != password {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	return cloneRecord(record), nil
}

func (s *UserStore) Update(_ context.Context, id string, fn func(domain.UserRecord) (domain.UserRecord, error)) (domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.byID[id]
	if !ok {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	updated, err := fn(cloneRecord(record))
	if err != nil {
		return domain.UserRecord{}, err
	}
	s.byID[id] = cloneRecord(updated)
	return updated, nil
}

// cloneRecord keeps callers from aliasing the stored history slice.
func cloneRecord(record domain.UserRecord) domain.UserRecord {
	history := make([]domain.AttemptRecord, len(record.History))
	copy(history, record.History)
	record.History = history
	return record
}
