package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"solo-quiz-service/internal/domain"
)

// CatalogRepository loads question catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// UserStore abstracts how account records are persisted (in-memory, Redis,
// SQLite). Update must apply fn as an atomic read-modify-write against the
// store so a concurrent second writer cannot lose an attempt.
type UserStore interface {
	Create(ctx context.Context, record domain.UserRecord) error
	FindByID(ctx context.Context, id string) (domain.UserRecord, error)
	FindByCredentials(ctx context.Context, email, password string) (domain.UserRecord, error)
	Update(ctx context.Context, id string, fn func(domain.UserRecord) (domain.UserRecord, error)) (domain.UserRecord, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	catalogs CatalogRepository
	users    UserStore
	now      func() time.Time
}

func NewQuizService(catalogs CatalogRepository, users UserStore) *QuizService {
	return NewQuizServiceWithClock(catalogs, users, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(catalogs CatalogRepository, users UserStore, now func() time.Time) *QuizService {
	return &QuizService{catalogs: catalogs, users: users, now: now}
}

// Register creates a new account with zeroed scores and empty history.
func (s *QuizService) Register(ctx context.Context, name, email, password string) (domain.UserRecord, error) {
	record := domain.UserRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: s.now(),
	}
	if err := s.users.Create(ctx, record); err != nil {
		return domain.UserRecord{}, err
	}
	return record, nil
}

// Login verifies credentials against the store.
func (s *QuizService) Login(ctx context.Context, email, password string) (domain.UserRecord, error) {
	record, err := s.users.FindByCredentials(ctx, email, password)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserRecord{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.UserRecord{}, err
	}
	return record, nil
}

// StartQuiz loads the catalog and begins a fresh session over its questions.
func (s *QuizService) StartQuiz(ctx context.Context, catalogID string) (*Session, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	return StartSessionWithClock(catalog.Questions, s.now)
}

// FinishQuiz computes the result of a completed session and merges it into
// the user's record via an atomic store update. An empty userID skips
// persistence (anonymous play). The session itself is never persisted; an
// abandoned session leaves no trace in the store.
func (s *QuizService) FinishQuiz(ctx context.Context, userID string, session *Session) (domain.Result, domain.UserRecord, error) {
	result, err := ComputeResult(session)
	if err != nil {
		return domain.Result{}, domain.UserRecord{}, err
	}
	if userID == "" {
		return result, domain.UserRecord{}, nil
	}
	record, err := s.users.Update(ctx, userID, func(record domain.UserRecord) (domain.UserRecord, error) {
		return ApplyAttempt(record, result.Score, s.now())
	})
	if err != nil {
		return domain.Result{}, domain.UserRecord{}, err
	}
	return result, record, nil
}

// Profile returns the stored record for a user.
func (s *QuizService) Profile(ctx context.Context, userID string) (domain.UserRecord, error) {
	return s.users.FindByID(ctx, userID)
}
