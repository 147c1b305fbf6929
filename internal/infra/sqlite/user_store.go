package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"solo-quiz-service/internal/domain"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Open opens (or creates) the local database file and ensures the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			total_score INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL REFERENCES users(id),
			ts TIMESTAMP NOT NULL,
			points INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, id);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// UserStore is a SQLite-backed implementation of app.UserStore. The whole
// read-modify-write of Update runs inside one transaction; SQLite's
// single-writer locking serializes it against any second writer.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, record domain.UserRecord) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, record.Email).Scan(&exists)
	if err != nil {
		return storeErr(err)
	}
	if exists > 0 {
		return domain.ErrEmailTaken
	}

	query, args, err := sqlBuilder.
		Insert("users").
		Columns("id", "name", "email", "password", "created_at", "total_score", "best_score").
		Values(record.ID, record.Name, record.Email, record.Password, record.CreatedAt, record.TotalScore, record.BestScore).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (domain.UserRecord, error) {
	return s.findBy(ctx, s.db, squirrel.Eq{"id": id})
}

func (s *UserStore) FindByCredentials(ctx context.Context, email, password string) (domain.UserRecord, error) {
	record, err := s.findBy(ctx, s.db, squirrel.Eq{"email": email})
	if err != nil {
		return domain.UserRecord{}, err
	}
	if record.Password != password {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	return record, nil
}

func (s *UserStore) Update(ctx context.Context, id string, fn func(domain.UserRecord) (domain.UserRecord, error)) (domain.UserRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.UserRecord{}, storeErr(err)
	}
	defer tx.Rollback()

	record, err := s.findBy(ctx, tx, squirrel.Eq{"id": id})
	if err != nil {
		return domain.UserRecord{}, err
	}
	prior := len(record.History)

	updated, err := fn(record)
	if err != nil {
		return domain.UserRecord{}, err
	}

	query, args, err := sqlBuilder.
		Update("users").
		Set("name", updated.Name).
		Set("email", updated.Email).
		Set("password", updated.Password).
		Set("total_score", updated.TotalScore).
		Set("best_score", updated.BestScore).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.UserRecord{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.UserRecord{}, storeErr(err)
	}

	// attempts are append-only: persist only the entries fn added
	for _, attempt := range updated.History[prior:] {
		query, args, err := sqlBuilder.
			Insert("attempts").
			Columns("user_id", "ts", "points").
			Values(id, attempt.Timestamp, attempt.Points).
			ToSql()
		if err != nil {
			return domain.UserRecord{}, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return domain.UserRecord{}, storeErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.UserRecord{}, storeErr(err)
	}
	return updated, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *UserStore) findBy(ctx context.Context, q querier, pred squirrel.Eq) (domain.UserRecord, error) {
	query, args, err := sqlBuilder.
		Select("id", "name", "email", "password", "created_at", "total_score", "best_score").
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return domain.UserRecord{}, err
	}

	var record domain.UserRecord
	err = q.QueryRowContext(ctx, query, args...).
		Scan(&record.ID, &record.Name, &record.Email, &record.Password, &record.CreatedAt, &record.TotalScore, &record.BestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserRecord{}, storeErr(err)
	}

	record.History, err = s.loadHistory(ctx, q, record.ID)
	if err != nil {
		return domain.UserRecord{}, err
	}
	return record, nil
}

func (s *UserStore) loadHistory(ctx context.Context, q querier, userID string) ([]domain.AttemptRecord, error) {
	query, args, err := sqlBuilder.
		Select("ts", "points").
		From("attempts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var history []domain.AttemptRecord
	for rows.Next() {
		var attempt domain.AttemptRecord
		if err := rows.Scan(&attempt.Timestamp, &attempt.Points); err != nil {
			return nil, storeErr(err)
		}
		history = append(history, attempt)
	}
	return history, rows.Err()
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
