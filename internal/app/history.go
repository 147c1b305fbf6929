package app

import (
	"time"

	"solo-quiz-service/internal/domain"
)

// ApplyAttempt merges one completed attempt into a user record: the total
// score accumulates, the best score tracks the single highest attempt (not
// the cumulative total), and the history grows append-only in attempt order.
// The input record is not mutated.
func ApplyAttempt(record domain.UserRecord, points int, now time.Time) (domain.UserRecord, error) {
	if points < 0 || points%pointsPerQuestion != 0 {
		return record, domain.ErrInvalidPoints
	}
	record.TotalScore += points
	if points > record.BestScore {
		record.BestScore = points
	}
	history := make([]domain.AttemptRecord, len(record.History), len(record.History)+1)
	copy(history, record.History)
	record.History = append(history, domain.AttemptRecord{Timestamp: now, Points: points})
	return record, nil
}
