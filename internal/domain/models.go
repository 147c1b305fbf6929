package domain

import "time"

// Question models an MCQ question. CorrectOption indexes into Options.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
}

// Catalog is the ordered question set for one quiz run, keyed by category.
type Catalog struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AttemptRecord is one completed run through a catalog. Records are
// append-only: once written to a user's history they are never mutated.
type AttemptRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Points    int       `json:"points"`
}

// UserRecord is the persisted account record. TotalScore accumulates points
// across all attempts; BestScore tracks the single best attempt. Both are
// monotonically non-decreasing.
type UserRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"` // opaque credential ref; hashing is out of scope
	CreatedAt  time.Time       `json:"createdAt"`
	TotalScore int             `json:"totalScore"`
	BestScore  int             `json:"bestScore"`
	History    []AttemptRecord `json:"history"`
}

// Result summarizes a completed attempt.
type Result struct {
	Score              int    `json:"score"`
	TotalPossible      int    `json:"totalPossible"`
	Percentage         int    `json:"percentage"`
	CorrectCount       int    `json:"correctCount"`
	PerformanceMessage string `json:"performanceMessage"`
}

// ReviewEntry is one question of the post-quiz answer review.
type ReviewEntry struct {
	QuestionText      string `json:"questionText"`
	ChosenOptionText  string `json:"chosenOptionText"`
	CorrectOptionText string `json:"correctOptionText"`
	IsCorrect         bool   `json:"isCorrect"`
}
