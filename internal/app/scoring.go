package app

import (
	"math"

	"solo-quiz-service/internal/domain"
)

// Performance messages, selected by percentage thresholds checked top-down.
const (
	msgExpert        = "expert-tier"
	msgStrong        = "strong"
	msgSolid         = "solid"
	msgNeedsPractice = "needs-practice"
	msgNeedsReview   = "needs-review"
)

// ComputeResult folds a completed session into its final result.
func ComputeResult(s *Session) (domain.Result, error) {
	if !s.completed {
		return domain.Result{}, domain.ErrSessionNotCompleted
	}
	total := pointsPerQuestion * len(s.questions)
	percentage := int(math.Round(float64(s.score) / float64(total) * 100))
	return domain.Result{
		Score:              s.score,
		TotalPossible:      total,
		Percentage:         percentage,
		CorrectCount:       s.score / pointsPerQuestion,
		PerformanceMessage: performanceMessage(percentage),
	}, nil
}

func performanceMessage(percentage int) string {
	switch {
	case percentage == 100:
		return msgExpert
	case percentage >= 80:
		return msgStrong
	case percentage >= 60:
		return msgSolid
	case percentage >= 40:
		return msgNeedsPractice
	default:
		return msgNeedsReview
	}
}

// BuildReview projects a completed session into one entry per question, in
// catalog order, preserving the exact option text for chosen and correct.
func BuildReview(s *Session) ([]domain.ReviewEntry, error) {
	if !s.completed {
		return nil, domain.ErrSessionNotCompleted
	}
	entries := make([]domain.ReviewEntry, 0, len(s.questions))
	for i, q := range s.questions {
		chosen := s.answers[i] // every slot is answered once the session completed
		entries = append(entries, domain.ReviewEntry{
			QuestionText:      q.Text,
			ChosenOptionText:  q.Options[chosen],
			CorrectOptionText: q.Options[q.CorrectOption],
			IsCorrect:         chosen == q.CorrectOption,
		})
	}
	return entries, nil
}
