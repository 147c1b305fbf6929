package app_test

import (
	"errors"
	"testing"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/domain"
)

func TestComputeResultRequiresCompletion(t *testing.T) {
	session := startSession(t, threeQuestions())

	if _, err := app.ComputeResult(session); !errors.Is(err, domain.ErrSessionNotCompleted) {
		t.Fatalf("expected ErrSessionNotCompleted, got %v", err)
	}
	if _, err := app.BuildReview(session); !errors.Is(err, domain.ErrSessionNotCompleted) {
		t.Fatalf("expected ErrSessionNotCompleted from review, got %v", err)
	}
}

func TestComputeResultAllCorrect(t *testing.T) {
	session := completeSession(t, threeQuestions(), []int{1, 2, 0})

	result, err := app.ComputeResult(session)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Score != 30 || result.TotalPossible != 30 {
		t.Fatalf("expected 30/30, got %d/%d", result.Score, result.TotalPossible)
	}
	if result.Percentage != 100 || result.CorrectCount != 3 {
		t.Fatalf("expected 100%% with 3 correct, got %d%% (%d)", result.Percentage, result.CorrectCount)
	}
	if result.PerformanceMessage != "expert-tier" {
		t.Fatalf("expected expert-tier, got %q", result.PerformanceMessage)
	}
}

func TestComputeResultAllWrong(t *testing.T) {
	questions := make([]domain.Question, 10)
	answers := make([]int, 10)
	for i := range questions {
		questions[i] = domain.Question{
			Text:          "q",
			Options:       []string{"right", "wrong"},
			CorrectOption: 0,
		}
		answers[i] = 1
	}
	session := completeSession(t, questions, answers)

	result, err := app.ComputeResult(session)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Percentage != 0 || result.CorrectCount != 0 {
		t.Fatalf("expected 0%%, got %d%% (%d correct)", result.Percentage, result.CorrectCount)
	}
	if result.PerformanceMessage != "needs-review" {
		t.Fatalf("expected needs-review, got %q", result.PerformanceMessage)
	}
}

func TestPerformanceMessageThresholds(t *testing.T) {
	cases := []struct {
		correct int
		total   int
		message string
	}{
		{10, 10, "expert-tier"},
		{8, 10, "strong"},
		{9, 10, "strong"},
		{6, 10, "solid"},
		{7, 10, "solid"},
		{4, 10, "needs-practice"},
		{5, 10, "needs-practice"},
		{3, 10, "needs-review"},
		{0, 10, "needs-review"},
		{2, 3, "solid"}, // 66.67 rounds to 67
	}
	for _, tc := range cases {
		questions := make([]domain.Question, tc.total)
		answers := make([]int, tc.total)
		for i := range questions {
			questions[i] = domain.Question{Text: "q", Options: []string{"a", "b"}, CorrectOption: 0}
			if i < tc.correct {
				answers[i] = 0
			} else {
				answers[i] = 1
			}
		}
		session := completeSession(t, questions, answers)
		result, err := app.ComputeResult(session)
		if err != nil {
			t.Fatalf("compute %d/%d: %v", tc.correct, tc.total, err)
		}
		if result.PerformanceMessage != tc.message {
			t.Fatalf("%d/%d (%d%%): expected %q, got %q", tc.correct, tc.total, result.Percentage, tc.message, result.PerformanceMessage)
		}
	}
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	// 1 of 8 correct = 12.5%, rounds to 13.
	questions := make([]domain.Question, 8)
	answers := make([]int, 8)
	for i := range questions {
		questions[i] = domain.Question{Text: "q", Options: []string{"a", "b"}, CorrectOption: 0}
		answers[i] = 1
	}
	answers[0] = 0
	session := completeSession(t, questions, answers)

	result, err := app.ComputeResult(session)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Percentage != 13 {
		t.Fatalf("expected 13%%, got %d%%", result.Percentage)
	}
}

func TestBuildReviewPreservesOptionText(t *testing.T) {
	questions := threeQuestions()
	answers := []int{1, 0, 2} // correct, wrong, wrong
	session := completeSession(t, questions, answers)

	review, err := app.BuildReview(session)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(review) != len(questions) {
		t.Fatalf("expected %d entries, got %d", len(questions), len(review))
	}
	for i, entry := range review {
		question := questions[i]
		if entry.QuestionText != question.Text {
			t.Fatalf("entry %d: question text mismatch: %q", i, entry.QuestionText)
		}
		if entry.ChosenOptionText != question.Options[answers[i]] {
			t.Fatalf("entry %d: expected chosen %q, got %q", i, question.Options[answers[i]], entry.ChosenOptionText)
		}
		if entry.CorrectOptionText != question.Options[question.CorrectOption] {
			t.Fatalf("entry %d: expected correct %q, got %q", i, question.Options[question.CorrectOption], entry.CorrectOptionText)
		}
		if entry.IsCorrect != (answers[i] == question.CorrectOption) {
			t.Fatalf("entry %d: wrong isCorrect", i)
		}
	}
}
