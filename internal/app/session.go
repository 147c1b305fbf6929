package app

import (
	"time"

	"solo-quiz-service/internal/domain"
)

// pointsPerQuestion is awarded for each correct answer.
const pointsPerQuestion = 10

// unanswered marks an answer slot that has not been filled yet.
const unanswered = -1

// Session tracks one in-progress quiz attempt: the question pointer, recorded
// answers, running score and completion flag. A session is ephemeral; only its
// result survives, merged into the user's record on finish.
type Session struct {
	questions []domain.Question
	current   int
	answers   []int
	score     int
	startedAt time.Time
	completed bool
	now       func() time.Time
}

// StartSession begins a fresh attempt over questions.
func StartSession(questions []domain.Question) (*Session, error) {
	return StartSessionWithClock(questions, time.Now)
}

// StartSessionWithClock allows deterministic timestamps in tests.
func StartSessionWithClock(questions []domain.Question, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	s := &Session{now: now}
	s.reset(questions)
	return s, nil
}

func (s *Session) reset(questions []domain.Question) {
	s.questions = questions
	s.current = 0
	s.answers = make([]int, len(questions))
	for i := range s.answers {
		s.answers[i] = unanswered
	}
	s.score = 0
	s.startedAt = s.now()
	s.completed = false
}

// SelectAnswer records option for the question in view. The first answer
// wins: re-submitting on an already answered question is a no-op, not an
// error. The question pointer does not move.
func (s *Session) SelectAnswer(option int) error {
	if option < 0 || option >= len(s.questions[s.current].Options) {
		return domain.ErrInvalidOption
	}
	if s.answers[s.current] != unanswered {
		return nil
	}
	s.answers[s.current] = option
	s.score = s.recomputeScore()
	return nil
}

// recomputeScore derives the score from the answer slots. Invariant:
// score == pointsPerQuestion * number of correct answers, at all times.
func (s *Session) recomputeScore() int {
	score := 0
	for i, answer := range s.answers {
		if answer != unanswered && answer == s.questions[i].CorrectOption {
			score += pointsPerQuestion
		}
	}
	return score
}

// Advance moves to the next question, or completes the session when the last
// question is in view. The question in view must be answered first.
func (s *Session) Advance() error {
	if s.completed {
		return domain.ErrSessionCompleted
	}
	if s.answers[s.current] == unanswered {
		return domain.ErrUnansweredQuestion
	}
	if s.current == len(s.questions)-1 {
		s.completed = true
		return nil
	}
	s.current++
	return nil
}

// Retreat moves back one question; at the first question it is a no-op.
func (s *Session) Retreat() error {
	if s.completed {
		return domain.ErrSessionCompleted
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// Restart discards all answers and score, producing a state indistinguishable
// from a freshly started session. A nil questions reuses the loaded set.
func (s *Session) Restart(questions []domain.Question) error {
	if questions == nil {
		questions = s.questions
	}
	if len(questions) == 0 {
		return domain.ErrEmptyCatalog
	}
	s.reset(questions)
	return nil
}

// Current returns the index and content of the question in view. Once the
// session completes, the pointer stays frozen on the last question.
func (s *Session) Current() (int, domain.Question) {
	return s.current, s.questions[s.current]
}

// Answer returns the recorded answer for question i and whether it is set.
func (s *Session) Answer(i int) (int, bool) {
	if s.answers[i] == unanswered {
		return 0, false
	}
	return s.answers[i], true
}

// Len returns the number of loaded questions.
func (s *Session) Len() int {
	return len(s.questions)
}

// Score returns the running score.
func (s *Session) Score() int {
	return s.score
}

// Completed reports whether the attempt has been finished.
func (s *Session) Completed() bool {
	return s.completed
}

// StartedAt returns when the attempt began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Elapsed is a read-only derivation for display; it never mutates the session.
func (s *Session) Elapsed() time.Duration {
	return s.now().Sub(s.startedAt)
}
