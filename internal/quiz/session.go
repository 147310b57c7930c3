// Package quiz implements the quiz session state machine: an ordered
// question set, an answer map, and a score, independent of storage and
// transport.
package quiz

import (
	"errors"
	"fmt"
	"sync"

	"github.com/edupilot/edupilot-api/internal/domain"
)

// Engine usage errors. These indicate programmer or caller errors and are
// always fatal to the call, never silently ignored.
var (
	// ErrInvalidState is returned when an operation is called in a state
	// that does not permit it.
	ErrInvalidState = errors.New("operation not valid in current quiz state")

	// ErrInvalidOption is returned when an answer's option index is outside
	// [0,3] or targets an unknown question.
	ErrInvalidOption = errors.New("invalid option index")
)

// State identifies the engine's position in its lifecycle.
type State string

// Engine states. Completed is terminal.
const (
	StateAwaitingGeneration State = "awaiting_generation"
	StateInProgress         State = "in_progress"
	StateCompleted          State = "completed"
)

// Reward is the XP outcome of a completed session.
type Reward struct {
	XP    int
	Score int
}

// Session drives one quiz attempt through
// AwaitingGeneration -> InProgress -> Completed. It is owned by a single
// logical flow; the internal mutex only guards against a completion handler
// being re-invoked (e.g. by a UI re-render), not concurrent use.
type Session struct {
	mu sync.Mutex

	state        State
	questions    []domain.QuizQuestion
	currentIndex int
	maxIndex     int
	answers      map[int]int
	score        int
	rewarded     bool
}

// NewSession creates a Session in the AwaitingGeneration state.
func NewSession() *Session {
	return &Session{
		state:   StateAwaitingGeneration,
		answers: make(map[int]int),
	}
}

// Start moves the session into InProgress at question 0.
// Requires at least one question and the AwaitingGeneration state.
func (s *Session) Start(questions []domain.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingGeneration {
		return fmt.Errorf("%w: start in state %s", ErrInvalidState, s.state)
	}

	if len(questions) == 0 {
		return fmt.Errorf("%w: start requires at least one question", ErrInvalidState)
	}

	s.questions = questions
	s.currentIndex = 0
	s.maxIndex = 0
	s.state = StateInProgress
	return nil
}

// Answer records (or overwrites) the chosen option for a question. Only
// questions the session has reached accept an answer; navigating back with
// Previous keeps later questions answerable. Valid only while InProgress;
// the current index is unchanged.
func (s *Session) Answer(questionID, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return fmt.Errorf("%w: answer in state %s", ErrInvalidState, s.state)
	}

	if optionIndex < 0 || optionIndex >= domain.OptionCount {
		return fmt.Errorf("%w: %d", ErrInvalidOption, optionIndex)
	}

	pos := -1
	for i, q := range s.questions {
		if q.ID == questionID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return fmt.Errorf("%w: unknown question id %d", ErrInvalidOption, questionID)
	}
	if pos > s.maxIndex {
		return fmt.Errorf("%w: question %d not yet reached", ErrInvalidState, questionID)
	}

	s.answers[questionID] = optionIndex
	return nil
}

// Advance moves to the next question, or completes the session on the last
// one and computes the final score. The current question must have a
// recorded answer; on failure the index is unchanged.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return fmt.Errorf("%w: advance in state %s", ErrInvalidState, s.state)
	}

	current := s.questions[s.currentIndex]
	if _, answered := s.answers[current.ID]; !answered {
		return fmt.Errorf("%w: question %d has no recorded answer", ErrInvalidState, current.ID)
	}

	if s.currentIndex < len(s.questions)-1 {
		s.currentIndex++
		if s.currentIndex > s.maxIndex {
			s.maxIndex = s.currentIndex
		}
		return nil
	}

	// Missing answers count as incorrect; only exact matches score.
	score := 0
	for _, q := range s.questions {
		if chosen, ok := s.answers[q.ID]; ok && chosen == q.Answer {
			score++
		}
	}
	s.score = score
	s.state = StateCompleted
	return nil
}

// Previous moves back one question without clearing the recorded answer for
// the question being left. Valid only while InProgress and not at index 0.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return fmt.Errorf("%w: previous in state %s", ErrInvalidState, s.state)
	}

	if s.currentIndex == 0 {
		return fmt.Errorf("%w: already at the first question", ErrInvalidState)
	}

	s.currentIndex--
	return nil
}

// ClaimReward returns the XP award for a completed session exactly once.
// The first call returns (reward, true); every subsequent call returns the
// same reward with false, so a re-invoked completion handler can never
// re-trigger profile increments. Valid only after completion.
func (s *Session) ClaimReward() (Reward, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return Reward{}, false, fmt.Errorf("%w: reward before completion", ErrInvalidState)
	}

	reward := Reward{XP: domain.QuizXP(s.score), Score: s.score}
	if s.rewarded {
		return reward, false, nil
	}

	s.rewarded = true
	return reward, true, nil
}

// Unclaim releases a claimed reward so a later completion call can claim it
// again. Callers use it when applying the reward fails after the claim.
func (s *Session) Unclaim() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewarded = false
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentIndex returns the index of the current question.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// Score returns the final score. Meaningful only once Completed.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Answers returns a copy of the recorded answer map.
func (s *Session) Answers() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}
