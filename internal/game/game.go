package game

import (
	"errors"
	"fmt"
	"sync"

	"Bundespredict/internal/model"
)

// RoundsPerGame is the number of matches in one session.
const RoundsPerGame = 5

var (
	ErrRoundEvaluated = errors.New("round already has a prediction")
	ErrRoundPending   = errors.New("round has not been predicted yet")
	ErrGameOver       = errors.New("all rounds have been played")
)

// Round is the state of the match currently on screen.
type Round struct {
	Number     int
	Match      MatchRecord
	Evaluation *Evaluation
}

// Evaluated reports whether the round has been scored.
func (r Round) Evaluated() bool {
	return r.Evaluation != nil
}

// Session is one player's game. It is safe for concurrent use.
type Session struct {
	ID       string
	Username string

	mu       sync.Mutex
	round    Round
	score    int
	recorded bool
}

// Snapshot is a copy of a session's state for rendering.
type Snapshot struct {
	ID       string
	Username string
	Round    Round
	Score    int
	Finished bool
	Recorded bool
}

// NewSession starts a game on the first sampled match.
func NewSession(id, username string, sampler *Sampler) *Session {
	return &Session{
		ID:       id,
		Username: username,
		round:    Round{Number: 1, Match: sampler.Sample()},
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	r := s.round
	if r.Evaluation != nil {
		e := *r.Evaluation
		r.Evaluation = &e
	}
	return Snapshot{
		ID:       s.ID,
		Username: s.Username,
		Round:    r,
		Score:    s.score,
		Finished: s.finished(),
		Recorded: s.recorded,
	}
}

// Predict scores the user's choice for the current round against the
// classifier's. Each round accepts exactly one prediction.
func (s *Session) Predict(choice Label, c model.Classifier) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round.Evaluated() {
		return s.snapshot(), ErrRoundEvaluated
	}
	win, err := c.Predict(s.round.Match.Features())
	if err != nil {
		return s.snapshot(), fmt.Errorf("model prediction for %s vs %s: %w", s.round.Match.Team, s.round.Match.Opponent, err)
	}

	e := Evaluate(s.round.Match, choice, LabelFromBool(win))
	s.round.Evaluation = &e
	s.score += e.Delta
	return s.snapshot(), nil
}

// Next moves to a freshly sampled match.
func (s *Session) Next(sampler *Sampler) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.round.Evaluated() {
		return s.snapshot(), ErrRoundPending
	}
	if s.round.Number >= RoundsPerGame {
		return s.snapshot(), ErrGameOver
	}
	s.round = Round{Number: s.round.Number + 1, Match: sampler.Sample()}
	return s.snapshot(), nil
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished()
}

func (s *Session) finished() bool {
	return s.round.Number >= RoundsPerGame && s.round.Evaluated()
}

// MarkRecorded returns true only for the first caller after the game has
// finished. The final score is written to the scoreboard by that caller.
func (s *Session) MarkRecorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished() || s.recorded {
		return false
	}
	s.recorded = true
	return true
}

// UnmarkRecorded lets a later request retry a failed scoreboard write.
func (s *Session) UnmarkRecorded() {
	s.mu.Lock()
	s.recorded = false
	s.mu.Unlock()
}
