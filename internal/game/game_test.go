package game

import (
	"errors"
	"testing"

	"Bundespredict/internal/model"
)

// fixedModel always predicts the same label.
type fixedModel bool

func (f fixedModel) Predict(model.Features) (bool, error) { return bool(f), nil }

type brokenModel struct{}

func (brokenModel) Predict(model.Features) (bool, error) { return false, errors.New("boom") }

func winsOnly(t *testing.T) *Sampler {
	t.Helper()
	s, err := NewSeededSampler([]MatchRecord{{Team: "Leipzig", Opponent: "Bochum", Result: ResultWin}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSamplerRejectsEmpty(t *testing.T) {
	if _, err := NewSampler(nil); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestSamplerCoversRecords(t *testing.T) {
	records := []MatchRecord{{Team: "A"}, {Team: "B"}, {Team: "C"}}
	s, err := NewSeededSampler(records, 42)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		seen[s.Sample().Team]++
	}
	for _, r := range records {
		if seen[r.Team] == 0 {
			t.Errorf("team %s never sampled", r.Team)
		}
	}
}

func TestSessionFullGame(t *testing.T) {
	sampler := winsOnly(t)
	s := NewSession("id", "curious-otter", sampler)

	for round := 1; round <= RoundsPerGame; round++ {
		snap, err := s.Predict(Win, fixedModel(false))
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if snap.Round.Number != round {
			t.Fatalf("round number = %d, want %d", snap.Round.Number, round)
		}
		if snap.Score != round {
			t.Fatalf("score after round %d = %d, want %d", round, snap.Score, round)
		}
		if round < RoundsPerGame {
			if snap.Finished {
				t.Fatalf("finished after round %d", round)
			}
			if _, err := s.Next(sampler); err != nil {
				t.Fatalf("next after round %d: %v", round, err)
			}
		}
	}

	if !s.Finished() {
		t.Fatal("session not finished after five rounds")
	}
	if _, err := s.Next(sampler); !errors.Is(err, ErrGameOver) {
		t.Errorf("Next after last round = %v, want ErrGameOver", err)
	}
	if !s.MarkRecorded() {
		t.Error("first MarkRecorded = false")
	}
	if s.MarkRecorded() {
		t.Error("second MarkRecorded = true")
	}
	s.UnmarkRecorded()
	if !s.MarkRecorded() {
		t.Error("MarkRecorded after UnmarkRecorded = false")
	}
}

func TestSessionScoreCanGoNegative(t *testing.T) {
	s := NewSession("id", "u", winsOnly(t))
	snap, err := s.Predict(NotWin, fixedModel(true))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Score != -1 {
		t.Errorf("score = %d, want -1", snap.Score)
	}
}

func TestSessionRejectsOutOfOrder(t *testing.T) {
	sampler := winsOnly(t)
	s := NewSession("id", "u", sampler)

	if _, err := s.Next(sampler); !errors.Is(err, ErrRoundPending) {
		t.Errorf("Next before prediction = %v, want ErrRoundPending", err)
	}
	if s.MarkRecorded() {
		t.Error("MarkRecorded before the game finished")
	}
	if _, err := s.Predict(Win, fixedModel(true)); err != nil {
		t.Fatal(err)
	}
	snap, err := s.Predict(NotWin, fixedModel(true))
	if !errors.Is(err, ErrRoundEvaluated) {
		t.Errorf("second Predict = %v, want ErrRoundEvaluated", err)
	}
	if snap.Score != 0 {
		t.Errorf("score changed by rejected prediction: %d", snap.Score)
	}
}

func TestSessionModelFailure(t *testing.T) {
	s := NewSession("id", "u", winsOnly(t))
	if _, err := s.Predict(Win, brokenModel{}); err == nil {
		t.Fatal("expected model error")
	}
	if s.Snapshot().Round.Evaluated() {
		t.Error("round evaluated despite model failure")
	}
}
