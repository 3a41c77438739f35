package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"Bundespredict/internal/feed"
	"Bundespredict/internal/game"
	"Bundespredict/internal/model"
	"Bundespredict/internal/scoreboard"
)

type fixedModel bool

func (f fixedModel) Predict(model.Features) (bool, error) { return bool(f), nil }

// flakyStore fails appends until healed.
type flakyStore struct {
	scoreboard.Store
	failing bool
}

func (f *flakyStore) Append(ctx context.Context, e scoreboard.Entry) error {
	if f.failing {
		return errors.New("backend down")
	}
	return f.Store.Append(ctx, e)
}

func newStore() scoreboard.Store {
	return scoreboard.NewSheetStore(scoreboard.NewMemorySheet([]any{"Username", "Score"}, []any{"taken", 2}))
}

func sampler(t *testing.T) *game.Sampler {
	t.Helper()
	s, err := game.NewSeededSampler([]game.MatchRecord{{Team: "Bremen", Opponent: "Koln", Result: game.ResultWin}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func playOut(t *testing.T, sess *game.Session, s *game.Sampler) {
	t.Helper()
	for i := 0; i < game.RoundsPerGame; i++ {
		if _, err := sess.Predict(game.Win, fixedModel(false)); err != nil {
			t.Fatal(err)
		}
		if i < game.RoundsPerGame-1 {
			if _, err := sess.Next(s); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestValidateUsername(t *testing.T) {
	store := newStore()
	tests := []struct {
		raw, want, msg string
	}{
		{"  quick-fox ", "quick-fox", ""},
		{"", "", "must enter"},
		{"   ", "", "must enter"},
		{"Taken", "", "already taken"},
		{strings.Repeat("x", 33), "", "at most 32"},
	}
	for _, tt := range tests {
		got, msg, err := ValidateUsername(context.Background(), store, tt.raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want || (tt.msg == "") != (msg == "") || !strings.Contains(msg, tt.msg) {
			t.Errorf("ValidateUsername(%q) = %q, %q", tt.raw, got, msg)
		}
	}
}

func TestSuggestUsername(t *testing.T) {
	if s := SuggestUsername(); !strings.Contains(s, "-") {
		t.Errorf("SuggestUsername = %q, want two words", s)
	}
}

func TestSessions(t *testing.T) {
	var reg Sessions
	sess := reg.Start("quick-fox", sampler(t))
	got, err := reg.Get(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}
	reg.Delete(sess.ID)
	if _, err := reg.Get(sess.ID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Get after Delete = %v, want ErrNoSession", err)
	}
}

func TestRecordFinalScoreOnce(t *testing.T) {
	store := newStore()
	f := feed.NewFeed()
	defer f.Stop()
	sub := f.Join()

	var reg Sessions
	s := sampler(t)
	sess := reg.Start("quick-fox", s)

	if _, err := RecordFinalScore(context.Background(), store, f, sess); err == nil {
		t.Fatal("expected error for unfinished session")
	}

	playOut(t, sess, s)
	for i := 0; i < 3; i++ {
		res, err := RecordFinalScore(context.Background(), store, f, sess)
		if err != nil {
			t.Fatal(err)
		}
		if res.Score != game.RoundsPerGame {
			t.Errorf("Score = %d, want %d", res.Score, game.RoundsPerGame)
		}
	}

	entries, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range entries {
		if e.Username == "quick-fox" {
			count++
			if e.Score != 5 {
				t.Errorf("recorded score = %d, want 5", e.Score)
			}
		}
	}
	if count != 1 {
		t.Errorf("quick-fox recorded %d times, want 1", count)
	}
	if entries[0].Username != "quick-fox" {
		t.Errorf("top entry = %v, want quick-fox first", entries[0])
	}

	select {
	case msg := <-sub.MsgChan:
		if len(msg.Entries) != 2 {
			t.Errorf("published %d entries, want 2", len(msg.Entries))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no scoreboard update published")
	}
}

func TestRecordFinalScoreRetriesAfterFailure(t *testing.T) {
	store := &flakyStore{Store: newStore(), failing: true}
	s := sampler(t)
	var reg Sessions
	sess := reg.Start("late-owl", s)
	playOut(t, sess, s)

	if _, err := RecordFinalScore(context.Background(), store, nil, sess); err == nil {
		t.Fatal("expected append failure")
	}
	store.failing = false
	res, err := RecordFinalScore(context.Background(), store, nil, sess)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Scoreboard) != 2 {
		t.Errorf("scoreboard has %d entries, want 2", len(res.Scoreboard))
	}
}

func TestResetScoreboard(t *testing.T) {
	store := newStore()
	if err := ResetScoreboard(context.Background(), store, nil); err != nil {
		t.Fatal(err)
	}
	entries, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after reset = %v", entries)
	}
}

func TestSessionsExpire(t *testing.T) {
	reg := Sessions{TTL: time.Minute}
	s := sampler(t)
	idle := reg.Start("idle", s)
	active := reg.Start("active", s)

	later := time.Now().Add(2 * time.Minute)
	// active was used just before the sweep
	e, _ := reg.m.Load(active.ID)
	e.(*sessionEntry).touch(later.Add(-time.Second))

	if n := reg.Sweep(later); n != 1 {
		t.Errorf("Sweep removed %d sessions, want 1", n)
	}
	if _, err := reg.Get(idle.ID); !errors.Is(err, ErrNoSession) {
		t.Errorf("idle session still registered: %v", err)
	}
	if _, err := reg.Get(active.ID); err != nil {
		t.Errorf("active session was swept: %v", err)
	}
}

func TestSessionsDefaultTTL(t *testing.T) {
	var reg Sessions
	sess := reg.Start("quick-fox", sampler(t))
	if n := reg.Sweep(time.Now().Add(time.Hour)); n != 0 {
		t.Errorf("swept %d sessions an hour in, want 0", n)
	}
	if n := reg.Sweep(time.Now().Add(25 * time.Hour)); n != 1 {
		t.Errorf("swept %d sessions after a day, want 1", n)
	}
	if _, err := reg.Get(sess.ID); !errors.Is(err, ErrNoSession) {
		t.Errorf("Get after expiry = %v", err)
	}
}

func TestRunSweeperBoundsRegistry(t *testing.T) {
	reg := &Sessions{TTL: 20 * time.Millisecond}
	s := sampler(t)
	for i := 0; i < 1000; i++ {
		reg.Start("player", s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for reg.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if n := reg.Len(); n != 0 {
		t.Errorf("%d sessions left after sweeping", n)
	}
}

func TestRecordFinalScoreSameNameTwice(t *testing.T) {
	store := newStore()
	s := sampler(t)
	var reg Sessions

	// both players pass the start check before either finishes
	for i := 0; i < 2; i++ {
		if name, msg, err := ValidateUsername(context.Background(), store, "same"); err != nil || msg != "" || name != "same" {
			t.Fatalf("ValidateUsername = %q, %q, %v", name, msg, err)
		}
	}
	first, second := reg.Start("same", s), reg.Start("same", s)
	playOut(t, first, s)
	playOut(t, second, s)

	res, err := RecordFinalScore(context.Background(), store, nil, first)
	if err != nil || res.Notice != "" {
		t.Fatalf("first finisher: %+v, %v", res, err)
	}
	res, err = RecordFinalScore(context.Background(), store, nil, second)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Notice, "was not saved") {
		t.Errorf("second finisher notice = %q", res.Notice)
	}

	entries, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []scoreboard.Entry{{Username: "same", Score: 5}, {Username: "taken", Score: 2}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("scoreboard mismatch (-want +got):\n%s", diff)
	}
}
