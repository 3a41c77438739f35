package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Bundespredict/internal/feed"
	"Bundespredict/internal/game"
	"Bundespredict/internal/scoreboard"
)

// FinalResults is what the game-over page shows.
type FinalResults struct {
	Username   string
	Score      int
	Scoreboard []scoreboard.Entry
	Notice     string
}

// RecordFinalScore appends the finished session's score exactly once and
// returns the refreshed scoreboard. A failed append is retried on the next call.
func RecordFinalScore(ctx context.Context, store scoreboard.Store, f *feed.Feed, sess *game.Session) (FinalResults, error) {
	snap := sess.Snapshot()
	if !snap.Finished {
		return FinalResults{}, fmt.Errorf("session %s: %w", snap.ID, game.ErrRoundPending)
	}
	res := FinalResults{Username: snap.Username, Score: snap.Score}

	recorded := false
	if sess.MarkRecorded() {
		err := store.Append(ctx, scoreboard.Entry{Username: snap.Username, Score: snap.Score})
		switch {
		case errors.Is(err, scoreboard.ErrUsernameTaken):
			slog.Warn("Username claimed by another finished game", "username", snap.Username)
			res.Notice = "Another player finished with the name '" + snap.Username + "' first, so this score was not saved."
		case err != nil:
			sess.UnmarkRecorded()
			slog.Error("Error saving score to scoreboard", "username", snap.Username, "error", err)
			return res, err
		default:
			recorded = true
			slog.Info("Score recorded", "session", snap.ID, "username", snap.Username, "score", snap.Score)
		}
	}

	entries, err := store.Load(ctx)
	if err != nil {
		slog.Error("Error loading scoreboard", "error", err)
		return res, err
	}
	res.Scoreboard = entries

	if recorded && f != nil {
		f.Publish(entries)
	}
	return res, nil
}

// ResetScoreboard empties the scoreboard and tells subscribers.
func ResetScoreboard(ctx context.Context, store scoreboard.Store, f *feed.Feed) error {
	if err := store.Replace(ctx, nil); err != nil {
		slog.Error("Error resetting scoreboard", "error", err)
		return err
	}
	slog.Info("Scoreboard reset")
	if f != nil {
		f.Publish([]scoreboard.Entry{})
	}
	return nil
}
