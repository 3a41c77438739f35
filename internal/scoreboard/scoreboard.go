// Package scoreboard persists final game scores.
package scoreboard

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Column names of the scoreboard sheet.
const (
	ColumnUsername = "Username"
	ColumnScore    = "Score"
)

var ErrUsernameTaken = errors.New("username already on the scoreboard")

// Entry is one finished game.
type Entry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Store is a persisted scoreboard. Load returns entries sorted by score,
// highest first.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, e Entry) error
	Replace(ctx context.Context, entries []Entry) error
	Close() error
}

// Taken reports whether username already has an entry.
func Taken(ctx context.Context, s Store, username string) (bool, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

// Sort orders entries by score descending, keeping insertion order for ties.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}
