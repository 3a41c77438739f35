package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	"Bundespredict/internal/auth"
	"Bundespredict/internal/game"
	"Bundespredict/internal/scoreboard"
)

const maxUsernameLength = 32

var ErrNoSession = errors.New("no such game session")

type StartRequest struct {
	Username string `form:"username"`
}

// SuggestUsername offers a random name for the landing page placeholder.
func SuggestUsername() string {
	return petname.Generate(2, "-")
}

// ValidateUsername trims the requested name and checks it is free on the
// scoreboard. A non-empty errMessage is meant for the player.
func ValidateUsername(ctx context.Context, store scoreboard.Store, raw string) (string, string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", "You must enter a username to start the game.", nil
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return "", "Usernames can be at most 32 characters long.", nil
	}

	taken, err := scoreboard.Taken(ctx, store, username)
	if err != nil {
		slog.Error("Error checking username against scoreboard", "username", username, "error", err)
		return "", "The scoreboard is unavailable right now. Please try again later.", err
	}
	if taken {
		return "", "The username '" + username + "' is already taken. Please choose another one.", nil
	}
	return username, "", nil
}

// Sessions holds the running games, keyed by session ID. A session that is
// not touched for TTL is dropped by Sweep; zero TTL means auth.TokenTTL.
type Sessions struct {
	TTL time.Duration

	m sync.Map // map[string]*sessionEntry
}

type sessionEntry struct {
	sess     *game.Session
	lastSeen atomic.Int64 // unix nanoseconds
}

func (e *sessionEntry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

func (s *Sessions) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return auth.TokenTTL
}

// Start opens a session on a freshly sampled first match.
func (s *Sessions) Start(username string, sampler *game.Sampler) *game.Session {
	sess := game.NewSession(uuid.NewString(), username, sampler)
	e := &sessionEntry{sess: sess}
	e.touch(time.Now())
	s.m.Store(sess.ID, e)
	slog.Info("Game started", "session", sess.ID, "username", username)
	return sess
}

// Get returns the session and marks it as active.
func (s *Sessions) Get(id string) (*game.Session, error) {
	v, ok := s.m.Load(id)
	if !ok {
		return nil, ErrNoSession
	}
	e := v.(*sessionEntry)
	e.touch(time.Now())
	return e.sess, nil
}

func (s *Sessions) Delete(id string) {
	s.m.Delete(id)
}

// Len counts the registered sessions.
func (s *Sessions) Len() int {
	n := 0
	s.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep drops every session idle for longer than the TTL at now and
// returns how many were removed.
func (s *Sessions) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl()).UnixNano()
	removed := 0
	s.m.Range(func(k, v any) bool {
		if v.(*sessionEntry).lastSeen.Load() < cutoff {
			s.m.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				slog.Info("Expired idle game sessions", "removed", n, "remaining", s.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}
