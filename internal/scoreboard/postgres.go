package scoreboard

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps the scoreboard in a table with a case-insensitive
// unique index on username, so duplicate names are rejected atomically.
type PostgresStore struct {
	DB *sql.DB
}

// OpenPostgres connects to connStr and applies pending migrations.
func OpenPostgres(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func applyMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("Database migrations applied successfully")
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT username, score FROM scoreboard ORDER BY score DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying scoreboard: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Username, &e.Score); err != nil {
			return nil, fmt.Errorf("scanning scoreboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	_, err := s.DB.ExecContext(ctx, "INSERT INTO scoreboard (username, score) VALUES ($1, $2)", e.Username, e.Score)
	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("inserting %s into scoreboard: %w", e.Username, err)
	}
	return nil
}

func (s *PostgresStore) Replace(ctx context.Context, entries []Entry) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM scoreboard"); err != nil {
		return fmt.Errorf("clearing scoreboard: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, "INSERT INTO scoreboard (username, score) VALUES ($1, $2)", e.Username, e.Score); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: %w", e.Username, ErrUsernameTaken)
			}
			return fmt.Errorf("inserting %s into scoreboard: %w", e.Username, err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
