package scoreboard

import (
	"context"
	"fmt"
)

// Config selects and configures a scoreboard backend.
type Config struct {
	Backend string

	DatabaseURL string

	SheetsCredentials   string
	SheetsSpreadsheetID string
	SheetsWorksheet     string

	FirestoreProject    string
	FirestoreCollection string
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "memory", "":
		return NewSheetStore(NewMemorySheet(header())), nil
	case "sheets":
		ws, err := OpenGoogleSheet(ctx, cfg.SheetsCredentials, cfg.SheetsSpreadsheetID, cfg.SheetsWorksheet)
		if err != nil {
			return nil, err
		}
		return NewSheetStore(ws), nil
	case "postgres":
		pg, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "firestore":
		fs, err := OpenFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
		if err != nil {
			return nil, err
		}
		return fs, nil
	default:
		return nil, fmt.Errorf("unknown scoreboard backend %q", cfg.Backend)
	}
}
