package scoreboard

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet is a Worksheet backed by a tab of a Google spreadsheet.
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	title         string
}

// OpenGoogleSheet authenticates with a service account key file and checks
// that the spreadsheet has a tab called title.
func OpenGoogleSheet(ctx context.Context, credentialsFile, spreadsheetID, title string) (*GoogleSheet, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	ss, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, title: title}, nil
		}
	}
	return nil, fmt.Errorf("spreadsheet %s has no worksheet %q", spreadsheetID, title)
}

// a1 quotes the tab name so titles with spaces survive A1 notation.
func (g *GoogleSheet) a1() string {
	return "'" + strings.ReplaceAll(g.title, "'", "''") + "'"
}

func (g *GoogleSheet) Clear(ctx context.Context) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, g.a1(), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g *GoogleSheet) AppendRow(ctx context.Context, row []any) error {
	return g.AppendRows(ctx, [][]any{row})
}

func (g *GoogleSheet) AppendRows(ctx context.Context, rows [][]any) error {
	vr := &sheets.ValueRange{Values: rows}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, g.a1()+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (g *GoogleSheet) GetAllRecords(ctx context.Context) (Table, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.a1()).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return Table{}, err
	}
	return TableFromValues(resp.Values), nil
}
