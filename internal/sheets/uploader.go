// Package sheets uploads the final transaction table to a Google Sheet, for
// runs that feed a shared spreadsheet instead of (or next to) the flat file.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"aptrade/internal/frame"
)

// updateChunkRows bounds a single values.Update payload.
const updateChunkRows = 5000

type Uploader struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates an uploader for the given spreadsheet and sheet. Service
// account credentials come from the environment: GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Uploader, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Uploader{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a Sheets service from service account
// credentials in the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Upload replaces the sheet contents with the table: header row first, then
// data rows in chunks.
func (u *Uploader) Upload(ctx context.Context, f *frame.Frame) error {
	if u.svc == nil {
		return errors.New("sheets service not initialized")
	}

	_, err := u.svc.Spreadsheets.Values.Clear(u.spreadsheetID, u.sheetName, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", u.sheetName, err)
	}

	header := make([]any, 0, len(f.Columns()))
	for _, c := range f.Columns() {
		header = append(header, c)
	}
	rows := [][]any{header}
	startRow := 1
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		rng := fmt.Sprintf("%s!A%d", u.sheetName, startRow)
		vr := &gsheet.ValueRange{Values: rows}
		_, err := u.svc.Spreadsheets.Values.Update(u.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update %s: %w", rng, err)
		}
		startRow += len(rows)
		rows = rows[:0]
		return nil
	}

	for i := 0; i < f.Len(); i++ {
		row := f.Row(i)
		vals := make([]any, 0, len(row))
		for _, v := range row {
			vals = append(vals, v)
		}
		rows = append(rows, vals)
		if len(rows) >= updateChunkRows {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
