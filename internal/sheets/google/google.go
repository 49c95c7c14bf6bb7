// Package google appends exported transactions to a Google spreadsheet.
// Authentication follows the usual resolution order: GOOGLE_CREDENTIALS_JSON
// when set, otherwise application default credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"revboard/internal/core"
	"revboard/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ sheets.TransactionAppender = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet and sheet name.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(sheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if js := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON")); js != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(js)))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendTransactions appends one row per transaction below the existing
// data in the configured sheet.
func (c *Client) AppendTransactions(ctx context.Context, txs []core.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(txs))
	for i, t := range txs {
		rows[i] = sheets.Row(t)
	}

	rangeRef := fmt.Sprintf("%s!A:F", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rangeRef, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append to sheet %s: %w", rangeRef, err)
	}

	return len(rows), nil
}
