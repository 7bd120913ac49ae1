package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/caserito/atelier/internal/config"
)

// Repository defines the raw persistence operations supported by the Google
// Sheets adapter. The store offers exactly two primitives: whole-table read
// and whole-table replace. There is no row-level write and no locking; two
// overlapping sessions writing the same table race with last-write-wins.
// That limitation is accepted, not worked around.
type Repository interface {
	ReadTable(ctx context.Context, table Table) ([][]interface{}, error)
	WriteTable(ctx context.Context, table Table, rows [][]interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadTable fetches every populated row of the worksheet, header included.
// A worksheet that does not exist yet is indistinguishable from an empty one:
// both come back as zero rows.
func (r *GoogleSheetRepository) ReadTable(ctx context.Context, table Table) ([][]interface{}, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, table.Range()).Context(ctx).Do()
	if err != nil {
		if isMissingWorksheet(err) {
			r.logger.Warn("worksheet missing, treating as empty table", zap.String("table", string(table.Name)))
			return nil, nil
		}
		return nil, fmt.Errorf("read table %s: %w", table.Name, err)
	}

	return resp.Values, nil
}

// WriteTable replaces the worksheet's contents with the provided data rows,
// prefixed by the canonical header. Every mutation re-sends the entire table.
func (r *GoogleSheetRepository) WriteTable(ctx context.Context, table Table, rows [][]interface{}) error {
	if _, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, table.Range(), &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear table %s: %w", table.Name, err)
	}

	header := make([]interface{}, len(table.Header))
	for i, col := range table.Header {
		header[i] = col
	}
	payload := &sheetsapi.ValueRange{Values: append([][]interface{}{header}, rows...)}

	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, table.Range(), payload).
		ValueInputOption("USER_ENTERED").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("write table %s: %w", table.Name, err)
	}

	r.logger.Debug("table replaced", zap.String("table", string(table.Name)), zap.Int("rows", len(rows)))
	return nil
}

// isMissingWorksheet detects the "Unable to parse range" error the API
// returns when the named worksheet does not exist.
func isMissingWorksheet(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusBadRequest
	}
	return false
}
