package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/montwater/internal/config"
	"github.com/mamadbah2/montwater/internal/domain/models"
)

const (
	dateLayout  = "2006-01-02"
	reportRange = "Reports!A:H"
)

// GoogleSheetRepository mirrors daily stock reports into a spreadsheet.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
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

// AppendDailyReport writes one row per report to the Reports sheet.
func (r *GoogleSheetRepository) AppendDailyReport(ctx context.Context, report models.DailyReport) error {
	return r.WriteRow(ctx, reportRange, ReportRow(report))
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReportRow flattens a report into the sheet columns:
// date, 330ml, 500ml, 1Ltr, total, produced today, sold today, low stock.
func ReportRow(report models.DailyReport) []interface{} {
	byType := make(map[models.WaterType]int, len(report.Stock))
	for _, s := range report.Stock {
		byType[s.WaterType] = s.Stock
	}

	low := make([]string, 0, len(report.LowStock))
	for _, wt := range report.LowStock {
		low = append(low, string(wt))
	}

	return []interface{}{
		report.Date.Format(dateLayout),
		byType[models.Water330ml],
		byType[models.Water500ml],
		byType[models.Water1Ltr],
		report.TotalStock,
		report.ProducedToday,
		report.SoldToday,
		strings.Join(low, ", "),
	}
}
