package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/domain/models"
	core "github.com/mamadbah2/montwater/internal/inventory"
)

const dateLayout = "2006-01-02"

// SnapshotReader exposes a consistent copy of the recorded entries.
type SnapshotReader interface {
	Snapshot() models.Document
}

// ReportArchive stores reports for later analysis.
type ReportArchive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// ReportSheet mirrors reports into a shared spreadsheet.
type ReportSheet interface {
	AppendDailyReport(ctx context.Context, report models.DailyReport) error
}

// Notifier delivers the text summary to the shop owner.
type Notifier interface {
	SendAlert(ctx context.Context, message string) error
}

// Sinks are the optional destinations of a published report. Nil sinks are skipped.
type Sinks struct {
	Archive  ReportArchive
	Sheet    ReportSheet
	Notifier Notifier
}

// Service builds the end-of-day stock report and fans it out to the sinks.
type Service struct {
	source SnapshotReader
	sinks  Sinks
	loc    *time.Location
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source SnapshotReader, sinks Sinks, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, sinks: sinks, loc: loc, logger: logger}
}

// GenerateDailyReport summarizes the stock on hand and the activity of the day
// containing now.
func (s *Service) GenerateDailyReport(_ context.Context, now time.Time) (models.DailyReport, error) {
	if s.source == nil {
		return models.DailyReport{}, errors.New("reporting source is not configured")
	}

	snap := s.source.Snapshot()
	report := models.DailyReport{
		Date:      core.StartOfDay(now, s.loc),
		Stock:     core.Summaries(snap.Production, snap.Sales),
		LowStock:  []models.WaterType{},
		CreatedAt: now,
	}

	for _, summary := range report.Stock {
		report.TotalStock += summary.Stock
		if summary.Status == models.StockLow {
			report.LowStock = append(report.LowStock, summary.WaterType)
		}
	}

	for day := range core.DailySeries(snap.Production, snap.Sales, 1, now, s.loc) {
		report.ProducedToday = day.Total.Produced
		report.SoldToday = day.Total.Sold
	}

	return report, nil
}

// FormatSummary renders the report as a short text message.
func FormatSummary(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mont Water stock report %s\n", report.Date.Format(dateLayout))

	for _, summary := range report.Stock {
		line := fmt.Sprintf("%s: %d packs (%d bottles)", summary.WaterType, summary.Stock, summary.Bottles)
		if summary.Status == models.StockLow {
			line += " LOW"
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "Total: %d packs\n", report.TotalStock)
	fmt.Fprintf(&b, "Today: produced %d, sold %d\n", report.ProducedToday, report.SoldToday)

	if len(report.LowStock) == 0 {
		b.WriteString("All types above the low-stock threshold.")
		return b.String()
	}

	low := make([]string, 0, len(report.LowStock))
	for _, wt := range report.LowStock {
		low = append(low, string(wt))
	}
	fmt.Fprintf(&b, "Restock needed: %s (below %d packs).", strings.Join(low, ", "), core.LowStockThreshold)
	return b.String()
}

// Publish sends the report to every configured sink. A failing sink does not
// stop the others; their errors are joined.
func (s *Service) Publish(ctx context.Context, report models.DailyReport) error {
	var errs []error

	if s.sinks.Archive != nil {
		if err := s.sinks.Archive.SaveDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to archive daily report", zap.Error(err))
			errs = append(errs, fmt.Errorf("archive report: %w", err))
		}
	}

	if s.sinks.Sheet != nil {
		if err := s.sinks.Sheet.AppendDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to mirror daily report", zap.Error(err))
			errs = append(errs, fmt.Errorf("mirror report: %w", err))
		}
	}

	if s.sinks.Notifier != nil {
		if err := s.sinks.Notifier.SendAlert(ctx, FormatSummary(report)); err != nil {
			s.logger.Error("failed to send daily report", zap.Error(err))
			errs = append(errs, fmt.Errorf("notify report: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Run generates and publishes the report for now.
func (s *Service) Run(ctx context.Context, now time.Time) (models.DailyReport, error) {
	report, err := s.GenerateDailyReport(ctx, now)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("generate daily report: %w", err)
	}

	s.logger.Info("daily report generated",
		zap.Time("date", report.Date),
		zap.Int("total_stock", report.TotalStock),
		zap.Int("low_stock_types", len(report.LowStock)))

	if err := s.Publish(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}
