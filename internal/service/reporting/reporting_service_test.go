package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

type staticSource models.Document

func (s staticSource) Snapshot() models.Document { return models.Document(s) }

type fakeArchive struct {
	reports []models.DailyReport
	err     error
}

func (f *fakeArchive) SaveDailyReport(_ context.Context, r models.DailyReport) error {
	f.reports = append(f.reports, r)
	return f.err
}

type fakeSheet struct {
	reports []models.DailyReport
}

func (f *fakeSheet) AppendDailyReport(_ context.Context, r models.DailyReport) error {
	f.reports = append(f.reports, r)
	return nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) SendAlert(_ context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

var now = time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)

func sampleSource() staticSource {
	yesterday := now.AddDate(0, 0, -1)
	return staticSource{
		Production: []models.ProductionEntry{
			{ID: "p1", Date: yesterday, Quantity: 1000, BatchID: "B1", WaterType: models.Water330ml},
			{ID: "p2", Date: now, Quantity: 100, BatchID: "B2", WaterType: models.Water500ml},
		},
		Sales: []models.SalesEntry{
			{ID: "s1", Date: now, Quantity: 400, WaterType: models.Water330ml},
		},
	}
}

func TestGenerateDailyReport(t *testing.T) {
	svc := NewService(sampleSource(), Sinks{}, time.UTC, zaptest.NewLogger(t))

	report, err := svc.GenerateDailyReport(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, 700, report.TotalStock)
	assert.Equal(t, 100, report.ProducedToday)
	assert.Equal(t, 400, report.SoldToday)
	assert.Equal(t, []models.WaterType{models.Water500ml, models.Water1Ltr}, report.LowStock)
	require.Len(t, report.Stock, 3)
	assert.Equal(t, 600, report.Stock[0].Stock)
	assert.Equal(t, models.StockHealthy, report.Stock[0].Status)
}

func TestFormatSummary(t *testing.T) {
	svc := NewService(sampleSource(), Sinks{}, time.UTC, nil)
	report, err := svc.GenerateDailyReport(context.Background(), now)
	require.NoError(t, err)

	text := FormatSummary(report)

	assert.Contains(t, text, "Mont Water stock report 2024-01-07")
	assert.Contains(t, text, "330ml: 600 packs (12000 bottles)")
	assert.Contains(t, text, "500ml: 100 packs (1500 bottles) LOW")
	assert.Contains(t, text, "Total: 700 packs")
	assert.Contains(t, text, "Today: produced 100, sold 400")
	assert.Contains(t, text, "Restock needed: 500ml, 1Ltr (below 500 packs).")
}

func TestPublish_FansOutAndJoinsErrors(t *testing.T) {
	archive := &fakeArchive{err: errors.New("mongo down")}
	sheet := &fakeSheet{}
	notifier := &fakeNotifier{}
	svc := NewService(sampleSource(), Sinks{Archive: archive, Sheet: sheet, Notifier: notifier}, time.UTC, zaptest.NewLogger(t))

	report, err := svc.Run(context.Background(), now)

	require.Error(t, err)
	assert.ErrorIs(t, err, archive.err)
	assert.Len(t, archive.reports, 1)
	assert.Len(t, sheet.reports, 1, "a failing sink must not stop the others")
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, FormatSummary(report), notifier.messages[0])
}

func TestPublish_NoSinks(t *testing.T) {
	svc := NewService(sampleSource(), Sinks{}, time.UTC, nil)

	_, err := svc.Run(context.Background(), now)

	assert.NoError(t, err)
}
