package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/domain/models"
	core "github.com/mamadbah2/montwater/internal/inventory"
)

// DefaultSeriesDays is the window of the dashboard activity chart.
const DefaultSeriesDays = 7

// Service exposes the operations the UI layer performs on the inventory. It
// validates every mutation against the current store state and serializes writes
// so a check and the write it guards cannot interleave with another mutation.
type Service struct {
	store  *core.Store
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	writeMu sync.Mutex
}

// NewService wires a new inventory service. Day boundaries are computed in loc.
func NewService(store *core.Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:  store,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Location returns the time zone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// CreateProduction validates and records a new production entry.
func (s *Service) CreateProduction(ctx context.Context, entry models.ProductionEntry) (models.ProductionEntry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := core.ValidateNewProduction(entry); err != nil {
		s.logger.Debug("production rejected", zap.Error(err))
		return models.ProductionEntry{}, err
	}

	entry.ID = s.newID()
	if err := s.store.AddProduction(ctx, entry); err != nil {
		return models.ProductionEntry{}, err
	}

	s.logger.Info("production recorded",
		zap.String("id", entry.ID),
		zap.String("water_type", string(entry.WaterType)),
		zap.Int("quantity", entry.Quantity),
		zap.String("batch_id", entry.BatchID))
	return entry, nil
}

// EditProduction applies patch to the production entry with the given id.
func (s *Service) EditProduction(ctx context.Context, id string, patch models.ProductionPatch) (models.ProductionEntry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, ok := s.store.FindProduction(id)
	if !ok {
		return models.ProductionEntry{}, notFound("production", id)
	}
	if err := core.ValidateProductionEdit(existing, patch, s.store); err != nil {
		s.logger.Debug("production edit rejected", zap.String("id", id), zap.Error(err))
		return models.ProductionEntry{}, err
	}

	updated, err := s.store.EditProduction(ctx, id, patch)
	if err != nil {
		return models.ProductionEntry{}, err
	}

	s.logger.Info("production updated", zap.String("id", id), zap.Int("quantity", updated.Quantity))
	return updated, nil
}

// CreateSale validates a new sale against the current stock and records it.
func (s *Service) CreateSale(ctx context.Context, entry models.SalesEntry) (models.SalesEntry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := core.ValidateNewSale(entry, s.store); err != nil {
		s.logStockRejection("sale rejected", err)
		return models.SalesEntry{}, err
	}

	entry.ID = s.newID()
	if entry.Customer == "" {
		entry.Customer = models.DefaultCustomer
	}
	if err := s.store.AddSale(ctx, entry); err != nil {
		return models.SalesEntry{}, err
	}

	s.logger.Info("sale recorded",
		zap.String("id", entry.ID),
		zap.String("water_type", string(entry.WaterType)),
		zap.Int("quantity", entry.Quantity))
	return entry, nil
}

// EditSale applies patch to the sale with the given id after re-checking stock.
func (s *Service) EditSale(ctx context.Context, id string, patch models.SalesPatch) (models.SalesEntry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, ok := s.store.FindSale(id)
	if !ok {
		return models.SalesEntry{}, notFound("sale", id)
	}
	if err := core.ValidateSaleEdit(existing, patch, s.store); err != nil {
		s.logStockRejection("sale edit rejected", err)
		return models.SalesEntry{}, err
	}

	updated, err := s.store.EditSale(ctx, id, patch)
	if err != nil {
		return models.SalesEntry{}, err
	}

	s.logger.Info("sale updated", zap.String("id", id), zap.Int("quantity", updated.Quantity))
	return updated, nil
}

// ListProduction returns the production history, newest first.
func (s *Service) ListProduction() []models.ProductionEntry {
	out := core.SortProductionByDateDesc(s.store.Production())
	if out == nil {
		out = []models.ProductionEntry{}
	}
	return out
}

// ListSales returns the sales history, newest first.
func (s *Service) ListSales() []models.SalesEntry {
	out := core.SortSalesByDateDesc(s.store.Sales())
	if out == nil {
		out = []models.SalesEntry{}
	}
	return out
}

// Stock returns the summary of a single water type.
func (s *Service) Stock(wt models.WaterType) models.TypeSummary {
	snap := s.store.Snapshot()
	return core.Summarize(snap.Production, snap.Sales, wt)
}

// TotalStock returns the packs on hand over all types.
func (s *Service) TotalStock() int {
	return s.store.TotalInventory()
}

// Summaries returns the stock summary of every water type.
func (s *Service) Summaries() []models.TypeSummary {
	snap := s.store.Snapshot()
	return core.Summaries(snap.Production, snap.Sales)
}

// DailySeries returns the last days of activity ending today, oldest first.
func (s *Service) DailySeries(days int) []models.DayActivity {
	snap := s.store.Snapshot()
	out := slices.Collect(core.DailySeries(snap.Production, snap.Sales, days, s.now(), s.loc))
	if out == nil {
		out = []models.DayActivity{}
	}
	return out
}

// Export renders the current state as a portable document and its file name.
func (s *Service) Export() ([]byte, string, error) {
	data, err := core.Export(s.store.Snapshot())
	if err != nil {
		return nil, "", err
	}
	return data, core.ExportFilename(s.now().In(s.loc)), nil
}

// Import replaces the whole state with the given document. Nothing changes when
// the document is rejected.
func (s *Service) Import(ctx context.Context, data []byte) (models.Document, error) {
	doc, err := core.Decode(data)
	if err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		return models.Document{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.ImportData(ctx, doc); err != nil {
		return models.Document{}, err
	}

	s.logger.Info("inventory imported",
		zap.Int("production", len(doc.Production)),
		zap.Int("sales", len(doc.Sales)))
	return doc, nil
}

func (s *Service) logStockRejection(msg string, err error) {
	var stockErr *core.InsufficientStockError
	if errors.As(err, &stockErr) {
		s.logger.Info(msg,
			zap.String("water_type", string(stockErr.WaterType)),
			zap.Int("available", stockErr.Available),
			zap.Int("requested", stockErr.Requested))
		return
	}
	s.logger.Debug(msg, zap.Error(err))
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, core.ErrNotFound)
}
