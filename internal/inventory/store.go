package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

// DefaultStorageKey is the key the whole store state is persisted under.
const DefaultStorageKey = "inventory-storage"

// StateRepository is the durable storage port of the Store. The whole state is
// read and written as one record.
type StateRepository interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Store owns the production and sales collections. Every mutation persists the
// full state before the in-memory view changes, so a failed write leaves the
// store as it was.
type Store struct {
	repo   StateRepository
	key    string
	logger *zap.Logger

	mu    sync.RWMutex
	state models.Document
}

// NewStore loads the persisted state under key, or starts with two empty
// collections when nothing has been saved yet.
func NewStore(ctx context.Context, repo StateRepository, key string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultStorageKey
	}

	s := &Store{repo: repo, key: key, logger: logger, state: normalize(models.Document{})}

	data, found, err := repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load inventory state: %w", err)
	}
	if !found {
		logger.Info("no persisted inventory state, starting empty", zap.String("key", key))
		return s, nil
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode inventory state: %w", err)
	}
	s.state = normalize(doc)

	logger.Info("inventory state loaded",
		zap.String("key", key),
		zap.Int("production", len(s.state.Production)),
		zap.Int("sales", len(s.state.Sales)))
	return s, nil
}

// AddProduction appends a production entry and persists.
func (s *Store) AddProduction(ctx context.Context, entry models.ProductionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.Production = append(slices.Clone(s.state.Production), entry)
	return s.commit(ctx, next)
}

// AddSale appends a sales entry and persists.
func (s *Store) AddSale(ctx context.Context, entry models.SalesEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.Sales = append(slices.Clone(s.state.Sales), entry)
	return s.commit(ctx, next)
}

// EditProduction overwrites the patched fields of the entry with the given id.
func (s *Store) EditProduction(ctx context.Context, id string, patch models.ProductionPatch) (models.ProductionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.state.Production, func(e models.ProductionEntry) bool { return e.ID == id })
	if idx < 0 {
		return models.ProductionEntry{}, fmt.Errorf("production %s: %w", id, ErrNotFound)
	}

	next := s.state
	next.Production = slices.Clone(s.state.Production)
	next.Production[idx] = patch.Apply(next.Production[idx])
	if err := s.commit(ctx, next); err != nil {
		return models.ProductionEntry{}, err
	}
	return next.Production[idx], nil
}

// EditSale overwrites the patched fields of the entry with the given id.
func (s *Store) EditSale(ctx context.Context, id string, patch models.SalesPatch) (models.SalesEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.state.Sales, func(e models.SalesEntry) bool { return e.ID == id })
	if idx < 0 {
		return models.SalesEntry{}, fmt.Errorf("sale %s: %w", id, ErrNotFound)
	}

	next := s.state
	next.Sales = slices.Clone(s.state.Sales)
	next.Sales[idx] = patch.Apply(next.Sales[idx])
	if err := s.commit(ctx, next); err != nil {
		return models.SalesEntry{}, err
	}
	return next.Sales[idx], nil
}

// ImportData replaces both collections wholesale.
func (s *Store) ImportData(ctx context.Context, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.Document{
		Production: slices.Clone(doc.Production),
		Sales:      slices.Clone(doc.Sales),
	}
	return s.commit(ctx, normalize(next))
}

// Production returns a copy of the production collection in insertion order.
func (s *Store) Production() []models.ProductionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Production)
}

// Sales returns a copy of the sales collection in insertion order.
func (s *Store) Sales() []models.SalesEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Sales)
}

// Snapshot returns a copy of both collections.
func (s *Store) Snapshot() models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Document{
		Production: slices.Clone(s.state.Production),
		Sales:      slices.Clone(s.state.Sales),
	}
}

// FindProduction returns the production entry with the given id.
func (s *Store) FindProduction(id string) (models.ProductionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.state.Production {
		if e.ID == id {
			return e, true
		}
	}
	return models.ProductionEntry{}, false
}

// FindSale returns the sales entry with the given id.
func (s *Store) FindSale(id string) (models.SalesEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.state.Sales {
		if e.ID == id {
			return e, true
		}
	}
	return models.SalesEntry{}, false
}

// InventoryByType returns the current stock of one water type.
func (s *Store) InventoryByType(wt models.WaterType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CurrentStock(s.state.Production, s.state.Sales, wt)
}

// TotalInventory returns the current stock summed over all types.
func (s *Store) TotalInventory() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalStock(s.state.Production, s.state.Sales)
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next models.Document) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode inventory state: %w", err)
	}
	if err := s.repo.Save(ctx, s.key, data); err != nil {
		s.logger.Error("failed to persist inventory state", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("persist inventory state: %w", err)
	}
	s.state = next
	return nil
}
