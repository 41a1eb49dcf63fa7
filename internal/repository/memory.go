package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

type memoryRepository struct {
	mu        sync.RWMutex
	records   []domain.SupplyChainRecord
	suppliers []domain.SupplierRecord
}

// NewMemoryRepository returns a process-local store. Reads return copies, so
// callers may keep the slices after a later replace.
func NewMemoryRepository() RecordRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) ListRecords(ctx context.Context) ([]domain.SupplyChainRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SupplyChainRecord(nil), r.records...), nil
}

func (r *memoryRepository) ListSuppliers(ctx context.Context) ([]domain.SupplierRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SupplierRecord(nil), r.suppliers...), nil
}

func (r *memoryRepository) GetSupplier(ctx context.Context, name string) (domain.SupplierRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.SupplierRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// last match wins, as with an upsert
	for i := len(r.suppliers) - 1; i >= 0; i-- {
		if r.suppliers[i].Name == name {
			return r.suppliers[i], nil
		}
	}
	return domain.SupplierRecord{}, fmt.Errorf("supplier %q: %w", name, ErrNotFound)
}

func (r *memoryRepository) ReplaceRecords(ctx context.Context, records []domain.SupplyChainRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]domain.SupplyChainRecord(nil), records...)
	return nil
}

func (r *memoryRepository) ReplaceSuppliers(ctx context.Context, suppliers []domain.SupplierRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers = append([]domain.SupplierRecord(nil), suppliers...)
	return nil
}
