// backend-go/internal/repository/record_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

var ErrNotFound = errors.New("not found")

// RecordRepository is the record store the analytics engine reads from.
// ListRecords returns records in the order they were stored, which callers
// treat as chronological.
type RecordRepository interface {
	ListRecords(ctx context.Context) ([]domain.SupplyChainRecord, error)
	ListSuppliers(ctx context.Context) ([]domain.SupplierRecord, error)
	GetSupplier(ctx context.Context, name string) (domain.SupplierRecord, error)

	// ReplaceRecords and ReplaceSuppliers swap the whole collection.
	ReplaceRecords(ctx context.Context, records []domain.SupplyChainRecord) error
	ReplaceSuppliers(ctx context.Context, suppliers []domain.SupplierRecord) error
}
