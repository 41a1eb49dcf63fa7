package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoRecords     = errors.New("import contains no records")
	ErrInvalidImport = errors.New("invalid import file")
)

// ImportFile is one uploaded table held in memory.
type ImportFile struct {
	Name string
	Data []byte
}

// ImportRequest carries a record table and an optional supplier table.
type ImportRequest struct {
	Records   ImportFile
	Suppliers *ImportFile
}

// CacheInvalidator drops derived results after the store changes.
type CacheInvalidator interface {
	InvalidateCaches(ctx context.Context)
}

type ImportService struct {
	repo          repository.RecordRepository
	caches        CacheInvalidator
	archive       storage.ObjectStorage
	archivePrefix string
	now           func() time.Time
}

// NewImportService builds the import flow. archive may be nil, in which case
// raw files are not kept.
func NewImportService(repo repository.RecordRepository, caches CacheInvalidator, archive storage.ObjectStorage, archivePrefix string) *ImportService {
	return &ImportService{
		repo:          repo,
		caches:        caches,
		archive:       archive,
		archivePrefix: archivePrefix,
		now:           time.Now,
	}
}

// Import parses both tables concurrently and replaces the store content with
// them. Suppliers are only replaced when a supplier table is given.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*domain.ImportResult, error) {
	parser := ingest.NewParser(s.now)

	var (
		records   []domain.SupplyChainRecord
		suppliers []domain.SupplierRecord
	)

	var g errgroup.Group
	g.Go(func() error {
		parsed, err := parseTable(req.Records, parser.Records)
		if err != nil {
			return err
		}
		records = parsed
		return nil
	})
	if req.Suppliers != nil {
		g.Go(func() error {
			parsed, err := parseTable(*req.Suppliers, parser.Suppliers)
			if err != nil {
				return err
			}
			suppliers = parsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	if err := s.repo.ReplaceRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("store records: %w", err)
	}
	if req.Suppliers != nil {
		if err := s.repo.ReplaceSuppliers(ctx, suppliers); err != nil {
			return nil, fmt.Errorf("store suppliers: %w", err)
		}
	}

	if s.caches != nil {
		s.caches.InvalidateCaches(ctx)
	}

	result := &domain.ImportResult{
		Records:    len(records),
		Suppliers:  len(suppliers),
		ImportedAt: s.now().UTC(),
	}
	result.Archived = s.archiveFiles(ctx, result.ImportedAt, req)

	log.Info().
		Int("records", result.Records).
		Int("suppliers", result.Suppliers).
		Int("archived", len(result.Archived)).
		Msg("import: store replaced")

	return result, nil
}

// ImportPaths imports tables from disk. suppliers may be nil.
func (s *ImportService) ImportPaths(ctx context.Context, records *domain.UploadedFile, suppliers *domain.UploadedFile) (*domain.ImportResult, error) {
	if records == nil {
		return nil, ErrNoRecords
	}

	recordFile, err := readUploaded(records)
	if err != nil {
		return nil, err
	}
	req := ImportRequest{Records: recordFile}

	if suppliers != nil {
		supplierFile, err := readUploaded(suppliers)
		if err != nil {
			return nil, err
		}
		req.Suppliers = &supplierFile
	}

	return s.Import(ctx, req)
}

// archiveFiles uploads the raw tables. Failures are logged; the import has
// already been applied.
func (s *ImportService) archiveFiles(ctx context.Context, at time.Time, req ImportRequest) []string {
	if s.archive == nil {
		return nil
	}

	files := []ImportFile{req.Records}
	if req.Suppliers != nil {
		files = append(files, *req.Suppliers)
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := storage.ArchiveKey(s.archivePrefix, f.Name, at)
		if err := s.archive.UploadObject(ctx, key, f.Data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("import: archive upload failed")
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func parseTable[T any](f ImportFile, parse func(ingest.Format, io.Reader) ([]T, error)) ([]T, error) {
	format, err := ingest.FormatFromName(f.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	out, err := parse(format, bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidImport, f.Name, err)
	}
	return out, nil
}

func readUploaded(f *domain.UploadedFile) (ImportFile, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ImportFile{}, fmt.Errorf("read %s: %w", f.Path, err)
	}
	name := f.Filename
	if name == "" {
		name = f.Path
	}
	return ImportFile{Name: name, Data: data}, nil
}
