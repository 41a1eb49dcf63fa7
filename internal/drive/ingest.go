package drive

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Importer replaces the record store with tables on disk.
type Importer interface {
	ImportPaths(ctx context.Context, records, suppliers *domain.UploadedFile) (*domain.ImportResult, error)
}

// IngestService imports Drive files into the record store.
type IngestService struct {
	source      Source
	downloader  *Downloader
	importer    Importer
	downloadDir string
}

func NewIngestService(source Source, importer Importer, downloadDir string) *IngestService {
	return &IngestService{
		source:      source,
		downloader:  NewDownloader(source),
		importer:    importer,
		downloadDir: downloadDir,
	}
}

// Import downloads the records file and, when suppliersFileID is set, the
// supplier file, then imports both. Downloads are removed afterwards.
func (s *IngestService) Import(ctx context.Context, recordsFileID, suppliersFileID string) (*domain.ImportResult, error) {
	records, err := s.fetch(ctx, recordsFileID)
	if err != nil {
		return nil, err
	}
	defer cleanup(records)

	var suppliers *domain.UploadedFile
	if suppliersFileID != "" {
		suppliers, err = s.fetch(ctx, suppliersFileID)
		if err != nil {
			return nil, err
		}
		defer cleanup(suppliers)
	}

	result, err := s.importer.ImportPaths(ctx, records, suppliers)
	if err != nil {
		return nil, fmt.Errorf("import drive files: %w", err)
	}

	log.Info().
		Str("records_file", records.Filename).
		Int("records", result.Records).
		Int("suppliers", result.Suppliers).
		Msg("drive: import complete")

	return result, nil
}

func (s *IngestService) fetch(ctx context.Context, fileID string) (*domain.UploadedFile, error) {
	f, err := s.source.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.downloader.Download(ctx, f, s.downloadDir)
}

func cleanup(f *domain.UploadedFile) {
	if err := os.Remove(f.Path); err != nil {
		log.Warn().Err(err).Str("path", f.Path).Msg("drive: failed to remove download")
	}
}
