package drive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
)

var ErrFolderNotFound = errors.New("folder not found")

// DownloadOptions controls how files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader copies importable tables out of Drive.
type Downloader struct {
	source Source
}

func NewDownloader(s Source) *Downloader {
	return &Downloader{source: s}
}

// DownloadFolder downloads every .csv and .xlsx file of a folder into
// DownloadDir. Other files are skipped.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]domain.UploadedFile, error) {
	files, err := d.source.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	var local []domain.UploadedFile
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := ingest.FormatFromName(f.Name); err != nil {
			continue
		}

		uploaded, err := d.Download(ctx, f, opts.DownloadDir)
		if err != nil {
			return nil, err
		}
		local = append(local, *uploaded)
	}

	return local, nil
}

// Download writes one Drive file into dir under its Drive name.
func (d *Downloader) Download(ctx context.Context, f *File, dir string) (*domain.UploadedFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	localPath := filepath.Join(dir, filepath.Base(f.Name))
	out, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer out.Close()

	if err := d.source.DownloadFile(ctx, f.ID, out); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
	}

	info, err := out.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", localPath, err)
	}

	return &domain.UploadedFile{Filename: f.Name, Path: localPath, Size: info.Size()}, nil
}
