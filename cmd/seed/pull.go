package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/storage"
	"github.com/andresuchdata/logistics-analytics/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func pullCommand() *cli.Command {
	return &cli.Command{
		Name:  "pull",
		Usage: "Download archived import files from object storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "prefix",
				Usage:   "Object prefix to list (defaults to STORAGE_ARCHIVE_PREFIX)",
				EnvVars: []string{"STORAGE_PULL_PREFIX"},
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Download a single object, relative to the prefix",
			},
			&cli.StringFlag{
				Name:  "download-dir",
				Usage: "Local directory for downloaded files",
				Value: "./data/tmp/archive",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent downloads",
				Value: 4,
			},
		},
		Action: runPull,
	}
}

func runPull(c *cli.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	prefix := c.String("prefix")
	if prefix == "" {
		prefix = cfg.Storage.ArchivePrefix
	}

	paths, err := newPuller(client, c.String("download-dir"), c.Int("workers")).pull(c.Context, prefix, c.String("key"))
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}
	logger.Log.Info().Int("files", len(paths)).Str("prefix", prefix).Msg("archive pulled")
	return nil
}

type puller struct {
	client  storage.ObjectStorage
	destDir string
	workers int
}

func newPuller(client storage.ObjectStorage, destDir string, workers int) *puller {
	if workers < 1 {
		workers = 1
	}
	return &puller{client: client, destDir: destDir, workers: workers}
}

// pull downloads every importable object under prefix, or only override when
// it is set, and returns the sorted local paths.
func (p *puller) pull(ctx context.Context, prefix, override string) ([]string, error) {
	var keys []string

	if override != "" {
		keys = []string{storage.ResolveObjectKey(prefix, override)}
	} else {
		listPrefix := strings.TrimSpace(prefix)
		objects, err := p.client.ListObjects(ctx, listPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects for prefix %s: %w", listPrefix, err)
		}
		for _, obj := range objects {
			if _, err := ingest.FormatFromName(obj.Key); err == nil {
				keys = append(keys, obj.Key)
			}
		}
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no importable files found for prefix %s", prefix)
	}

	localPaths := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, key := range keys {
		localPath := filepath.Join(p.destDir, storage.ObjectRelativePath(prefix, key))
		localPaths[i] = localPath
		g.Go(func() error {
			if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
				return fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
			}
			return p.client.DownloadObject(gctx, key, localPath)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(localPaths)
	return localPaths, nil
}
