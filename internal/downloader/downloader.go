package downloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"c2dbscraper/pkg/logger"
	"c2dbscraper/pkg/models"
	"c2dbscraper/pkg/ratelimit"
)

// FileFetcher opens remote material files
type FileFetcher interface {
	FileURL(slug string, kind models.Kind) string
	Stream(ctx context.Context, url string) (io.ReadCloser, error)
}

// FileStorage persists material files
type FileStorage interface {
	EnsureItemDir(slug string) error
	Exists(slug string, kind models.Kind) bool
	Save(r io.Reader, slug string, kind models.Kind) (int64, error)
}

// Result describes what happened for one slug
type Result struct {
	Record   models.Record
	Fetched  int
	Skipped  int
	Bytes    int64
	Duration time.Duration
}

// Downloader fetches every kind of file for a material, one after another
type Downloader struct {
	fetcher FileFetcher
	storage FileStorage
	pacer   ratelimit.Pacer
	logger  logger.Logger
}

// New creates a downloader. A nil pacer disables pauses.
func New(fetcher FileFetcher, storage FileStorage, pacer ratelimit.Pacer, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	if pacer == nil {
		pacer = ratelimit.NoDelay
	}

	return &Downloader{
		fetcher: fetcher,
		storage: storage,
		pacer:   pacer,
		logger:  log,
	}
}

// Download makes sure both files of slug are on disk. Files already present
// are left untouched and cost no request. After each file actually fetched
// the downloader pauses. The first failure aborts the slug; files saved
// before it stay in place.
func (d *Downloader) Download(ctx context.Context, slug string) (*Result, error) {
	start := time.Now()
	result := &Result{Record: models.NewRecord(slug)}

	if err := d.storage.EnsureItemDir(slug); err != nil {
		return result, err
	}

	for _, kind := range models.Kinds() {
		if d.storage.Exists(slug, kind) {
			d.logger.DebugWithFields("File already downloaded", map[string]interface{}{
				"slug": slug,
				"kind": string(kind),
			})
			result.Skipped++
			continue
		}

		n, err := d.fetch(ctx, slug, kind)
		if err != nil {
			return result, err
		}
		result.Fetched++
		result.Bytes += n

		if err := d.pacer.Pause(ctx); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	d.logger.DebugWithFields("Material complete", map[string]interface{}{
		"slug":     slug,
		"fetched":  result.Fetched,
		"skipped":  result.Skipped,
		"bytes":    result.Bytes,
		"duration": result.Duration,
	})
	return result, nil
}

func (d *Downloader) fetch(ctx context.Context, slug string, kind models.Kind) (int64, error) {
	url := d.fetcher.FileURL(slug, kind)

	d.logger.DebugWithFields("Downloading file", map[string]interface{}{
		"slug": slug,
		"kind": string(kind),
		"url":  url,
	})

	body, err := d.fetcher.Stream(ctx, url)
	if err != nil {
		d.logger.ErrorWithFields("Download failed", map[string]interface{}{
			"slug":  slug,
			"url":   url,
			"error": err.Error(),
		})
		return 0, err
	}
	defer body.Close()

	n, err := d.storage.Save(body, slug, kind)
	if err != nil {
		d.logger.ErrorWithFields("Failed to save file", map[string]interface{}{
			"slug":  slug,
			"kind":  string(kind),
			"error": err.Error(),
		})
		return n, fmt.Errorf("saving %s: %w", kind.FileName(slug), err)
	}
	return n, nil
}
