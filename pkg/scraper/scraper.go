package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"c2dbscraper/internal/downloader"
	"c2dbscraper/pkg/catalog"
	"c2dbscraper/pkg/config"
	"c2dbscraper/pkg/logger"
	"c2dbscraper/pkg/manifest"
	"c2dbscraper/pkg/models"
	"c2dbscraper/pkg/ratelimit"
	"c2dbscraper/pkg/storage"
)

// Options control a single run
type Options struct {
	SearchID     int
	OutputDir    string
	ManifestPath string
	// MaxMaterials truncates the slug list when >= 0.
	MaxMaterials int
}

// Result summarises a completed run
type Result struct {
	SlugsDiscovered int
	SlugsProcessed  int
	FilesFetched    int
	FilesSkipped    int
	BytesWritten    int64
	ManifestPath    string
	Duration        time.Duration
}

// Scraper orchestrates the crawl and download of a C2DB search
type Scraper struct {
	client  CatalogClient
	pacer   ratelimit.Pacer
	options Options
	logger  logger.Logger
}

// New creates a Scraper wired from configuration
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	client := catalog.NewClient(catalog.ClientOptions{
		BaseURL:   cfg.Catalog.BaseURL,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
		Limiter:   ratelimit.NewRequestLimiter(cfg.RateLimit.RequestsPerMinute),
	}, log)

	return NewWithClient(client, ratelimit.NewFixedDelay(cfg.Download.Delay), Options{
		SearchID:     cfg.Catalog.SearchID,
		OutputDir:    cfg.Output.BaseDirectory,
		ManifestPath: cfg.ManifestPath(),
		MaxMaterials: cfg.Download.MaxMaterials,
	}, log)
}

// NewWithClient creates a Scraper around an existing client and pacer
func NewWithClient(client CatalogClient, pacer ratelimit.Pacer, opts Options, log logger.Logger) (*Scraper, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if pacer == nil {
		pacer = ratelimit.NoDelay
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		client:  client,
		pacer:   pacer,
		options: opts,
		logger:  log,
	}, nil
}

// CollectSlugs walks every catalog page of the search and returns the
// unique material slugs in the order they were first listed.
func (s *Scraper) CollectSlugs(ctx context.Context) ([]string, error) {
	sid := s.options.SearchID

	first, err := s.client.FetchPage(ctx, sid, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching page 0: %w", err)
	}

	seen := catalog.NewSlugSet()
	seen.AddAll(catalog.ExtractSlugs(first))

	lastPage, ok := catalog.LastPage(first)
	if !ok {
		s.logger.WarnWithFields("No pagination links found, assuming a single page", map[string]interface{}{
			"sid": sid,
		})
	}
	s.logger.InfoWithFields("Detected catalog pages", map[string]interface{}{
		"sid":   sid,
		"pages": lastPage + 1,
	})

	for page := 1; page <= lastPage; page++ {
		html, err := s.client.FetchPage(ctx, sid, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		added := seen.AddAll(catalog.ExtractSlugs(html))
		s.logger.DebugWithFields("Processed catalog page", map[string]interface{}{
			"page":  page,
			"new":   added,
			"total": seen.Len(),
		})

		if page < lastPage {
			if err := s.pacer.Pause(ctx); err != nil {
				return nil, err
			}
		}
	}

	s.logger.InfoWithFields("Collected unique materials", map[string]interface{}{
		"count": seen.Len(),
	})
	return seen.Slugs(), nil
}

// Run collects the slugs, downloads each material in turn and writes the
// manifest. The manifest is only written when every material succeeded.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	store, err := storage.NewManager(s.options.OutputDir)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create storage manager")
		return nil, err
	}
	dl := downloader.New(s.client, store, s.pacer, s.logger)

	s.logger.InfoWithFields("Starting download", map[string]interface{}{
		"sid":        s.options.SearchID,
		"output_dir": s.options.OutputDir,
		"action":     "download_start",
	})

	slugs, err := s.CollectSlugs(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{SlugsDiscovered: len(slugs)}

	if s.options.MaxMaterials >= 0 && s.options.MaxMaterials < len(slugs) {
		slugs = slugs[:s.options.MaxMaterials]
		s.logger.InfoWithFields("Limiting run to first materials", map[string]interface{}{
			"max_materials": s.options.MaxMaterials,
		})
	}

	records := make([]models.Record, 0, len(slugs))
	for i, slug := range slugs {
		s.logger.Info(fmt.Sprintf("[%d/%d] Downloading %s", i+1, len(slugs), slug))

		item, err := dl.Download(ctx, slug)
		if item != nil {
			result.FilesFetched += item.Fetched
			result.FilesSkipped += item.Skipped
			result.BytesWritten += item.Bytes
		}
		if err != nil {
			return result, fmt.Errorf("downloading %s: %w", slug, err)
		}

		records = append(records, item.Record)
		result.SlugsProcessed++
	}

	manifestPath := s.manifestPath()
	if err := manifest.Write(manifestPath, records); err != nil {
		return result, err
	}
	result.ManifestPath = manifestPath
	result.Duration = time.Since(start)

	s.logger.InfoWithFields("Wrote manifest", map[string]interface{}{
		"path":      manifestPath,
		"materials": len(records),
	})
	return result, nil
}

func (s *Scraper) manifestPath() string {
	if s.options.ManifestPath != "" {
		return s.options.ManifestPath
	}
	return filepath.Join(s.options.OutputDir, config.ManifestFileName)
}
