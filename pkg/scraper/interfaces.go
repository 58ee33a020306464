package scraper

import (
	"context"

	"c2dbscraper/internal/downloader"
)

// CatalogClient defines the remote operations a crawl needs
type CatalogClient interface {
	downloader.FileFetcher
	FetchPage(ctx context.Context, sid, page int) (string, error)
}
