// Package scraper provides the core functionality for downloading a C2DB
// search.
//
// The scraper package orchestrates the entire download process, coordinating
// between the catalog client, the item downloader, storage and the manifest.
//
// Architecture:
//
// The Scraper struct is the main component that:
//   - Walks every page of a catalog search and deduplicates material slugs
//   - Downloads the json and cif file of each material in listing order
//   - Skips files that are already on disk
//   - Writes a manifest once every material has been stored
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := s.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Pacing:
//
// Requests are strictly sequential. A fixed pause is taken between catalog
// pages and after each file actually downloaded; an optional requests per
// minute ceiling can be layered on top.
//
// Storage:
//
// Files are saved as {output}/{slug}/{slug}.json and {output}/{slug}/{slug}.cif.
// A failed run writes no manifest, and rerunning it only fetches what is
// still missing.
package scraper
