// Package catalog provides a client for the C2DB web server and the parsers
// that turn its catalog pages into material slugs.
//
// This package includes:
//   - URL builders for catalog pages and per-material downloads
//   - An HTTP client that reports every failure as a TransportError
//   - ExtractSlugs and LastPage, which scan raw page text
//   - SlugSet, an insertion-ordered set used for deduplication
//
// Example usage:
//
//	client := catalog.NewClient(catalog.ClientOptions{
//	    BaseURL: "https://c2db.fysik.dtu.dk",
//	    Timeout: 60 * time.Second,
//	}, log)
//
//	html, err := client.FetchPage(ctx, 1542, 0)
//	if err != nil {
//	    return err
//	}
//	slugs := catalog.ExtractSlugs(html)
//	last, _ := catalog.LastPage(html)
package catalog
