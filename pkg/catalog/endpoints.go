package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"c2dbscraper/pkg/models"
)

const (
	// TableEndpoint lists search results one page at a time
	TableEndpoint = "/table"

	// MaterialEndpoint prefixes every per-material resource
	MaterialEndpoint = "/material/"
)

// TableURL constructs the URL of one catalog page for a search identifier
func TableURL(baseURL string, sid, page int) string {
	// Parameter order matters to the server's own pagination links, so the
	// query is assembled by hand instead of with url.Values.
	return fmt.Sprintf("%s%s?sid=%d&page=%d", strings.TrimRight(baseURL, "/"), TableEndpoint, sid, page)
}

// FileURL constructs the download URL of one file of a material
func FileURL(baseURL, slug string, kind models.Kind) string {
	return strings.TrimRight(baseURL, "/") + MaterialEndpoint + url.PathEscape(slug) + "/download/" + string(kind)
}
