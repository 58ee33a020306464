package catalog

import (
	"regexp"
	"strconv"

	"c2dbscraper/pkg/models"
)

var (
	// materialLinkRe matches href=/material/<slug>, quoted or not. The slug
	// runs until whitespace, a quote or the end of the tag.
	materialLinkRe = regexp.MustCompile(`href=["']?/material/([^\s"'<>]+)`)

	// pageMarkerRe matches pagination links; the ampersand may be HTML-escaped.
	pageMarkerRe = regexp.MustCompile(`/table\?sid=\d+&(?:amp;)?page=(\d+)`)
)

// ExtractSlugs returns the material slugs referenced on a page, in order of
// first appearance and without duplicates. References that could not name
// a single directory, such as "../x" or "A/download/json", are dropped.
func ExtractSlugs(html string) []string {
	set := NewSlugSet()
	for _, m := range materialLinkRe.FindAllStringSubmatch(html, -1) {
		if !models.ValidSlug(m[1]) {
			continue
		}
		set.Add(m[1])
	}
	return set.Slugs()
}

// LastPage returns the highest page index (inclusive) linked from the page.
// ok is false when the page carries no pagination markers, in which case
// the result is 0 and only the first page exists.
func LastPage(html string) (last int, ok bool) {
	for _, m := range pageMarkerRe.FindAllStringSubmatch(html, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Only overflow can fail here; such a marker is not a usable page.
			continue
		}
		if !ok || n > last {
			last = n
			ok = true
		}
	}
	return last, ok
}
