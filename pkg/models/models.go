package models

import (
	"path"
	"path/filepath"
	"strings"
)

// Kind identifies one of the two files stored for every material.
type Kind string

const (
	KindJSON Kind = "json"
	KindCIF  Kind = "cif"
)

// Kinds returns every download kind in the order files are fetched.
func Kinds() []Kind {
	return []Kind{KindJSON, KindCIF}
}

// Suffix returns the filename suffix used when storing a file of this kind.
func (k Kind) Suffix() string {
	return string(k)
}

// FileName returns the stored file name for a slug, e.g. "MoS2-abc.json".
func (k Kind) FileName(slug string) string {
	return slug + "." + k.Suffix()
}

// RelativePath returns the slash-separated path of a slug's file relative
// to the output root.
func (k Kind) RelativePath(slug string) string {
	return path.Join(slug, k.FileName(slug))
}

// ValidSlug reports whether slug can name a single directory below the
// output root. Empty names, "." and "..", and anything containing a path
// separator are rejected.
func ValidSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	if strings.ContainsAny(slug, `/\`) {
		return false
	}
	return filepath.IsLocal(slug)
}

// Record is one manifest entry mapping a slug to its stored files.
type Record struct {
	Slug string `json:"slug"`
	JSON string `json:"json"`
	CIF  string `json:"cif"`
}

// NewRecord builds the record for a slug whose files are all present.
func NewRecord(slug string) Record {
	return Record{
		Slug: slug,
		JSON: KindJSON.RelativePath(slug),
		CIF:  KindCIF.RelativePath(slug),
	}
}
