package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"c2dbscraper/pkg/models"
)

// ErrInvalidSlug is returned for slugs that would resolve outside their own
// directory below the output root.
var ErrInvalidSlug = errors.New("invalid slug")

// Manager lays out downloaded material files under an output directory.
// Presence is always checked against the filesystem; nothing is cached.
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// ItemDir returns the directory holding a slug's files
func (m *Manager) ItemDir(slug string) string {
	return filepath.Join(m.outputDir, slug)
}

func checkSlug(slug string) error {
	if !models.ValidSlug(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// EnsureItemDir creates the slug's directory if needed
func (m *Manager) EnsureItemDir(slug string) error {
	if err := checkSlug(slug); err != nil {
		return err
	}
	if err := os.MkdirAll(m.ItemDir(slug), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", slug, err)
	}
	return nil
}

// Path returns the absolute location of one file of a slug
func (m *Manager) Path(slug string, kind models.Kind) string {
	return filepath.Join(m.ItemDir(slug), kind.FileName(slug))
}

// Exists reports whether the file is already on disk
func (m *Manager) Exists(slug string, kind models.Kind) bool {
	if checkSlug(slug) != nil {
		return false
	}
	info, err := os.Stat(m.Path(slug, kind))
	return err == nil && info.Mode().IsRegular()
}

// Save writes the contents of r to the slug's file and returns the number
// of bytes written. The file only appears under its final name once the
// copy has completed.
func (m *Manager) Save(r io.Reader, slug string, kind models.Kind) (int64, error) {
	if err := checkSlug(slug); err != nil {
		return 0, err
	}
	filename := m.Path(slug, kind)

	// Create temporary file first
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	written, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to save %s: %w", kind.FileName(slug), err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to close file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return written, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return written, nil
}
