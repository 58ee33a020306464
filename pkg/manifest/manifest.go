// Package manifest reads and writes the JSON index of downloaded materials.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"c2dbscraper/pkg/models"
)

// Write stores records at path as an indented JSON array followed by a
// newline. Parent directories are created as needed and the file is
// replaced atomically.
func Write(path string, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(records); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync manifest file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close manifest file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace manifest file: %w", err)
	}
	return nil
}

// Load reads a manifest written by Write
func Load(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return records, nil
}
