package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindJSON, KindCIF}, Kinds())
	assert.Equal(t, "json", KindJSON.Suffix())
	assert.Equal(t, "cif", KindCIF.Suffix())
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("MoS2-b3b4685fb6e1")

	assert.Equal(t, "MoS2-b3b4685fb6e1", rec.Slug)
	assert.Equal(t, "MoS2-b3b4685fb6e1/MoS2-b3b4685fb6e1.json", rec.JSON)
	assert.Equal(t, "MoS2-b3b4685fb6e1/MoS2-b3b4685fb6e1.cif", rec.CIF)
}

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"MoS2-b3b4685fb6e1", true},
		{"Cr2I6-1f5d..x", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../escaped", false},
		{"X/download/json", false},
		{`a\b`, false},
		{"/abs", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidSlug(tt.slug))
		})
	}
}
