package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c2dbscraper/pkg/manifest"
	"c2dbscraper/pkg/models"
	"c2dbscraper/pkg/ui"
)

func TestSecondsToDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, secondsToDuration(1.5))
	assert.Equal(t, time.Duration(0), secondsToDuration(0))
}

func TestDownloadCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ui.SetQuietMode(true)
	defer ui.SetQuietMode(false)

	var (
		mu         sync.Mutex
		userAgents []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		userAgents = append(userAgents, r.UserAgent())
		mu.Unlock()
		if r.URL.Path == "/table" {
			fmt.Fprint(w, `<a href=/material/A>A</a><a href=/material/B>B</a>`)
			return
		}
		fmt.Fprint(w, "file")
	}))
	defer server.Close()

	outputDir := filepath.Join(t.TempDir(), "c2db")
	rootCmd.SetArgs([]string{
		"download",
		"--base-url", server.URL,
		"--output", outputDir,
		"--delay", "0",
		"--max-materials", "1",
	})
	require.NoError(t, rootCmd.Execute())

	records, err := manifest.Load(filepath.Join(outputDir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, []models.Record{models.NewRecord("A")}, records)

	assert.FileExists(t, filepath.Join(outputDir, "A", "A.json"))
	assert.FileExists(t, filepath.Join(outputDir, "A", "A.cif"))
	assert.NoDirExists(t, filepath.Join(outputDir, "B"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, userAgents, 3)
	for _, ua := range userAgents {
		assert.Equal(t, "c2dbscraper/1.0 (+https://github.com/)", ua)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c2dbscraper.yaml")
	t.Cleanup(func() { configFile = "" })

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sid: 1542")

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, rootCmd.Execute(), "refuses to overwrite")
}
