package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"c2dbscraper/pkg/config"
	c2dberrors "c2dbscraper/pkg/errors"
	"c2dbscraper/pkg/logger"
	"c2dbscraper/pkg/scraper"
	"c2dbscraper/pkg/ui"
)

var (
	// Download command flags
	searchID     int
	outputDir    string
	delaySeconds float64
	manifestPath string
	maxMaterials int
	baseURL      string
	rateLimit    int
	timeoutSecs  float64
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Crawl the catalog and download every material",
	Long: `Crawl every page of a C2DB search, then download the json and cif file of
each material into <output>/<slug>/ and write a manifest.

Existing files are never downloaded again. If any request fails the run stops
immediately and no manifest is written; run the command again to continue.`,
	Example: `  # Download the full default search
  c2dbscraper download

  # Download into a specific directory with a shorter pause
  c2dbscraper download --output ./c2db --delay 0.5

  # Try the first ten materials only
  c2dbscraper download --max-materials 10

  # Cap the request rate on top of the pause
  c2dbscraper download --rate-limit 30`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	// The root command downloads too, so it carries the same flags.
	for _, cmd := range []*cobra.Command{downloadCmd, rootCmd} {
		cmd.Flags().IntVar(&searchID, "sid", config.DefaultSearchID, "catalog search identifier")
		cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: downloads/c2db)")
		cmd.Flags().Float64Var(&delaySeconds, "delay", 1, "pause between requests in seconds")
		cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest path (default: <output>/manifest.json)")
		cmd.Flags().IntVar(&maxMaterials, "max-materials", -1, "download at most this many materials (-1 for all)")
		cmd.Flags().StringVar(&baseURL, "base-url", config.DefaultBaseURL, "C2DB server root")
		cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "maximum requests per minute (0 for no ceiling)")
		cmd.Flags().Float64Var(&timeoutSecs, "timeout", 60, "request timeout in seconds")
	}
}

// collectFlags returns only the flags the user set explicitly so that
// unset flags do not override the config file or environment.
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("sid") {
		flags["sid"] = searchID
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("delay") {
		flags["delay"] = secondsToDuration(delaySeconds)
	}
	if changed("manifest") {
		flags["manifest"] = manifestPath
	}
	if changed("max-materials") {
		flags["max-materials"] = maxMaterials
	}
	if changed("base-url") {
		flags["base-url"] = baseURL
	}
	if changed("rate-limit") {
		flags["rate-limit"] = rateLimit
	}
	if changed("timeout") {
		flags["timeout"] = secondsToDuration(timeoutSecs)
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	return flags
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("c2dbscraper starting")

	ui.PrintBanner()
	ui.PrintInfo("Search", strconv.Itoa(cfg.Catalog.SearchID))
	ui.PrintInfo("Output", cfg.Output.BaseDirectory)
	ui.PrintInfo("Delay", cfg.Download.Delay.String())

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize downloader", err.Error())
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := s.Run(ctx)
	if err != nil {
		fields := map[string]interface{}{}
		if te, ok := c2dberrors.AsTransport(err); ok {
			fields["url"] = te.URL
			fields["status"] = te.StatusCode
		}
		log.WithError(err).ErrorWithFields("Download failed", fields)
		ui.PrintError("DOWNLOAD FAILED", err.Error())
		return err
	}

	logger.LogRunSummary(map[string]interface{}{
		"materials":     result.SlugsProcessed,
		"discovered":    result.SlugsDiscovered,
		"files_fetched": result.FilesFetched,
		"files_skipped": result.FilesSkipped,
		"bytes":         result.BytesWritten,
		"manifest":      result.ManifestPath,
		"duration":      result.Duration,
	})

	ui.PrintSuccess(fmt.Sprintf("Downloaded %d materials (%d files fetched, %d already present)",
		result.SlugsProcessed, result.FilesFetched, result.FilesSkipped))
	ui.PrintInfo("Manifest", result.ManifestPath)
	return nil
}
