package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"c2dbscraper/pkg/config"
	"c2dbscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage c2dbscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (C2DB_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'c2dbscraper.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging the configuration file,
.env files, environment variables and defaults.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load the configuration from every source and check it for invalid values.

This command checks:
  - YAML syntax
  - Catalog URL and search identifier
  - Timeouts, delay and rate limit ranges
  - Output and log paths`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# c2dbscraper configuration file
#
# Every option can also be set with an environment variable prefixed with
# C2DB_, for example C2DB_OUTPUT_DIR or C2DB_DELAY.

# Remote catalog
catalog:
  # Server root
  base_url: "https://c2db.fysik.dtu.dk"

  # Search identifier selecting the catalog listing
  sid: 1542

  # User-Agent sent with every request
  user_agent: "c2dbscraper/1.0 (+https://github.com/)"

  # Request timeout, in seconds or as a duration such as 90s
  timeout: 60s

# Output locations
output:
  # Directory receiving one sub-directory per material
  base_directory: "downloads/c2db"

  # Manifest path; empty means <base_directory>/manifest.json
  manifest: ""

# Download behaviour
download:
  # Pause between requests, in seconds (1, 0.5) or as a duration (500ms)
  delay: 1s

  # Download at most this many materials; -1 downloads all of them
  max_materials: -1

# Optional ceiling on the request rate, on top of the delay
rate_limit:
  # 0 disables the ceiling
  requests_per_minute: 0

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional, JSON lines)
  # Leave empty to log to the console only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "c2dbscraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		return fmt.Errorf("configuration file %s already exists", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file")
	fmt.Println("2. Run 'c2dbscraper config validate' to check it")
	fmt.Println("3. Start downloading with 'c2dbscraper download'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		return err
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	fmt.Println()
	ui.PrintInfo("Manifest path", cfg.ManifestPath())

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (C2DB_*)")
	fmt.Println("3. .env files (./.env, $HOME/.c2dbscraper.env)")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in default locations)")
	}
	fmt.Println("5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		return err
	}

	var warnings []string
	if cfg.Download.Delay == 0 && cfg.RateLimit.RequestsPerMinute == 0 {
		warnings = append(warnings, "no delay and no rate limit configured; requests will be sent back to back")
	}
	if cfg.Download.MaxMaterials == 0 {
		warnings = append(warnings, "max_materials is 0; no material will be downloaded")
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Catalog: %s (sid %d)\n", cfg.Catalog.BaseURL, cfg.Catalog.SearchID)
	fmt.Printf("  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Printf("  Manifest: %s\n", cfg.ManifestPath())
	fmt.Printf("  Delay: %s\n", cfg.Download.Delay)
	if cfg.RateLimit.RequestsPerMinute > 0 {
		fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	}
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
