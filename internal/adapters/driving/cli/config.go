package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/karaar-labs/karaar/internal/adapters/driven/config/file"
	"github.com/karaar-labs/karaar/internal/core/domain"
)

// appSettings and configDir are wired in cmd/karaar before Execute.
var (
	appSettings domain.AppSettings
	configDir   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Show the configured AI providers, web search, and analysis settings.

Settings live in ~/.karaar/config.toml. API keys may also be supplied via
the GEMINI_API_KEY, GROQ_API_KEY, TAVILY_API_KEY and OLLAMA_HOST
environment variables, which take precedence over the file.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long:  `Write the current effective settings to config.toml so they can be edited.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// SetConfig wires the loaded settings and their directory into the
// config command.
func SetConfig(dir string, settings domain.AppSettings) {
	configDir = dir
	appSettings = settings
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Generator]")
	printProvider(cmd, appSettings.Generator.Provider, appSettings.Generator.Model,
		appSettings.Generator.BaseURL, appSettings.Generator.APIKey,
		appSettings.Generator.IsConfigured())
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, appSettings.Embedding.Provider, appSettings.Embedding.Model,
		appSettings.Embedding.BaseURL, appSettings.Embedding.APIKey,
		appSettings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[Web Search]")
	if appSettings.Search.IsConfigured() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(appSettings.Search.APIKey))
		cmd.Printf("  Max Results: %d\n", appSettings.Search.MaxResults)
		cmd.Println("  Status: configured")
	} else {
		cmd.Println("  API Key: (not set)")
		cmd.Println("  Status: not configured")
	}
	cmd.Println()

	cmd.Println("[Analysis]")
	cmd.Printf("  Chunk Size: %d\n", appSettings.Analysis.ChunkSize)
	cmd.Printf("  Chunk Overlap: %d\n", appSettings.Analysis.ChunkOverlap)
	cmd.Printf("  Context Cap: %d\n", appSettings.Analysis.ContextCap)
	cmd.Printf("  Retrieval K: %d\n", appSettings.Analysis.RetrievalK)
	cmd.Printf("  Jurisdiction: %s\n", appSettings.Analysis.Jurisdiction)
	cmd.Println()

	if !appSettings.Generator.IsConfigured() || !appSettings.Embedding.IsConfigured() {
		cmd.Println("Some capabilities are not configured; analysis will degrade.")
		cmd.Println("Edit config.toml (see 'karaar config init') or set the API key environment variables.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if err := configfile.SaveSettings(configDir, appSettings); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	dir := configDir
	if dir == "" {
		d, err := configfile.DefaultConfigDir()
		if err != nil {
			return fmt.Errorf("failed to resolve config directory: %w", err)
		}
		dir = d
	}
	cmd.Printf("Wrote %s/config.toml\n", dir)
	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	if model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
