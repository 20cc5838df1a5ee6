package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"proofmd/internal/config"
	"proofmd/internal/logging"
	"proofmd/internal/proof"
	"proofmd/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "proofmd",
		Short: "Convert structured proofs between JSON and canonical Markdown",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "proofmd.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the revision database (overrides config)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(extractAPIsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(impactCmd)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg
}

func initLogging(cfg *config.Config) *logging.Provider {
	provider, err := logging.NewProvider(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	return provider
}

// initStore initializes the SQLite store.
func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

// readProofJSON decodes a proof file into the generic form.
func readProofJSON(path string) any {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		log.Fatalf("Failed to decode %s: %v", path, err)
	}
	return v
}

func validateProof(v any, strict bool) []string {
	if strict {
		return proof.ValidateStrict(v)
	}
	return proof.Validate(v)
}

// failWith prints each message on its own line and exits with status 1.
func failWith(header string, messages []string) {
	fmt.Fprintln(os.Stderr, header)
	for _, m := range messages {
		fmt.Fprintf(os.Stderr, "  - %s\n", m)
	}
	os.Exit(1)
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(path, content string) {
	if path == "" {
		fmt.Print(content)
		return
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Fprintf(os.Stderr, "✅ Wrote %s\n", path)
}
