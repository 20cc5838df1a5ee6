package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"proofmd/internal/analysis"
	"proofmd/internal/crawler"
	"proofmd/internal/extractor"
	"proofmd/internal/git"
	"proofmd/internal/server"

	"github.com/spf13/cobra"
)

var extractAPIsCmd = &cobra.Command{
	Use:   "extract-apis <file-or-dir>",
	Short: "List the Mathlib APIs referenced by Lean sources",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ext, err := extractor.NewExtractor("lean")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		info, err := os.Stat(args[0])
		if err != nil {
			log.Fatalf("Failed to open %s: %v", args[0], err)
		}

		if !info.IsDir() {
			apis, err := ext.ExtractFromFile(args[0])
			if err != nil {
				log.Fatalf("Extraction failed: %v", err)
			}
			for _, api := range apis {
				fmt.Println(api)
			}
			return
		}

		fmt.Printf("📂 Scanning directory: %s\n", args[0])
		total := 0
		cr := crawler.NewCrawler(ext)
		err = cr.ScanProject(args[0], func(f crawler.FileAPIs) {
			total += len(f.APIs)
			fmt.Printf("%s (%d)\n", f.Path, len(f.APIs))
			for _, api := range f.APIs {
				fmt.Printf("  %s\n", api)
			}
		})
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Printf("✅ Found %d API references.\n", total)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logger := initLogging(cfg).GetLogger("server")

		store := initStore(cfg)
		defer store.Close()

		leanDir := cfg.Workspace.LeanDir
		if !filepath.IsAbs(leanDir) {
			leanDir = filepath.Join(cfg.Workspace.Root, leanDir)
		}

		srv, err := server.New(server.Options{
			Store:     store,
			Logger:    logger,
			Strict:    cfg.Validation.Strict,
			LeanDir:   leanDir,
			StaticDir: cfg.Server.StaticDir,
		})
		if err != nil {
			log.Fatalf("Failed to create server: %v", err)
		}

		listenErr := make(chan error, 1)
		go func() {
			listenErr <- srv.Listen(cfg.Server.Addr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		if signalled, err := awaitServer(listenErr, quit); !signalled {
			if err != nil {
				log.Fatalf("Server failed: %v", err)
			}
			return
		}

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("forced shutdown", "error", err)
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <theorem_id>",
	Short: "List stored revisions of a theorem, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := initStore(loadConfig())
		defer store.Close()

		revs, err := store.ListRevisions(context.Background(), args[0])
		if err != nil {
			log.Fatalf("Failed to load revisions: %v", err)
		}
		if len(revs) == 0 {
			fmt.Printf("No revisions stored for theorem %s.\n", args[0])
			return
		}
		for _, rev := range revs {
			fmt.Printf("%s  %s  %-8s  %d APIs\n", rev.CreatedAt.Format(time.RFC3339), rev.ID, rev.Format, len(rev.APIs))
		}
	},
}

var impactJSON bool

var impactCmd = &cobra.Command{
	Use:   "impact [base-ref]",
	Short: "Report stored proofs that cite APIs touched by Lean changes since base-ref",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		baseRef := "HEAD"
		if len(args) > 0 {
			baseRef = args[0]
		}

		cfg := loadConfig()
		ctx := context.Background()

		changes, err := git.GetChangedFiles(ctx, cfg.Workspace.Root, baseRef, ".lean")
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}
		if len(changes) == 0 {
			fmt.Println("✅ No Lean changes detected.")
			return
		}

		store := initStore(cfg)
		defer store.Close()

		ext, err := extractor.NewExtractor("lean")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		report, err := analysis.NewAnalyzer(store, ext).AnalyzeImpact(ctx, cfg.Workspace.Root, baseRef, changes)
		if err != nil {
			log.Fatalf("Impact analysis failed: %v", err)
		}

		if impactJSON {
			if err := writeImpactJSON(os.Stdout, report); err != nil {
				log.Fatalf("Failed to encode report: %v", err)
			}
			return
		}

		fmt.Printf("📝 %d changed Lean files, %d APIs referenced.\n", len(report.Files), len(report.APIs))
		for _, th := range report.Theorems {
			fmt.Printf("  -> theorem %s (revision %s): %s\n", th.TheoremID, th.RevisionID, strings.Join(th.APIs, ", "))
		}
		fmt.Printf("🔍 %d theorems affected.\n", len(report.Theorems))
	},
}

// awaitServer blocks until the listener returns or a signal arrives. It
// reports whether a signal ended the wait, and the listener error otherwise.
func awaitServer(listenErr <-chan error, quit <-chan os.Signal) (bool, error) {
	select {
	case err := <-listenErr:
		return false, err
	case <-quit:
		return true, nil
	}
}

func writeImpactJSON(w io.Writer, report *analysis.ImpactReport) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func init() {
	impactCmd.Flags().BoolVar(&impactJSON, "json", false, "Print the report as JSON")
}
