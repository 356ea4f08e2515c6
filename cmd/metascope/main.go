package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/export"
	"github.com/hansbricks/metascope/internal/logger"
	"github.com/hansbricks/metascope/internal/metadata"
	"github.com/hansbricks/metascope/internal/presenter"
	"github.com/hansbricks/metascope/internal/scanner"
)

const (
	exitFailure   = 1
	exitCancelled = 130
)

var cfg config.Config

func main() {
	rootCmd := &cobra.Command{
		Use:   "metascope [flags] <file-or-directory>",
		Short: "Extract and review forensic metadata from files",
		Long: `metascope inspects files, detects their type and extracts metadata
relevant to forensic review: timestamps, authorship, device identifiers and
geolocation. Supports images (EXIF), PDF and office documents, audio tags,
Apple plists and Linux packages, with optional ExifTool integration for
everything else.`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: setupLogging,
		Run:              runAnalyzer,
	}

	// Output flags
	rootCmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", "", "save results to file (.json or .txt/.csv/.md)")
	rootCmd.Flags().StringVarP(&cfg.Format, "format", "f", "table", "output format: json, table or compact")
	rootCmd.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress output to screen")
	rootCmd.Flags().BoolVarP(&cfg.Summary, "summary", "s", false, "show only a summary line per file")

	// Processing flags
	rootCmd.Flags().BoolVarP(&cfg.Recursive, "recursive", "r", false, "recursively process directories")
	rootCmd.Flags().StringSliceVarP(&cfg.Extensions, "extensions", "e", nil, "file extensions to process (e.g. jpg,pdf,mp3)")
	rootCmd.Flags().BoolVar(&cfg.IncludeHidden, "include-hidden", false, "include hidden files and directories")
	rootCmd.Flags().BoolVar(&cfg.ExtractText, "extract-text", false, "extract a text preview from documents")
	rootCmd.Flags().BoolVar(&cfg.ComputeHash, "hash", false, "compute a SHA3-256 digest of each file")

	// External tool flags
	rootCmd.Flags().BoolVar(&cfg.UseExifTool, "exiftool", false, "use ExifTool as fallback for unsupported types")
	rootCmd.Flags().BoolVar(&cfg.ForceExifTool, "force-exiftool", false, "force ExifTool for all file types")

	// Logging flags
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", false, "enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("Error executing command: %v", err)
		os.Exit(exitFailure)
	}
}

// setupLogging configures the logger and color handling from flags before
// any processing runs.
func setupLogging(cmd *cobra.Command, args []string) {
	switch {
	case cfg.Debug:
		logger.SetLevel(logger.LevelDebug)
	case cfg.Verbose:
		logger.SetLevel(logger.LevelInfo)
	default:
		logger.SetLevel(logger.LevelWarning)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	cfg.Color = !noColor
	if noColor {
		color.NoColor = true
		logger.DisableColors()
	}
}

func runAnalyzer(cmd *cobra.Command, args []string) {
	input := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pres := presenter.New(cfg, os.Stdout)

	if !cfg.Quiet {
		titleColor := color.New(color.FgCyan, color.Bold)
		titleColor.Println("Forensic Metadata Analyzer")
		fmt.Printf("Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	}

	info, err := os.Stat(input)
	if err != nil {
		fail(fmt.Errorf("input path not found: %s", input))
	}

	scan := scanner.New(cfg)
	var records []*metadata.Record

	if info.IsDir() {
		records, err = scan.ProcessDirectory(ctx, input)
		if err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
		if !cfg.Quiet {
			displayBatch(pres, records)
		}
	} else {
		rec := scan.ProcessFile(input)
		records = []*metadata.Record{rec}
		if !cfg.Quiet {
			if err := pres.Render(rec); err != nil {
				fail(err)
			}
		}
	}

	if cfg.OutputFile != "" && len(records) > 0 {
		if err := export.Save(cfg.OutputFile, records); err != nil {
			fail(err)
		}
	}

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
		os.Exit(exitCancelled)
	}
}

func displayBatch(pres *presenter.Presenter, records []*metadata.Record) {
	if len(records) == 0 {
		fmt.Println("No files processed")
		return
	}
	fmt.Printf("Processed %d files:\n", len(records))
	for _, rec := range records {
		if cfg.Summary {
			pres.Summary(rec)
			continue
		}
		if err := pres.Render(rec); err != nil {
			logger.Errorf("Display error: %v", err)
		}
		fmt.Println()
	}
}

// fail reports a fatal error and exits. Debug mode includes the stack trace.
func fail(err error) {
	if cfg.Debug {
		fmt.Fprintf(os.Stderr, "Error: %v\n%s", err, debug.Stack())
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitFailure)
}
