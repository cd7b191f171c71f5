package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/app"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/assembly"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/config"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/logging"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/usecase"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	rootCmd := &cobra.Command{
		Use:   "tttc",
		Short: "Turn participant comments into a structured topic/claim report",
		Long: `tttc drives the external processing service through its
pipeline stages and assembles the output into a canonical,
versioned report document.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tttc %s\n", version)
		},
	})

	var (
		runTitle       string
		runDescription string
		runOutDir      string
	)
	runCmd := &cobra.Command{
		Use:   "run <rows-file> [rows-file...]",
		Short: "Generate a report for each input row file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			group, ctx := errgroup.WithContext(cmd.Context())
			for _, path := range args {
				path := path
				group.Go(func() error {
					return runReport(ctx, application, cfg, path, runTitle, runDescription, runOutDir)
				})
			}
			return group.Wait()
		},
	}
	runCmd.Flags().StringVar(&runTitle, "title", "", "Report title (defaults to the input file name)")
	runCmd.Flags().StringVar(&runDescription, "description", "", "Report description")
	runCmd.Flags().StringVar(&runOutDir, "out", ".", "Directory for the written report files")
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "metrics <report-file>",
		Short: "Print tree metrics for a stored versioned report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}

			var versioned domain.VersionedReport
			if err := json.Unmarshal(raw, &versioned); err != nil {
				return fmt.Errorf("parse report: %w", err)
			}

			report := versioned.Data
			return printJSON(map[string]int{
				"numTopics":    assembly.TopicCount(report.Topics),
				"numSubtopics": assembly.SubtopicCount(report.Topics),
				"numClaims":    assembly.ClaimCount(report.Topics),
				"numPeople":    assembly.PeopleCountFromReport(report),
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Probe the processing service's status endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			snapshot, err := application.Client().CheckHealth(cmd.Context(), time.Time{})
			if err != nil {
				return err
			}
			return printJSON(snapshot)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context, application *app.Application, cfg config.Config, path, title, description, outDir string) error {
	inputRows, err := application.Rows().LoadFile(ctx, path)
	if err != nil {
		return err
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	reportID := uuid.NewString()

	pipeline := application.PipelineFor(reportID)
	summary, err := pipeline.Run(ctx, usecase.RunRequest{
		ReportID:     reportID,
		Title:        title,
		Description:  description,
		Author:       cfg.Report.Author,
		Organization: cfg.Report.Organization,
		Rows:         inputRows,
	})
	if err != nil {
		return fmt.Errorf("report %s (%s): %w", reportID, summary.Status, err)
	}

	if err := writeReportFiles(outDir, reportID, summary); err != nil {
		return err
	}

	application.Logger().Info("report written",
		"report", reportID,
		"input", path,
		"topics", len(summary.Report.Topics))
	return nil
}

func writeReportFiles(outDir, reportID string, summary usecase.RunSummary) error {
	reportJSON, err := json.MarshalIndent(domain.VersionedReport{Data: summary.Report}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	metadataJSON, err := json.MarshalIndent(domain.VersionedMetadata{Data: summary.Metadata}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	reportPath := filepath.Join(outDir, reportID+".report.json")
	if err := os.WriteFile(reportPath, reportJSON, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	metadataPath := filepath.Join(outDir, reportID+".metadata.json")
	if err := os.WriteFile(metadataPath, metadataJSON, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
