package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/ticket-report-engine/pkg/export"
	"github.com/noah-isme/ticket-report-engine/pkg/storage"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	flags := &requestFlags{}
	var (
		format string
		out    string
		outDir string
		prune  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a report and write it as csv or printable html",
		Long: `Generate a report and write the rendered file.

Without --out the file is saved in --out-dir using the generated name, e.g.
Tickets-Report-Last-7-Days_2024-01-15_10-00-00.csv. Use --out - to write to
stdout. --prune-older-than removes earlier exports from --out-dir first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := openReportService(opts)
			if err != nil {
				return err
			}
			defer closer.Close() //nolint:errcheck

			file, err := svc.GenerateExport(cmd.Context(), flags.toRequest(), format)
			if err != nil {
				return err
			}

			switch out {
			case "-":
				_, err = cmd.OutOrStdout().Write(file.Content)
				return err
			case "":
				dir, err := storage.NewExportDir(outDir)
				if err != nil {
					return err
				}
				if prune > 0 {
					removed, err := dir.PruneOlderThan(prune, export.FormatCSV, "html")
					if err != nil {
						return err
					}
					for _, name := range removed {
						fmt.Fprintf(cmd.ErrOrStderr(), "pruned %s\n", name)
					}
				}
				if out, err = dir.Save(file.Filename, file.Content); err != nil {
					return err
				}
			default:
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				if err := os.WriteFile(out, file.Content, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(file.Content))
			return nil
		},
	}
	bindRequestFlags(cmd, flags)
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "Export format: csv|printable")
	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file path, "-" for stdout`)
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for generated file names when --out is not set")
	cmd.Flags().DurationVar(&prune, "prune-older-than", 0, "Remove exports in --out-dir older than this before writing")
	return cmd
}
