package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *globalOptions) *cobra.Command {
	flags := &requestFlags{}
	var compact bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := openReportService(opts)
			if err != nil {
				return err
			}
			defer closer.Close() //nolint:errcheck

			result, err := svc.Generate(cmd.Context(), flags.toRequest())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}
	bindRequestFlags(cmd, flags)
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")
	return cmd
}
