package main

import (
	"errors"
	"os"

	"github.com/minhduc152001/tik-live-cms/internal/archive"
	"github.com/minhduc152001/tik-live-cms/internal/format"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "Show archived comments, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Archive.Path == "" {
				return errors.New("archive.path is not configured")
			}

			a, err := archive.Open(cfg.Archive.Path)
			if err != nil {
				return err
			}
			defer a.Close()

			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			records, err := a.Query(cmd.Context(), target, limit)
			if err != nil {
				return err
			}

			if formatFlag == "" {
				formatFlag = format.DefaultFormat(os.Stdout)
			}
			return format.WriteTable(cmd.OutOrStdout(), format.HistoryHeaders, format.HistoryRows(records), format.Options{
				Format:   formatFlag,
				NoHeader: noHeader,
				Width:    format.TerminalWidth(os.Stdout),
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of comments")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: table, plain, json")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	return cmd
}
