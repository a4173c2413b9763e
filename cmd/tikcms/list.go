package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/minhduc152001/tik-live-cms/internal/format"
	"github.com/minhduc152001/tik-live-cms/internal/resource"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List an admin collection",
		Long:  "List an admin collection. Resources: " + strings.Join(resource.Names(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resource.Lookup(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rows, err := newAPI(cfg).List(cmd.Context(), r.Path)
			if err != nil {
				return fmt.Errorf("list %s: %w", r.Name, err)
			}

			cells := make([][]string, 0, len(rows))
			for _, row := range rows {
				cells = append(cells, r.Cells(row))
			}

			if formatFlag == "" {
				formatFlag = format.DefaultFormat(os.Stdout)
			}
			return format.WriteTable(cmd.OutOrStdout(), r.Headers(), cells, format.Options{
				Format:   formatFlag,
				NoHeader: noHeader,
				Width:    format.TerminalWidth(os.Stdout),
			})
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: table, plain, json (default: table on a terminal, plain otherwise)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	return cmd
}
