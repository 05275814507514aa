package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"insiderdash/internal/exporter"
	"insiderdash/pkg/contracts/domain"
)

func newShowCmd(rc *RootConfig) *cobra.Command {
	var (
		output  string
		limit   int
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the normalized (and optionally filtered) table",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := filters.selection()
			if err != nil {
				return err
			}

			svc, err := rc.datasetService(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Query(cmd.Context(), sel)
			if err != nil {
				return err
			}
			if limit > 0 && len(view.Rows) > limit {
				view.Rows = view.Rows[:limit]
			}

			out := cmd.OutOrStdout()
			switch output {
			case "table":
				return writeTable(out, view)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			case "csv":
				w := exporter.NewCSVWriter(rc.Config.Export.CSVFilename, rc.Logger)
				return w.Write(out, view, exporter.WriteOptions{Delimiter: ','})
			default:
				return fmt.Errorf("unknown output %q, expected table, json or csv", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "table, json or csv")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many rows (0 prints all)")
	filters.register(cmd)

	return cmd
}

// writeTable prints view as aligned columns followed by the matching row count
func writeTable(out io.Writer, view domain.TableView) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(view.Columns, "\t"))
	for _, row := range view.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d row(s)\n", view.Count)
	return err
}
