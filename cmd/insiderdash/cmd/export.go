package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"insiderdash/internal/config"
	"insiderdash/internal/services"
)

// Export formats
const (
	formatXLSX = "xlsx"
	formatCSV  = "csv"
)

func newExportCmd(rc *RootConfig) *cobra.Command {
	var (
		output  string
		format  string
		scope   string
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the normalized table to an Excel or CSV file",
		Long: `Export writes the normalized table to an .xlsx workbook (default) or a
UTF-8 CSV. With --scope filtered only rows matching the filter flags are
written. Use --output - to write to stdout.`,
		Example: `  insiderdash export --data movimentacoes.csv
  insiderdash export --format csv --scope filtered --company Petrobras --output petrobras.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if format != formatXLSX && format != formatCSV {
				return fmt.Errorf("unknown format %q, expected %s or %s", format, formatXLSX, formatCSV)
			}

			sel, err := filters.selection()
			if err != nil {
				return err
			}
			if scope == "" && !sel.IsEmpty() {
				scope = services.ScopeFiltered
			}

			svc, err := rc.datasetService(cmd)
			if err != nil {
				return err
			}

			var art *services.Artifact
			if format == formatCSV {
				art, err = svc.ExportCSV(cmd.Context(), scope, sel)
			} else {
				art, err = svc.ExportExcel(cmd.Context(), scope, sel)
			}
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(art.Data)
				return err
			}
			if output == "" {
				output = art.Filename
			}
			if err := config.EnsureDir(output); err != nil {
				return err
			}
			if err := os.WriteFile(output, art.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(art.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: export.filename or export.csv_filename)`)
	cmd.Flags().StringVar(&format, "format", "", "xlsx or csv (default: from the output extension, else xlsx)")
	cmd.Flags().StringVar(&scope, "scope", "", "all or filtered (default: filtered when a filter flag is set, else export.default_scope)")
	filters.register(cmd)

	return cmd
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return formatCSV
	}
	return formatXLSX
}
