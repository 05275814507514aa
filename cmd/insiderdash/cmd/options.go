package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"insiderdash/pkg/contracts/domain"
)

// optionsDocument is the printable form of the filter options
type optionsDocument struct {
	Companies     []string `json:"companies" yaml:"companies"`
	MovementTypes []string `json:"movement_types" yaml:"movement_types"`
	Roles         []string `json:"roles" yaml:"roles"`
	MinDate       string   `json:"min_date,omitempty" yaml:"min_date,omitempty"`
	MaxDate       string   `json:"max_date,omitempty" yaml:"max_date,omitempty"`
}

func newOptionsDocument(opts domain.FilterOptions) optionsDocument {
	doc := optionsDocument{
		Companies:     opts.Companies,
		MovementTypes: opts.MovementTypes,
		Roles:         opts.Roles,
	}
	if opts.MinDate != nil {
		doc.MinDate = opts.MinDate.Format(time.DateOnly)
	}
	if opts.MaxDate != nil {
		doc.MaxDate = opts.MaxDate.Format(time.DateOnly)
	}
	return doc
}

func newOptionsCmd(rc *RootConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the values offered by each dashboard filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rc.datasetService(cmd)
			if err != nil {
				return err
			}
			opts, err := svc.Options(cmd.Context())
			if err != nil {
				return err
			}

			doc := newOptionsDocument(opts)
			out := cmd.OutOrStdout()
			switch output {
			case "yaml":
				data, err := yaml.Marshal(doc)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			default:
				return fmt.Errorf("unknown output %q, expected yaml or json", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "yaml or json")

	return cmd
}
