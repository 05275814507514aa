package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"insiderdash/pkg/contracts/domain"
)

// filterFlags mirrors the dashboard widgets on the command line
type filterFlags struct {
	companies     []string
	movementTypes []string
	roles         []string
	from          string
	to            string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.companies, "company", nil, "keep only these companies (repeatable)")
	cmd.Flags().StringSliceVar(&f.movementTypes, "movement-type", nil, "keep only these movement types (repeatable)")
	cmd.Flags().StringSliceVar(&f.roles, "role", nil, "keep only these roles (repeatable)")
	cmd.Flags().StringVar(&f.from, "from", "", "first reference date, YYYY-MM-DD (needs --to)")
	cmd.Flags().StringVar(&f.to, "to", "", "last reference date, YYYY-MM-DD (needs --from)")
}

// selection converts the flags into a filter selection. As on the
// dashboard, the date range only applies when both bounds are given.
func (f *filterFlags) selection() (domain.FilterSelection, error) {
	sel := domain.FilterSelection{
		Companies:     f.companies,
		MovementTypes: f.movementTypes,
		Roles:         f.roles,
	}

	if f.from != "" {
		from, err := time.Parse(time.DateOnly, f.from)
		if err != nil {
			return sel, fmt.Errorf("bad --from: %w", err)
		}
		sel.DateFrom = &from
	}
	if f.to != "" {
		to, err := time.Parse(time.DateOnly, f.to)
		if err != nil {
			return sel, fmt.Errorf("bad --to: %w", err)
		}
		sel.DateTo = &to
	}
	if sel.HasDateRange() && sel.DateFrom.After(*sel.DateTo) {
		return sel, fmt.Errorf("--from must not be after --to")
	}

	return sel, nil
}
