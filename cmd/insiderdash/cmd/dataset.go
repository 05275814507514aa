package cmd

import (
	"github.com/spf13/cobra"

	"insiderdash/internal/app"
	"insiderdash/internal/services"
)

// datasetService builds a dataset service for one-shot commands. Stdin is
// taken from cmd so tests can feed it.
func (rc *RootConfig) datasetService(cmd *cobra.Command) (*services.DatasetService, error) {
	var source services.Source
	if rc.Config.Pipeline.DataFile == services.StdinName {
		source = services.NewReaderSource("stdin", cmd.InOrStdin())
	} else {
		source = services.NewSource(rc.Config.Pipeline.DataFile, rc.Config.Pipeline.DataPattern)
	}
	return app.BuildDatasetService(rc.Config, source, nil, nil, rc.Logger)
}
