package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"insiderdash/internal/app"
	"insiderdash/internal/infrastructure"
	"insiderdash/internal/services"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rc.Config.Pipeline.DataFile == services.StdinName {
				return fmt.Errorf("serve cannot read the dataset from stdin")
			}
			if cmd.Flags().Changed("host") {
				rc.Config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				rc.Config.Server.Port = port
			}

			logger, err := infrastructure.InitializeLogger(rc.Config.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			application, err := app.New(rc.Config, logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")

	return cmd
}
