package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favorites/internal/app"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and keep favorites clean in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.ListenPort = listen
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			runErr := a.Run(cmd.Context())
			if err := a.Close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (FAVS_LISTEN_PORT)")
	return cmd
}
