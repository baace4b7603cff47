package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/genorisk/genorisk/internal/server"
	"github.com/genorisk/genorisk/internal/task"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP server",
		Example: `  genorisk serve
  genorisk serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			p, closers, err := buildPipeline(logger)
			if err != nil {
				return err
			}
			defer func() {
				for _, c := range closers {
					c.Close()
				}
			}()

			srv := server.New(p, task.NewStore(), viper.GetString("server.upload_dir"))
			srv.SetLogger(logger)
			return srv.Start(viper.GetString("server.addr"))
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
