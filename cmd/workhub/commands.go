package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"workhub/internal/app"
	"workhub/internal/config"
)

func newRootCmd(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "workhub",
		Short:         "Task planner and time tracker API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config.yaml (default $"+config.EnvPath+" or "+config.DefaultPath+")")

	load := func() (*app.App, error) {
		cfg, err := config.Load(config.Path(configPath))
		if err != nil {
			return nil, err
		}
		return app.New(cfg)
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the digest loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}

	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the overdue digest once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			sent, err := a.SendDigest(cmd.Context())
			if err != nil {
				return err
			}
			log.Printf("[digest][once] sent=%d", sent)
			return nil
		},
	}

	root.AddCommand(serveCmd, digestCmd)
	return root
}
