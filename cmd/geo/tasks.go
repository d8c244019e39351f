package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geo-dev/geo/internal/config"
	"github.com/geo-dev/geo/internal/store"
)

func tasksCmd(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage collection tasks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Create today's pending task for every prompt",
		Long: `Create today's pending task for every prompt.

This is the job the scheduler runs daily. Use it to backfill a
missed run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr, cfg.Log, cfg.Server.DevMode)
			st, err := store.OpenAndMigrate(cmd.Context(), cfg.Database.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			svc, err := newService(cfg, st, logger)
			if err != nil {
				return err
			}
			n, err := svc.GenerateTasks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d task(s)\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print task counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			st, err := store.OpenAndMigrate(cmd.Context(), cfg.Database.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			counts, err := st.Tasks.CountByStatus(cmd.Context())
			if err != nil {
				return err
			}
			for _, status := range sortedKeys(counts) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", status, counts[status])
			}
			return nil
		},
	})
	return cmd
}
