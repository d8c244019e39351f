package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geo-dev/geo/internal/config"
	"github.com/geo-dev/geo/internal/store"
)

func migrateCmd(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(apply func(cmd *cobra.Command, st *store.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			st := store.New(db)
			defer st.Close()
			return apply(cmd, st)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, st *store.Store) error {
				if err := store.Migrate(st.DB); err != nil {
					return err
				}
				return printVersion(cmd, st)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, st *store.Store) error {
				if err := store.MigrateDown(st.DB); err != nil {
					return err
				}
				return printVersion(cmd, st)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE:  run(printVersion),
		},
	)
	return cmd
}

func printVersion(cmd *cobra.Command, st *store.Store) error {
	v, dirty, err := store.SchemaVersion(st.DB)
	if err != nil {
		return err
	}
	switch {
	case v == 0 && !dirty:
		fmt.Fprintln(cmd.OutOrStdout(), "schema: empty")
	case dirty:
		fmt.Fprintf(cmd.OutOrStdout(), "schema: version %d (dirty)\n", v)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "schema: version %d\n", v)
	}
	return nil
}
