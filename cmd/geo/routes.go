package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geo-dev/geo/internal/config"
	"github.com/geo-dev/geo/pkg/routepath"
	"github.com/geo-dev/geo/pkg/router"
)

func routesCmd(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect the console route table",
	}

	table := func() (*router.Table, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		return newTable(cfg, nil, routepath.NormalizeBase(cfg.Env.BaseURL), slog.Default())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List declared routes in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := table()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH\tTITLE")
			for _, e := range t.Entries() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Path, e.Title)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "match <path>",
		Short: "Show which route serves an application path",
		Example: `  geo routes match /articles/edit/42
  geo routes match "/prompts?page=2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := table()
			if err != nil {
				return err
			}
			m, err := t.Match(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "route:  %s\n", m.Entry.Name)
			fmt.Fprintf(out, "path:   %s\n", m.Path)
			fmt.Fprintf(out, "href:   %s\n", t.History().Href(m.Location()))
			for _, k := range sortedKeys(m.Params) {
				fmt.Fprintf(out, "param:  %s=%s\n", k, m.Params[k])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "resolve <name> [key=value...]",
		Short:   "Build the href of a named route",
		Example: `  geo routes resolve article-edit id=42`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			t, err := table()
			if err != nil {
				return err
			}
			href, err := t.Resolve(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), href)
			return nil
		},
	})
	return cmd
}

// parseParams turns key=value arguments into route parameters.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, argError("parameter %q is not in key=value form", arg)
		}
		params[k] = v
	}
	return params, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
