// Command geo runs the GEO console: the brand exposure dashboard, its JSON
// API and the daily task scheduler.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geo-dev/geo/internal/config"
	"github.com/geo-dev/geo/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.FprintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "geo",
		Short: "Generative engine optimization console",
		Long: `geo tracks how AI assistants mention a brand.

It stores monitoring prompts, hands out daily collection tasks to
agents, scores their answers with an LLM, and drafts and publishes
articles that improve the brand's exposure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to geo.yaml")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(
		serveCmd(load),
		routesCmd(load),
		migrateCmd(load),
		tasksCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// newLogger builds the process logger from the log settings. Development
// mode forces human readable text output.
func newLogger(w io.Writer, cfg config.LogConfig, dev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if dev || strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// argError reports malformed command arguments.
func argError(format string, args ...any) error {
	return errors.New("E140").WithDetail(fmt.Sprintf(format, args...))
}
