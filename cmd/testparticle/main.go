package main

import (
	"fmt"
	"os"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/testparticle/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	logger = kitlog.NewNopLogger()
	v      = viper.New()
)

// main registers the commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "testparticle",
		Short:         "charged particle trajectories in prescribed fields",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dataDir = v.GetString("data")
			l, err := newLogger(v.GetString("log-format"), v.GetString("log-level"))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".testparticle", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "logfmt", "log format (logfmt, json)")

	v.SetEnvPrefix("TESTPARTICLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newCompareCmd(),
		newListCmd(),
		newPlotCmd(),
		newEnergyCmd(),
		newAnalyzeCmd(),
		newPhaseCmd(),
		newTraceCmd(),
		newSVGCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		level.Error(logger).Log("err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(format, lvl string) (kitlog.Logger, error) {
	w := kitlog.NewSyncWriter(os.Stderr)

	var l kitlog.Logger
	switch format {
	case "logfmt", "":
		l = kitlog.NewLogfmtLogger(w)
	case "json":
		l = kitlog.NewJSONLogger(w)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}
	l = level.NewFilter(l, opt)
	return kitlog.With(l, "ts", kitlog.DefaultTimestampUTC), nil
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("unknown log level: %s", lvl)
}

// newStore reads the data directory without creating it.
func newStore() *storage.Store {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	return st
}

// openStore is newStore for commands that write runs.
func openStore() (*storage.Store, error) {
	st := newStore()
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
