package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/cvssel"
)

// Version is set at build time.
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "cvssel",
		Short:         "Multi-source CVSS vector selection",
		Long:          "cvssel picks, merges and scores CVSS vectors published by several sources for the same vulnerability.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	root.PersistentFlags().String("config", "", "Engine configuration file or directory")
	root.PersistentFlags().String("log-format", "text", "Log format: text or json")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringP("format", "f", "text", "Output format: text or json")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("format", root.PersistentFlags().Lookup("format"))

	// Environment variable support (CVSSEL_CONFIG, CVSSEL_LOG_FORMAT, etc.)
	v.SetEnvPrefix("CVSSEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newAssessCmd(v))
	root.AddCommand(newScoreCmd(v))
	root.AddCommand(newHeaderCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cvssel version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

// newLogger builds the process logger from --log-format and --log-level.
func newLogger(v *viper.Viper, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", v.GetString("log.level"))
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format := strings.ToLower(v.GetString("log.format")); format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s (supported: text, json)", format)
	}
}

// newEngine builds the engine from the --config flag, falling back to the
// built-in configuration.
func newEngine(cmd *cobra.Command, v *viper.Viper, extra ...cvssel.Option) (*cvssel.Engine, error) {
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	opts := []cvssel.Option{cvssel.WithLogger(logger)}
	if path := v.GetString("config"); path != "" {
		opts = append(opts, cvssel.WithConfigFile(path))
	}
	return cvssel.NewEngine(append(opts, extra...)...)
}

func outputJSON(v *viper.Viper) (bool, error) {
	switch format := strings.ToLower(v.GetString("format")); format {
	case "json":
		return true, nil
	case "text", "":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported output format: %s (supported: text, json)", format)
	}
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
