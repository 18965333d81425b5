// Command planner plans course sequences offline and manages the course dataset.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"course-planner/internal/shared/config"
	"course-planner/internal/shared/telemetry"
)

const (
	Version = "0.1.0"
	appName = "planner"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	logLevel   string
	out        io.Writer
}

func rootCmd(out io.Writer) *cobra.Command {
	opts := &options{out: out}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Course prerequisite planner",
		Long: `planner finds the shortest sequence of terms that satisfies the
prerequisite chain of one or more target courses.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.SetOutput(os.Stderr)
			telemetry.SetLevel(opts.logLevel)
		},
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		planCmd(opts),
		inspectCmd(opts),
		courseCmd(opts),
		importCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(opts.out, "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func (o *options) config() (config.Config, error) {
	if o.configPath == "" {
		return config.Load(), nil
	}
	return config.LoadFile(o.configPath)
}
