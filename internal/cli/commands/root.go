// Package commands implements the indexpages command line
package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/cli/config"
	"github.com/dougwollison/index-pages/internal/cli/ui"
	"github.com/dougwollison/index-pages/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	noColor    bool
	verbose    bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "indexpages",
		Short: "Bind pages to post type and term archives",
		Long: color.CyanString(`indexpages - index pages for post types and terms

Bind a regular page to a post type or a term and serve its URL as that
archive, with pagination and date segments under the page path.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./indexpages.yml)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newResolveCommand(opts))
	rootCmd.AddCommand(newLookupCommand(opts))
	rootCmd.AddCommand(newBindCommand(opts))
	rootCmd.AddCommand(newUnbindCommand(opts))
	rootCmd.AddCommand(newTaxonomiesCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			kv.AddRow("indexpages version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// displayError carries a message already formatted for the terminal
type displayError struct {
	message string
}

func (e *displayError) Error() string {
	return e.message
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var de *displayError
		if errors.As(err, &de) {
			fmt.Fprint(rootCmd.ErrOrStderr(), de.message)
			return err
		}
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads the configuration named by --config
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, &displayError{message: ui.ConfigError(err.Error(), o.noColor)}
	}
	return cfg, nil
}

// commandLogger returns a debug logger with --verbose and a no-op logger
// otherwise, so one-shot commands only print their result.
func (o *rootOptions) commandLogger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	return logging.Must(logging.Config{Level: "debug", Development: true})
}

// openApp loads the configuration and builds the app for a one-shot command
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg, o.commandLogger())
	if err != nil {
		return nil, &displayError{message: ui.StorageError(err.Error(), o.noColor)}
	}
	return a, nil
}
