// Package commands implements the CLI commands for twrp2neo.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/twrp2neo/cmd"
	"github.com/thoreinstein/twrp2neo/internal/backup"
	"github.com/thoreinstein/twrp2neo/internal/config"
	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/logging"
	"github.com/thoreinstein/twrp2neo/internal/migrate"
)

// usage is shown as the suggestion when no volume is given.
const usage = "Usage: twrp2neo [flags] <path/to/data.ext4.win000>"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds an explicit --config file.
var configPath string

// reportFormat holds the value of the --report flag.
var reportFormat string

// noProgress holds the value of the --no-progress flag.
var noProgress bool

// appConfig is the configuration loaded before any command runs.
var appConfig *config.Config

// closeLog releases the --log-file handle, if any.
var closeLog = func() error { return nil }

// fs is the filesystem commands operate on.
var fs = afero.NewOsFs()

func init() {
	rootCmd.PersistentPreRunE = persistentPreRun

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	flags.BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	flags.StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	flags.StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	flags.StringVar(&configPath, "config", "",
		"config file (default: ./config.yaml, then ~/.config/twrp2neo/config.yaml)")
	flags.StringP("output", "o", backup.DefaultOutputDir,
		"destination directory for the Neo Backup tree")
	flags.Bool("keep-staging", false,
		"keep decoded archives and staged apks after the run")
	flags.StringVar(&reportFormat, "report", string(migrate.FormatText),
		"report format: text, json, yaml, toml")
	flags.BoolVar(&noProgress, "no-progress", false,
		"do not draw progress bars on the terminal")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("twrp2neo version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "twrp2neo [flags] <path/to/data.ext4.win000>",
	Short: "Convert a TWRP data backup into Neo Backup backups",
	Long: `twrp2neo turns the data partition backup TWRP writes (data.ext4.win000,
data.ext4.win001, ...) into per-app backups Neo Backup can restore.

Every volume is decoded, APKs and app data are collected for each user,
and one dated backup with a .properties record is written per app under
<output>/<user>/<package>/.

Version, label and CPU architecture are not read from the APKs; the
properties record carries placeholders that can be changed in config.yaml.`,
	Example: `  # Migrate into ./twrp_evacuate_migrated
  twrp2neo /sdcard/TWRP/BACKUPS/serial/2024-03-09/data.ext4.win000

  # Choose the destination and print a JSON report
  twrp2neo -o ~/neo --report json data.ext4.win000

  # Only list what the backup contains
  twrp2neo scan data.ext4.win000

  See Also: twrp2neo scan, twrp2neo version`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

// persistentPreRun runs before every command. It is attached to rootCmd in
// init to avoid an initialization cycle through loadConfig.
func persistentPreRun(cmd *cobra.Command, _ []string) error {
	// Initialize logging first
	if err := setupLogging(cmd); err != nil {
		return err
	}
	switch cmd.Name() {
	case "help", "version", "gen-doc":
		return nil
	}
	return loadConfig()
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	v := verbosity

	// CLI flags take precedence, but if not set, check env var
	if v == 0 && !quiet {
		if val, ok := os.LookupEnv("TWRP2NEO_DEBUG"); ok {
			switch val {
			case "1", "true":
				v = 2 // Debug
			case "2":
				v = 3 // Trace
			}
		}
	}

	logger, closer, err := logging.Setup(logging.Options{
		Verbosity: v,
		Quiet:     quiet,
		Format:    logging.Format(logFormat),
		File:      logFile,
		Output:    cmd.ErrOrStderr(),
	})
	if errors.Is(err, logging.ErrQuietVerbose) {
		return errors.NewUserError(err, "Pass either --quiet or --verbose")
	}
	if err != nil {
		return errors.NewUserError(err, "Check the --log-file path")
	}

	_ = closeLog()
	closeLog = closer
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads config.yaml and the environment, with the migrate
// flags taking precedence when given.
func loadConfig() error {
	config.Init()

	bindings := []struct{ key, flag string }{
		{config.KeyOutputDir, "output"},
		{config.KeyKeepStaging, "keep-staging"},
	}
	for _, b := range bindings {
		if err := viper.BindPFlag(b.key, rootCmd.PersistentFlags().Lookup(b.flag)); err != nil {
			return errors.Wrapf(err, "binding --%s", b.flag)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.NewConfigError(err)
	}
	if used := config.Used(); used != "" {
		slog.Debug("config loaded", "file", used)
	}
	appConfig = cfg
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.NewUserError(errors.New("missing path to the first backup volume"), usage)
	}

	format, err := migrate.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	opts := append(appConfig.MigrateOptions(), migrate.WithLogger(slog.Default()))
	bars := progressFor(cmd.ErrOrStderr())
	if bars != nil {
		opts = append(opts, migrate.WithProgress(bars))
	}

	sum, err := migrate.New(fs, opts...).Run(args[0])
	if bars != nil {
		bars.Wait()
	}
	if err != nil {
		return errors.Wrap(err, "migrating backup")
	}

	if quiet && format == migrate.FormatText {
		return nil
	}
	return sum.Write(cmd.OutOrStdout(), format)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	defer func() { _ = closeLog() }()
	if err == nil {
		return errors.ExitSuccess
	}

	exitErr := errors.Classify(err)
	w := rootCmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n", exitErr)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
	return exitErr.Code
}
