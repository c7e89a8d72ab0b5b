package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/migrate"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <path/to/data.ext4.win000>",
	Short: "List the users, apps and APKs in a TWRP backup",
	Long: `Decode every volume of a TWRP data backup and list what a migration
would work on: the users found, the packages holding data and
device-protected data for each user, and the APK install directories.

Decoded archives are staged inside the output directory and always
removed afterwards. No backups are written.`,
	Example: `  twrp2neo scan data.ext4.win000
  twrp2neo scan --report yaml data.ext4.win000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.NewUserError(errors.New("missing path to the first backup volume"),
			"Usage: twrp2neo scan [flags] <path/to/data.ext4.win000>")
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

	report, err := migrate.New(fs, opts...).Scan(args[0])
	if bars != nil {
		bars.Wait()
	}
	if err != nil {
		return errors.Wrap(err, "scanning backup")
	}
	return report.Write(cmd.OutOrStdout(), format)
}
