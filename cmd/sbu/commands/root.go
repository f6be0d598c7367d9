// Package commands implements the CLI commands for sbu.
package commands

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sbu-cli/sbu/internal/config"
	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/logging"
)

// Flag values bound in init.
var (
	forceFlag       bool
	interactiveFlag bool
	compressFlag    string
	pretendFlag     bool
	reportFlag      bool
	verbosity       int
	quiet           bool
	logFormat       string
	logFile         string
)

// cfg holds the loaded configuration; populated by initConfig.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolVarP(&forceFlag, "force", "f", false,
		"overwrite existing destination entries")
	rootCmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false,
		"ask before overwriting a destination entry")
	rootCmd.Flags().StringVarP(&compressFlag, "compress", "c", "",
		"write one compressed archive instead of loose files (zip, tar, tgz, tzst)")
	rootCmd.Flags().Lookup("compress").NoOptDefVal = "configured"
	rootCmd.Flags().BoolVarP(&pretendFlag, "pretend", "p", false,
		"show what would be copied without writing anything")
	rootCmd.Flags().BoolVar(&reportFlag, "report", false,
		"write a TOML run report into the destination")

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress warnings; errors and the summary are always shown")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "sbu LIST_FILE DESTINATION",
	Short: "Copy a list of files and directories into a backup destination",
	Long: `sbu copies the files and directories named in a plain-text list file
into a destination directory, either as a directory mirror or as a
single compressed archive.

Every listed path is validated before copying: it must be absolute,
must exist, and must not overlap the destination in either direction.
Paths that fail validation are reported and skipped; the rest of the
run continues.

Lines in the list file starting with # and blank lines are ignored,
and a leading ~ expands to your home directory.`,
	Example: `  # Mirror the listed paths into /mnt/backup
  sbu backup.list /mnt/backup

  # Same, but overwrite files that already exist in the destination
  sbu -f backup.list /mnt/backup

  # Ask per conflicting file
  sbu -i backup.list /mnt/backup

  # Write one gzip tar archive into /mnt/backup instead
  sbu -c tgz backup.list /mnt/backup

  # Dry run with per-entry progress
  sbu -p -v backup.list /mnt/backup`,
	Args: cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkPlatform(cmd)
	},
	RunE: runBackup,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(
			errors.New("quiet and verbose are mutually exclusive"),
			"pass at most one of -q and -v",
		)
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		level = logging.LevelFromVerbosity(verbosity)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// checkPlatform rejects unsupported host operating systems before any
// filesystem work begins. Only Linux path semantics are supported.
func checkPlatform(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if runtime.GOOS != "linux" {
		return errors.NewExitError(
			errors.Wrapf(errors.ErrUnsupportedPlatform, "%s", runtime.GOOS),
			errors.ExitSystem,
		)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
