package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbu-cli/sbu/internal/backup"
	"github.com/sbu-cli/sbu/internal/backup/archive"
	"github.com/sbu-cli/sbu/internal/cli/prompt"
	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/listfile"
	"github.com/sbu-cli/sbu/internal/paths"
	"github.com/sbu-cli/sbu/internal/report"
)

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runBackupWithWriter(ctx, cmd.OutOrStdout(), args[0], args[1])
}

func runBackupWithWriter(ctx context.Context, w io.Writer, listPath, dest string) error {
	if configLoadErr != nil {
		return errors.NewUserError(configLoadErr, "fix or remove the config file, see 'sbu config show'")
	}

	opts, err := buildOptions(listPath, dest)
	if err != nil {
		return err
	}

	orch, err := backup.New(*opts)
	if err != nil {
		return errors.NewUserError(err, "check that the destination is writable")
	}

	summary, runErr := orch.Run(ctx)
	if runErr != nil {
		if summary != nil {
			printSummary(w, summary)
		}
		return errors.NewExitError(runErr, errors.ExitSystem)
	}

	printSummary(w, summary)

	if reportFlag || cfg.Report {
		dir := opts.DestRoot
		if opts.Archive && summary.ArchivePath != "" {
			dir = filepath.Dir(summary.ArchivePath)
		}
		if err := report.Write(filepath.Join(dir, report.FileName), report.FromSummary(summary, time.Now().UTC())); err != nil {
			slog.Warn("writing run report failed", "error", err)
		}
	}

	if !summary.Clean() {
		return errors.NewExitError(
			errors.Newf("%d entries failed", summary.Failed),
			errors.ExitSystem,
		)
	}
	return nil
}

// buildOptions assembles the orchestrator options from flags, config and
// positional arguments. Flags win over config values.
func buildOptions(listPath, dest string) (*backup.Options, error) {
	if forceFlag && interactiveFlag {
		return nil, errors.NewUserError(errors.ErrConflictingModes, "use either --force or --interactive")
	}

	mode := backup.ModeDefault
	switch {
	case forceFlag:
		mode = backup.ModeForce
	case interactiveFlag:
		mode = backup.ModeInteractive
	default:
		m, err := backup.ParseMode(cfg.OverwriteMode)
		if err != nil {
			return nil, errors.NewUserError(err, "fix overwrite_mode in the config file")
		}
		mode = m
	}

	var confirm backup.Confirmer
	if mode == backup.ModeInteractive {
		confirm = prompt.NewConfirmer().Overwrite
	}

	var format archive.Format
	archiveMode := compressFlag != ""
	if archiveMode {
		name := compressFlag
		if name == "configured" {
			name = cfg.Compress
		}
		f, err := archive.ParseFormat(name)
		if err != nil {
			return nil, errors.NewUserError(err, fmt.Sprintf("valid formats: %v", archive.Formats()))
		}
		format = f
	}

	rawPaths, err := listfile.Load(paths.ExpandHome(listPath))
	if err != nil {
		if errors.Is(err, errors.ErrListFileNotFound) {
			return nil, errors.NewUserError(err, "the first argument must be a readable list file")
		}
		return nil, errors.NewExitError(err, errors.ExitSystem)
	}

	return &backup.Options{
		RawPaths: rawPaths,
		DestRoot: paths.ExpandHome(dest),
		Mode:     mode,
		Confirm:  confirm,
		Archive:  archiveMode,
		Format:   format,
		Pretend:  pretendFlag,
		Workers:  cfg.Workers,
		Logger:   slog.Default(),
	}, nil
}

// printSummary writes the final run summary. It goes to stdout and is
// shown even in quiet mode; only warnings are suppressible.
func printSummary(w io.Writer, s *backup.RunSummary) {
	prefix := ""
	if s.Pretend {
		prefix = "[pretend] "
	}

	fmt.Fprintf(w, "%s%d copied, %d skipped, %d failed (%d rejected)\n",
		prefix, s.Copied, s.Skipped, s.Failed, s.Rejected)

	if s.ArchivePath != "" && s.Copied > 0 {
		fmt.Fprintf(w, "%sarchive: %s\n", prefix, s.ArchivePath)
	}
}
