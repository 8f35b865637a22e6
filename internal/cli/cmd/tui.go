package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidmerge/internal/dirs"
	"vidmerge/internal/logging"
	"vidmerge/internal/ui"
)

func newTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui [files...]",
		Short:         "Open the interactive queue, editor and timeline cutter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dropDir, _ := cmd.Flags().GetString("drop-dir")
			if noDrop, _ := cmd.Flags().GetBool("no-drop"); noDrop {
				dropDir = "-"
			}
			return runTUI(cmd, args, dropDir)
		},
	}
	cmd.Flags().String("drop-dir", "", "Folder watched for new files to queue (default from config, else the data dir)")
	cmd.Flags().Bool("no-drop", false, "Do not watch a drop folder")
	return cmd
}

// runTUI starts the TUI. dropDir "" means the configured default, "-" disables it.
func runTUI(cmd *cobra.Command, files []string, dropDir string) error {
	if !isTerminal() {
		return &ExitError{Code: ExitCLIError, Err: errors.New("the interactive UI needs a terminal; use a subcommand instead")}
	}
	env, err := loadEnv(cmd, false)
	if err != nil {
		return err
	}
	env.quiet = true

	// The terminal belongs to bubbletea; log to a file instead.
	if stateDir, err := dirs.StateDir(); err == nil {
		lg, closer, ferr := logging.NewFile(stateDir, "vidmerge.log", logging.Options{Level: env.opts.LogLevel})
		if ferr == nil {
			defer closer.Close()
			env.logger = lg
		}
	}

	switch dropDir {
	case "-":
		dropDir = ""
	case "":
		dropDir = env.settings.DropDir
		if dropDir == "" {
			if d, err := dirs.DefaultDropDir(); err == nil {
				dropDir = d
			}
		}
	}
	if dropDir != "" {
		if err := dirs.Ensure(dropDir); err != nil {
			env.logger.Warn("cannot create drop folder", "dir", dropDir, "error", err)
			dropDir = ""
		}
	}

	err = ui.Run(cmd.Context(), env.newGateway(cmd), ui.Config{
		Logger:        env.logger.Named("ui"),
		OutDir:        env.opts.OutDir,
		ImageDuration: env.opts.ImageDuration,
		Files:         files,
		DropDir:       dropDir,
	})
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("ui: %w", err)}
	}
	return nil
}
