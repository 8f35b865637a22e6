package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vidmerge/internal/config"
	"vidmerge/internal/gateway"
	"vidmerge/internal/media"
)

const (
	ExitOK         = 0
	ExitCLIError   = 1
	ExitMissingDep = 2
	ExitToolError  = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vidmerge",
		Short:         "Merge, trim and convert local media with ffmpeg",
		Long:          "vidmerge builds an ordered queue of videos or images and hands it to ffmpeg: merge them into one file, or speed-change, trim, compress, rotate or extract audio from a single clip. Run it without a subcommand on a terminal to open the interactive editor.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return cmd.Help()
			}
			return runTUI(cmd, args, "")
		},
	}

	bindPersistentFlags(root.PersistentFlags())

	root.AddCommand(newMergeCmd())
	root.AddCommand(newSpeedCmd())
	root.AddCommand(newTrimCmd())
	root.AddCommand(newAudioCmd())
	root.AddCommand(newCompressCmd())
	root.AddCommand(newRotateCmd())
	root.AddCommand(newCutCmd())
	root.AddCommand(newProbeCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindPersistentFlags(fs *pflag.FlagSet) {
	fs.StringP("out-dir", "o", "", "Output directory (default from config, else ~/Videos/vidmerge)")
	fs.BoolP("verbose", "v", false, "Show full subprocess commands/output")
	fs.String("ffmpeg", "", "Path to ffmpeg")
	fs.String("ffprobe", "", "Path to ffprobe")
	fs.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	fs.Bool("dry-run", false, "Print the ffmpeg invocation without running it")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// exitFor maps an operation error onto the exit code contract: bad input is a
// CLI error, a failed ffmpeg run is a tool error.
func exitFor(err error) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	var te *gateway.ToolError
	if errors.As(err, &te) {
		return &ExitError{Code: ExitToolError, Err: errors.New(gateway.UserMessage(err))}
	}
	var ve *gateway.ValidationError
	if errors.As(err, &ve) {
		return &ExitError{Code: ExitCLIError, Err: errors.New(gateway.UserMessage(err))}
	}
	return &ExitError{Code: ExitCLIError, Err: err}
}

func newItem(path string) (media.Item, error) {
	it, err := media.NewItem(path)
	if err != nil {
		return media.Item{}, &ExitError{Code: ExitCLIError, Err: err}
	}
	return it, nil
}
