package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidmerge/internal/config"
	"vidmerge/internal/dirs"
	"vidmerge/internal/util"
	"vidmerge/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffmpeg, ffprobe) and folders",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Current()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("config: %w", err)}
			}
			w := cmd.OutOrStdout()

			var missing []error
			if ff, err := deps.FindFFmpeg(s.FFmpeg); err != nil {
				missing = append(missing, err)
				fmt.Fprintln(w, "FFmpeg:     missing")
			} else {
				fmt.Fprintf(w, "FFmpeg:     %s\n", ff)
			}
			if fp, err := deps.FindFFprobe(s.FFprobe); err != nil {
				missing = append(missing, err)
				fmt.Fprintln(w, "FFprobe:    missing")
			} else {
				fmt.Fprintf(w, "FFprobe:    %s\n", fp)
			}

			if cfg, err := dirs.ConfigDir(); err == nil {
				fmt.Fprintf(w, "Config dir: %s\n", cfg)
			}
			status := "ok"
			if err := util.CheckWritableDir(s.OutDir); err != nil {
				status = "not writable"
			}
			fmt.Fprintf(w, "Output dir: %s (%s)\n", s.OutDir, status)

			if len(missing) > 0 {
				return &ExitError{Code: ExitMissingDep, Err: errors.Join(missing...)}
			}
			return nil
		},
	}
}
