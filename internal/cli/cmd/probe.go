package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidmerge/internal/util/format"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "probe FILE",
		Short:         "Show duration, container and resolution of a media file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			item, err := newItem(args[0])
			if err != nil {
				return err
			}
			info, err := env.newGateway(cmd).Probe(cmd.Context(), item.Path)
			if err != nil {
				return exitFor(err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File:       %s\n", item.Path)
			fmt.Fprintf(w, "Kind:       %s\n", item.Kind)
			fmt.Fprintf(w, "Format:     %s\n", info.Format)
			if info.DurationSec > 0 {
				fmt.Fprintf(w, "Duration:   %s (%s)\n", format.Timecode(info.DurationSec), format.Seconds(info.DurationSec))
			} else {
				fmt.Fprintln(w, "Duration:   unknown")
			}
			if info.Width > 0 && info.Height > 0 {
				fmt.Fprintf(w, "Resolution: %dx%d\n", info.Width, info.Height)
			}
			size := info.Size
			if size <= 0 {
				size = item.Size
			}
			fmt.Fprintf(w, "Size:       %s\n", format.HumanizeBytes(size))
			return nil
		},
	}
}
