package cmd

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"vidmerge/internal/gateway"
	"vidmerge/internal/model"
	"vidmerge/internal/timeline"
	"vidmerge/internal/util"
	"vidmerge/internal/util/format"
)

func newCutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cut FILE --segment START-END [--segment START-END...]",
		Short: "Export several ranges of one video, one file per segment",
		Long: `Cut one video into segments. Each --segment is exported with stream copy
to its own trimmed_<timestamp>.mp4. Segments are exported in order; a failed
segment does not stop the rest.`,
		Example:       "  vidmerge cut talk.mp4 --segment 0:10-0:45 --segment 2:00-2:30",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetStringArray("segment")
			if len(raw) == 0 {
				return &ExitError{Code: ExitCLIError, Err: errors.New("at least one --segment is required")}
			}
			ranges := make([]timeRange, 0, len(raw))
			for _, r := range raw {
				tr, err := parseRange(r)
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				ranges = append(ranges, tr)
			}

			env, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}
			item, err := newItem(args[0])
			if err != nil {
				return err
			}
			g := env.newGateway(cmd)
			info, err := g.Probe(cmd.Context(), item.Path)
			if err != nil {
				return exitFor(err)
			}

			ed := timeline.NewEditor(g, item, env.opts.OutDir)
			if err := ed.Load(info.DurationSec); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			for _, r := range ranges {
				ed.DragEnd(info.DurationSec)
				ed.DragStart(r.Start)
				ed.DragEnd(r.End)
				sel := ed.Selection()
				if math.Abs(sel.Start-r.Start) > 1e-6 || math.Abs(sel.End-r.End) > 1e-6 {
					env.logger.Warn("segment clamped to media",
						"requested", fmt.Sprintf("%s-%s", format.Timecode(r.Start), format.Timecode(r.End)),
						"used", fmt.Sprintf("%s-%s", format.Timecode(sel.Start), format.Timecode(sel.End)))
				}
				if _, err := ed.AddSegment(); err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
			}

			out := cmd.OutOrStdout()
			if env.opts.DryRun {
				for _, seg := range ed.Segments() {
					inv, err := g.Plan(model.Trim{Item: item, OutputDir: env.opts.OutDir, Start: seg.Start, Duration: seg.Duration})
					if err != nil {
						return exitFor(err)
					}
					fmt.Fprintf(out, "%s (%s - %s)\n", seg.Name, format.Timecode(seg.Start), format.Timecode(seg.End))
					printPlan(out, env.ffmpeg, inv)
				}
				return nil
			}

			if err := util.EnsureDir(env.opts.OutDir); err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
			}
			rep, err := ed.ExportAll(cmd.Context())
			if err != nil {
				return exitFor(err)
			}
			for _, p := range rep.Outputs {
				fmt.Fprintf(out, "Saved: %s (%s)\n", p, format.HumanizeBytes(util.FileSize(p)))
			}
			for _, f := range rep.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s failed: %s\n", f.Segment.Name, gateway.UserMessage(f.Err))
			}
			fmt.Fprintln(out, rep.Summary())
			if len(rep.Failures) > 0 {
				return &ExitError{Code: ExitToolError}
			}
			return nil
		},
	}
	cmd.Flags().StringArray("segment", nil, "Range to export as START-END (seconds, m:ss or h:mm:ss); repeatable")
	return cmd
}
