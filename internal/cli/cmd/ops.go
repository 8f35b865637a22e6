package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vidmerge/internal/model"
	"vidmerge/internal/panel"
	"vidmerge/internal/queue"
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge FILES...",
		Short: "Concatenate videos, or join images into one video, in argument order",
		Long: `Concatenate videos with stream copy, or turn a list of images into a
slideshow video. All inputs must be the same kind: videos and images cannot
be mixed. Unsupported files are skipped with a warning.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd, false)
			if err != nil {
				return err
			}
			g := env.newGateway(cmd)

			q := queue.New()
			if skipped := q.Ingest(args...); skipped > 0 {
				env.logger.Warn("some files were skipped", "skipped", skipped)
			}
			s := panel.NewSession(g, q)
			s.SetOutputDir(env.opts.OutDir)
			d := env.opts.ImageDuration
			if cmd.Flags().Changed("image-duration") {
				d, _ = cmd.Flags().GetFloat64("image-duration")
			}
			s.SetImageDuration(d)

			req, err := s.MergeRequest()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return env.run(cmd, g, req, func(ctx context.Context) (model.ProcessResult, error) {
				return s.RunMerge(ctx, req)
			})
		},
	}
	cmd.Flags().Float64("image-duration", model.DefaultImageDuration,
		fmt.Sprintf("Seconds each image is shown (%.1f-%.0f, step %.1f)", model.MinImageDuration, model.MaxImageDuration, model.ImageDurationStep))
	return cmd
}

// singleItemCmd builds a command that edits one file through a panel tab.
// configure reads the command's flags into the panel.
func singleItemCmd(use, short string, tab panel.Tab, bind func(*pflag.FlagSet), configure func(*cobra.Command, *execEnv, *panel.Panel) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd, false)
			if err != nil {
				return err
			}
			item, err := newItem(args[0])
			if err != nil {
				return err
			}
			g := env.newGateway(cmd)
			p := panel.New(g, item, env.opts.OutDir)
			if err := p.SetActive(tab); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			if err := configure(cmd, env, p); err != nil {
				return err
			}
			return env.run(cmd, g, p.Request(), p.Submit)
		},
	}
	bind(cmd.Flags())
	return cmd
}

func newSpeedCmd() *cobra.Command {
	return singleItemCmd("speed FILE", "Change playback speed of a video", panel.TabSpeed,
		func(fs *pflag.FlagSet) {
			fs.Float64("factor", 1, fmt.Sprintf("Speed factor (%.2f-%.0f, step %.2f)", panel.MinSpeed, panel.MaxSpeed, panel.SpeedStep))
		},
		func(cmd *cobra.Command, env *execEnv, p *panel.Panel) error {
			f, _ := cmd.Flags().GetFloat64("factor")
			if f <= 0 {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --factor: %v (must be greater than zero)", f)}
			}
			p.SetSpeed(f)
			if got := p.Params().Speed; got != f {
				env.logger.Warn("speed factor adjusted", "requested", f, "used", got)
			}
			return nil
		})
}

func newTrimCmd() *cobra.Command {
	return singleItemCmd("trim FILE", "Cut a range out of a video without re-encoding", panel.TabTrim,
		func(fs *pflag.FlagSet) {
			fs.String("start", "0", "Start time (seconds, m:ss or h:mm:ss)")
			fs.String("duration", "10", "Length to keep (seconds, m:ss or h:mm:ss)")
		},
		func(cmd *cobra.Command, _ *execEnv, p *panel.Panel) error {
			rawStart, _ := cmd.Flags().GetString("start")
			rawDur, _ := cmd.Flags().GetString("duration")
			start, err := parseTime(rawStart)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --start: %w", err)}
			}
			dur, err := parseTime(rawDur)
			if err != nil || dur <= 0 {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --duration: %q (must be greater than zero)", rawDur)}
			}
			p.SetTrimStart(start)
			p.SetTrimDuration(dur)
			return nil
		})
}

func newAudioCmd() *cobra.Command {
	return singleItemCmd("audio FILE", "Extract the audio track of a video", panel.TabAudio,
		func(fs *pflag.FlagSet) {
			fs.String("format", string(model.AudioMP3), "Audio format: mp3, aac, wav")
		},
		func(cmd *cobra.Command, _ *execEnv, p *panel.Panel) error {
			f, _ := cmd.Flags().GetString("format")
			p.SetAudioFormat(model.AudioFormat(strings.ToLower(f)))
			return nil
		})
}

func newCompressCmd() *cobra.Command {
	return singleItemCmd("compress FILE", "Re-encode a video at a fixed quality tier", panel.TabCompress,
		func(fs *pflag.FlagSet) {
			fs.String("quality", string(model.PresetMedium), "Quality preset: low, medium, high")
		},
		func(cmd *cobra.Command, _ *execEnv, p *panel.Panel) error {
			q, _ := cmd.Flags().GetString("quality")
			q = strings.ToLower(q)
			switch model.QualityPreset(q) {
			case model.PresetLow, model.PresetMedium, model.PresetHigh:
			default:
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --quality: %q (valid: low|medium|high)", q)}
			}
			p.SetQuality(model.QualityPreset(q))
			return nil
		})
}

func newRotateCmd() *cobra.Command {
	return singleItemCmd("rotate FILE", "Rotate a video by 90, 180 or 270 degrees", panel.TabRotate,
		func(fs *pflag.FlagSet) {
			fs.Int("angle", 90, "Clockwise rotation: 90, 180, 270")
		},
		func(cmd *cobra.Command, _ *execEnv, p *panel.Panel) error {
			a, _ := cmd.Flags().GetInt("angle")
			p.SetRotation(a)
			return nil
		})
}
