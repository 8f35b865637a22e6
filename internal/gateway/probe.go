package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"vidmerge/internal/model"
	"vidmerge/internal/util"
)

// ffprobeOutput is the subset of `ffprobe -print_format json` we read.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

// Probe reads container metadata for path with ffprobe.
func (g *Gateway) Probe(ctx context.Context, path string) (model.ProbeInfo, error) {
	if g.ffprobePath == "" {
		return model.ProbeInfo{}, errors.New("ffprobe path is required")
	}
	res, err := g.runner.Run(ctx, util.CmdSpec{
		Path: g.ffprobePath,
		Args: []string{
			"-v", "error",
			"-print_format", "json",
			"-show_format",
			"-show_streams",
			path,
		},
		Logger:        g.logger,
		CaptureStdout: true,
	})
	if err != nil {
		return model.ProbeInfo{}, &ToolError{Op: "probe", Args: []string{path}, Stderr: string(res.Stderr), Err: err}
	}
	return parseProbe(res.Stdout)
}

func parseProbe(data []byte) (model.ProbeInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return model.ProbeInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	info := model.ProbeInfo{Format: out.Format.FormatName}
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.DurationSec = d
	}
	if s, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
		info.Size = s
	}
	for _, st := range out.Streams {
		if st.CodecType != "video" {
			continue
		}
		info.Width, info.Height = st.Width, st.Height
		if info.DurationSec == 0 {
			if d, err := strconv.ParseFloat(st.Duration, 64); err == nil {
				info.DurationSec = d
			}
		}
		break
	}
	return info, nil
}

// probeDuration returns the duration of path in seconds, or 0 when unknown.
func (g *Gateway) probeDuration(ctx context.Context, path string) float64 {
	if g.ffprobePath == "" {
		return 0
	}
	info, err := g.Probe(ctx, path)
	if err != nil {
		g.logger.Debug("probe failed", "path", path, "error", err)
		return 0
	}
	return info.DurationSec
}

// expectedDuration estimates the output duration of req, 0 when unknown.
func (g *Gateway) expectedDuration(ctx context.Context, req model.Request) float64 {
	switch v := req.(type) {
	case model.Merge:
		total := 0.0
		for _, it := range v.Items {
			d := g.probeDuration(ctx, it.Path)
			if d <= 0 {
				return 0
			}
			total += d
		}
		return total
	case model.MergeImages:
		return float64(len(v.Items)) * v.PerImageDuration
	case model.ChangeSpeed:
		return g.probeDuration(ctx, v.Item.Path) / v.Factor
	case model.Trim:
		return v.Duration
	case model.ExtractAudio:
		return g.probeDuration(ctx, v.Item.Path)
	case model.Compress:
		return g.probeDuration(ctx, v.Item.Path)
	case model.Rotate:
		return g.probeDuration(ctx, v.Item.Path)
	}
	return 0
}
