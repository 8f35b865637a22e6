package encoder

import (
	"reflect"
	"strings"
	"testing"

	"vidmerge/internal/model"
)

func TestBuildMergeArgs(t *testing.T) {
	got := BuildMergeArgs("/tmp/list.txt", "/out/merged.mp4", false)
	want := []string{"-y", "-f", "concat", "-safe", "0", "-i", "/tmp/list.txt", "-c", "copy", "/out/merged.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildMergeArgs() = %v, want %v", got, want)
	}
}

func TestBuildImageMergeArgs(t *testing.T) {
	got := BuildImageMergeArgs([]string{"/a.png", "/b.jpg", "/c.gif"}, 2.5, "/out/s.mp4", true)
	argsStr := strings.Join(got, " ")

	for _, want := range []string{
		"-loop 1 -t 2.5 -i /a.png",
		"-loop 1 -t 2.5 -i /b.jpg",
		"-loop 1 -t 2.5 -i /c.gif",
		"-filter_complex [0:v][1:v][2:v]concat=n=3:v=1:a=0[out]",
		"-map [out]",
		"-pix_fmt yuv420p",
		"-progress pipe:1 -nostats",
	} {
		if !strings.Contains(argsStr, want) {
			t.Errorf("BuildImageMergeArgs() missing %q, got: %v", want, got)
		}
	}
	if got[len(got)-1] != "/out/s.mp4" {
		t.Errorf("last arg = %v", got[len(got)-1])
	}
}

func TestBuildSpeedArgs(t *testing.T) {
	tests := []struct {
		factor    float64
		wantVideo string
		wantAudio string
	}{
		{2, "setpts=0.5*PTS", "atempo=2"},
		{0.5, "setpts=2*PTS", "atempo=0.5"},
		{4, "setpts=0.25*PTS", "atempo=4"},
		{0.25, "setpts=4*PTS", "atempo=0.5,atempo=0.5"},
	}
	for _, tt := range tests {
		t.Run(FormatSeconds(tt.factor), func(t *testing.T) {
			got := BuildSpeedArgs("/in.mp4", tt.factor, "/out.mp4", false)
			want := []string{"-y", "-i", "/in.mp4", "-filter:v", tt.wantVideo, "-filter:a", tt.wantAudio, "/out.mp4"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("BuildSpeedArgs(%v) = %v, want %v", tt.factor, got, want)
			}
		})
	}
}

func TestAtempoChain(t *testing.T) {
	tests := []struct {
		factor float64
		want   string
	}{
		{1, "atempo=1"},
		{1.5, "atempo=1.5"},
		{0.3, "atempo=0.5,atempo=0.6"},
		{0.125, "atempo=0.5,atempo=0.5,atempo=0.5"},
		{0, "atempo=1"},
	}
	for _, tt := range tests {
		if got := AtempoChain(tt.factor); got != tt.want {
			t.Errorf("AtempoChain(%v) = %q, want %q", tt.factor, got, tt.want)
		}
	}
}

func TestBuildTrimArgs(t *testing.T) {
	got := BuildTrimArgs("/in.mp4", 10, 5.5, "/out.mp4", true)
	want := []string{"-y", "-ss", "10", "-i", "/in.mp4", "-t", "5.5", "-c", "copy", "-progress", "pipe:1", "-nostats", "/out.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildTrimArgs() = %v, want %v", got, want)
	}
}

func TestBuildAudioArgs(t *testing.T) {
	tests := []struct {
		format    model.AudioFormat
		wantCodec string
	}{
		{model.AudioMP3, "libmp3lame"},
		{model.AudioAAC, "aac"},
		{model.AudioWAV, "pcm_s16le"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := BuildAudioArgs("/in.mp4", tt.format, "/out."+string(tt.format), false)
			want := []string{"-y", "-i", "/in.mp4", "-vn", "-c:a", tt.wantCodec, "/out." + string(tt.format)}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("BuildAudioArgs() = %v, want %v", got, want)
			}
		})
	}
}

func TestBuildCompressArgs(t *testing.T) {
	tests := []struct {
		name         string
		quality      model.QualityPreset
		wantContains []string
	}{
		{name: "low", quality: model.PresetLow, wantContains: []string{"-crf 28", "-preset fast"}},
		{name: "medium", quality: model.PresetMedium, wantContains: []string{"-crf 23", "-preset medium"}},
		{name: "high", quality: model.PresetHigh, wantContains: []string{"-crf 18", "-preset slow"}},
		{name: "unknown falls back to medium", quality: "extreme", wantContains: []string{"-crf 23", "-preset medium"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, _ := BuildCompressArgs("/in.mp4", tt.quality, "/out.mp4", false)
			argsStr := strings.Join(args, " ")
			for _, want := range append(tt.wantContains, "-c:v libx264", "-c:a aac", "-movflags +faststart") {
				if !strings.Contains(argsStr, want) {
					t.Errorf("BuildCompressArgs() missing %q, got: %v", want, args)
				}
			}
			if strings.Contains(argsStr, "-progress") {
				t.Errorf("unexpected progress flags: %v", args)
			}
		})
	}
}

func TestBuildRotateArgs(t *testing.T) {
	tests := []struct {
		angle   int
		wantVF  string
		wantErr bool
	}{
		{angle: 90, wantVF: "transpose=1"},
		{angle: 180, wantVF: "transpose=2,transpose=2"},
		{angle: 270, wantVF: "transpose=2"},
		{angle: 45, wantErr: true},
		{angle: 0, wantErr: true},
	}
	for _, tt := range tests {
		args, err := BuildRotateArgs("/in.mp4", tt.angle, "/out.mp4", false)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BuildRotateArgs(%d) expected error", tt.angle)
			}
			continue
		}
		if err != nil {
			t.Fatalf("BuildRotateArgs(%d) error: %v", tt.angle, err)
		}
		want := []string{"-y", "-i", "/in.mp4", "-vf", tt.wantVF, "-c:a", "copy", "/out.mp4"}
		if !reflect.DeepEqual(args, want) {
			t.Errorf("BuildRotateArgs(%d) = %v, want %v", tt.angle, args, want)
		}
	}
}
