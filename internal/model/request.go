package model

import "vidmerge/internal/media"

// Op names an operation kind; it doubles as the job id prefix in progress events.
type Op string

const (
	OpMerge        Op = "merge"
	OpMergeImages  Op = "merge-images"
	OpChangeSpeed  Op = "speed"
	OpTrim         Op = "trim"
	OpExtractAudio Op = "audio"
	OpCompress     Op = "compress"
	OpRotate       Op = "rotate"
)

// Request is a closed set of operation requests. Only types in this package
// implement it.
type Request interface {
	Op() Op
	Dir() string
	isRequest()
}

// Merge concatenates videos in queue order with stream copy.
type Merge struct {
	Items     []media.Item `validate:"min=1"`
	OutputDir string       `validate:"required"`
}

// MergeImages holds each image for PerImageDuration seconds and joins them into one video.
type MergeImages struct {
	Items            []media.Item `validate:"min=1"`
	OutputDir        string       `validate:"required"`
	PerImageDuration float64      `validate:"gt=0"`
}

// ChangeSpeed scales playback rate by Factor.
type ChangeSpeed struct {
	Item      media.Item
	OutputDir string  `validate:"required"`
	Factor    float64 `validate:"gt=0"`
}

// Trim extracts [Start, Start+Duration) with stream copy.
type Trim struct {
	Item      media.Item
	OutputDir string  `validate:"required"`
	Start     float64 `validate:"gte=0"`
	Duration  float64 `validate:"gt=0"`
}

// ExtractAudio drops video and encodes the audio to Format.
type ExtractAudio struct {
	Item      media.Item
	OutputDir string      `validate:"required"`
	Format    AudioFormat `validate:"oneof=mp3 aac wav"`
}

// Compress re-encodes with a fixed quality tier.
type Compress struct {
	Item      media.Item
	OutputDir string `validate:"required"`
	Quality   QualityPreset
}

// Rotate applies a fixed transpose per angle and copies audio.
type Rotate struct {
	Item      media.Item
	OutputDir string `validate:"required"`
	Angle     int    `validate:"oneof=90 180 270"`
}

func (Merge) Op() Op        { return OpMerge }
func (MergeImages) Op() Op  { return OpMergeImages }
func (ChangeSpeed) Op() Op  { return OpChangeSpeed }
func (Trim) Op() Op         { return OpTrim }
func (ExtractAudio) Op() Op { return OpExtractAudio }
func (Compress) Op() Op     { return OpCompress }
func (Rotate) Op() Op       { return OpRotate }

func (r Merge) Dir() string        { return r.OutputDir }
func (r MergeImages) Dir() string  { return r.OutputDir }
func (r ChangeSpeed) Dir() string  { return r.OutputDir }
func (r Trim) Dir() string         { return r.OutputDir }
func (r ExtractAudio) Dir() string { return r.OutputDir }
func (r Compress) Dir() string     { return r.OutputDir }
func (r Rotate) Dir() string       { return r.OutputDir }

func (Merge) isRequest()        {}
func (MergeImages) isRequest()  {}
func (ChangeSpeed) isRequest()  {}
func (Trim) isRequest()         {}
func (ExtractAudio) isRequest() {}
func (Compress) isRequest()     {}
func (Rotate) isRequest()       {}

// Sources returns every input item a request reads.
func Sources(r Request) []media.Item {
	switch v := r.(type) {
	case Merge:
		return v.Items
	case MergeImages:
		return v.Items
	case ChangeSpeed:
		return []media.Item{v.Item}
	case Trim:
		return []media.Item{v.Item}
	case ExtractAudio:
		return []media.Item{v.Item}
	case Compress:
		return []media.Item{v.Item}
	case Rotate:
		return []media.Item{v.Item}
	}
	return nil
}

// ProcessResult is the terminal success outcome of a request.
type ProcessResult struct {
	Success    bool
	OutputFile string
	Bytes      int64
}
