package ui

import (
	"vidmerge/internal/dropzone"
	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/progress"
	"vidmerge/internal/timeline"
)

type progressMsg struct {
	U progress.Update
}

// feedClosedMsg stops the progress listener.
type feedClosedMsg struct{}

type dropMsg struct {
	B dropzone.Batch
}

type probedMsg struct {
	Item     media.Item
	Info     model.ProbeInfo
	Err      error
	Timeline bool // open the cutter once loaded
}

type jobDoneMsg struct {
	Kind   jobKind
	Result model.ProcessResult
	Report timeline.Report
	Err    error
}
