package ui

import (
	"fmt"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"vidmerge/internal/progress"
)

// jobKind says what finished when an operation reports back.
type jobKind int

const (
	jobMerge jobKind = iota
	jobPanel
	jobExport
	jobExportAll
)

// jobState is the progress overlay for the one operation that may run at a time.
// An operation may span several gateway jobs (export-all runs one per segment);
// the overlay follows the newest job and ignores events from jobs it has left.
type jobState struct {
	kind    jobKind
	label   string
	stage   progress.Stage
	status  string
	percent float64 // -1 means unknown
	mono    progress.Monotonic

	jobID   string          // gateway job currently shown
	retired map[string]bool // jobs that finished or were superseded
	steps   int             // gateway jobs this operation runs; 0 when just one
	done    int             // of steps, how many have reached a terminal stage

	spinner spinner.Model
	bar     bubblesprogress.Model
}

func newJobState(styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		stage:   progress.StageQueued,
		percent: -1,
		retired: make(map[string]bool),
		spinner: sp,
		bar:     bar,
	}
}

// start resets the overlay for a new operation made of steps gateway jobs.
func (j *jobState) start(kind jobKind, label string, steps int) {
	j.kind = kind
	j.label = label
	j.stage = progress.StageQueued
	j.status = "Starting"
	j.percent = -1
	j.steps = steps
	j.done = 0
	j.retire()
	j.mono.Reset()
}

func (j *jobState) retire() {
	if j.jobID != "" {
		j.retired[j.jobID] = true
		j.jobID = ""
	}
}

// apply folds a feed update into the overlay. Percent never goes backwards
// within one gateway job. It reports whether the update was used.
func (j *jobState) apply(u progress.Update) bool {
	if j.retired[u.JobID] {
		return false
	}
	if u.JobID != j.jobID {
		// A terminal event for a job never seen starting belongs to an
		// earlier operation.
		if u.Stage.Terminal() {
			return false
		}
		j.retire()
		j.jobID = u.JobID
		j.mono.Reset()
	}
	j.stage = u.Stage
	if u.Message != "" {
		j.status = u.Message
	}
	j.percent = j.mono.Observe(u.Percent)
	if u.Stage.Terminal() {
		j.done++
		j.retire()
	}
	return true
}

// stepLabel is "Segment i of N" while a multi-job operation runs.
func (j *jobState) stepLabel() string {
	if j.steps <= 1 {
		return ""
	}
	i := j.done + 1
	if j.jobID == "" && j.done > 0 {
		i = j.done
	}
	if i > j.steps {
		i = j.steps
	}
	return fmt.Sprintf("Segment %d of %d", i, j.steps)
}
