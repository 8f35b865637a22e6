package progress

// Stage identifies a high-level step of an operation.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageProbing    Stage = "probing"
	StageProcessing Stage = "processing"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

// Terminal reports whether no further updates follow this stage.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys progress or stage changes for a job.
// Percent is 0..100 when known; a negative value means unknown.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64

	Bytes   *int64  // optional cumulative output bytes
	Speed   *string // optional, e.g. "1.2x"
	Message string
}

// Log is a subprocess output line associated with a job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID      string
	OutputPath string
	Bytes      int64
	Err        error // nil on success
}

// Reporter is implemented by any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Update(Update) {}
func (Nop) Log(Log)       {}
func (Nop) Result(Result) {}

// Multi forwards every event to each non-nil reporter in order.
type Multi []Reporter

func (m Multi) Update(u Update) {
	for _, r := range m {
		if r != nil {
			r.Update(u)
		}
	}
}

func (m Multi) Log(l Log) {
	for _, r := range m {
		if r != nil {
			r.Log(l)
		}
	}
}

func (m Multi) Result(res Result) {
	for _, r := range m {
		if r != nil {
			r.Result(res)
		}
	}
}
