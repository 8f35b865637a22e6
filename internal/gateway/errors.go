package gateway

import (
	"errors"
	"fmt"
	"strings"

	"vidmerge/internal/model"
)

// Validation reasons. Match with errors.Is against a *ValidationError.
var (
	ErrEmptyQueue             = errors.New("queue is empty")
	ErrNoOutputDir            = errors.New("no output directory selected")
	ErrOutputDirUnusable      = errors.New("output directory does not exist or is not writable")
	ErrMixedMedia             = errors.New("cannot mix videos and images")
	ErrWrongMediaKind         = errors.New("wrong media type for this operation")
	ErrUnsupportedMedia       = errors.New("unsupported file type")
	ErrNoInput                = errors.New("no input file selected")
	ErrSourceMissing          = errors.New("input file not found")
	ErrUnsupportedRotation    = errors.New("unsupported rotation")
	ErrInvalidSpeed           = errors.New("speed factor must be greater than zero")
	ErrInvalidTrimRange       = errors.New("invalid trim range")
	ErrInvalidImageDuration   = errors.New("image duration must be greater than zero")
	ErrUnsupportedAudioFormat = errors.New("unsupported audio format")
	ErrUnknownRequest         = errors.New("unknown request type")
)

// ValidationError is returned before any process is started.
type ValidationError struct {
	Op     model.Op
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

func invalid(op model.Op, reason error, detail string) *ValidationError {
	return &ValidationError{Op: op, Reason: reason, Detail: detail}
}

// stderrTailLines is how much of ffmpeg's stderr Message keeps.
const stderrTailLines = 8

// ToolError wraps a failed ffmpeg invocation.
type ToolError struct {
	Op     model.Op
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("%s: ffmpeg failed: %v", e.Op, e.Err)
	}
	last := msg
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		last = msg[i+1:]
	}
	return fmt.Sprintf("%s: ffmpeg failed: %s: %v", e.Op, last, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Message returns the last lines of the tool's stderr, verbatim.
func (e *ToolError) Message() string {
	lines := strings.Split(strings.TrimRight(e.Stderr, "\n"), "\n")
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) > stderrTailLines {
		kept = kept[len(kept)-stderrTailLines:]
	}
	return strings.Join(kept, "\n")
}

// UserMessage renders err for a human: the tool's stderr tail for tool errors,
// the plain reason for validation errors.
func UserMessage(err error) string {
	var te *ToolError
	if errors.As(err, &te) {
		if m := te.Message(); m != "" {
			return m
		}
		return te.Error()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Detail != "" {
			return fmt.Sprintf("%v (%s)", ve.Reason, ve.Detail)
		}
		return ve.Reason.Error()
	}
	return err.Error()
}
