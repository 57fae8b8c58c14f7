package ledger

import (
	"fmt"
	"time"
)

// Kind classifies the result of a sync attempt.
type Kind string

const (
	// Replaced means the remote payload was larger and overwrote the cache.
	Replaced Kind = "replaced"
	// UpToDate means the cache was left untouched.
	UpToDate Kind = "up_to_date"
	// FetchFailed means the attempt failed; the cache was left as it was.
	FetchFailed Kind = "fetch_failed"
)

// Outcome reports what a sync attempt did. It is a value, not an error:
// a failed sync never stops the caller.
type Outcome struct {
	Kind       Kind
	RemoteSize int64
	LocalSize  int64
	Reason     string // set for FetchFailed only
	Duration   time.Duration
}

// Failed reports whether the attempt ended in FetchFailed.
func (o Outcome) Failed() bool {
	return o.Kind == FetchFailed
}

func (o Outcome) String() string {
	switch o.Kind {
	case Replaced:
		return fmt.Sprintf("replaced (remote %d bytes > local %d bytes)", o.RemoteSize, o.LocalSize)
	case UpToDate:
		return fmt.Sprintf("up to date (remote %d bytes, local %d bytes)", o.RemoteSize, o.LocalSize)
	case FetchFailed:
		return fmt.Sprintf("fetch failed: %s", o.Reason)
	default:
		return string(o.Kind)
	}
}

// ShouldReplace is the freshness policy: the remote copy wins only when it
// is strictly larger. Size stands in for a version; a remote that shrank or
// changed without growing is never pulled.
func ShouldReplace(remoteSize, localSize int64) bool {
	return remoteSize > localSize
}
