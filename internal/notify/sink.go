// Package notify delivers game and status messages to a Discord channel.
package notify

import (
	"context"

	"github.com/woozymasta/gamewatch/internal/models"
)

// Sink is a message-oriented channel that can create, edit and delete messages.
type Sink interface {
	// Create posts a message and returns its handle.
	Create(ctx context.Context, msg models.Message) (string, error)

	// Update replaces the payload of an existing message.
	Update(ctx context.Context, handle string, msg models.Message) Result

	// Delete removes a message.
	Delete(ctx context.Context, handle string) Result
}

// Status is the outcome of an update or delete.
type Status int

const (
	// OK means the operation was applied.
	OK Status = iota
	// NotFound means the message no longer exists.
	NotFound
	// Failed means any other error.
	Failed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Result reports the outcome of an update or delete.
type Result struct {
	Err    error
	Status Status
}

// Done reports whether the message is in the desired state.
// A missing message counts as done for cleanup purposes.
func (r Result) Done() bool {
	return r.Status == OK || r.Status == NotFound
}

// ResultOf classifies err into a Result.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Result{Status: OK}
	case IsNotFound(err):
		return Result{Status: NotFound, Err: err}
	default:
		return Result{Status: Failed, Err: err}
	}
}
