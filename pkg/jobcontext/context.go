// Package jobcontext carries per-tick metadata for scheduled jobs through
// context, so any layer can tag its logs with the originating job.
package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	keyJobID     contextKey = "job_id"
	keyJobName   contextKey = "job_name"
	keyStartedAt contextKey = "job_started_at"
	jobDeadline             = 5 * time.Minute
)

// JobBegin derives the context one job tick runs under: tagged with a fresh
// run id and the job name, and bounded by a deadline so a wedged external
// call cannot hold the job lock forever.
func JobBegin(parent context.Context, jobName string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, jobDeadline)
	ctx = context.WithValue(ctx, keyJobID, uuid.New())
	ctx = context.WithValue(ctx, keyJobName, jobName)
	ctx = context.WithValue(ctx, keyStartedAt, time.Now())
	return ctx, cancel
}

// JobID returns the run id of the current tick, or uuid.Nil outside a job.
func JobID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(keyJobID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// JobName returns the job name, or "" outside a job.
func JobName(ctx context.Context) string {
	if name, ok := ctx.Value(keyJobName).(string); ok {
		return name
	}
	return ""
}

// StartedAt returns when the tick began.
func StartedAt(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(keyStartedAt).(time.Time)
	return t, ok
}

// Elapsed returns how long the tick has been running, zero outside a job.
func Elapsed(ctx context.Context) time.Duration {
	if t, ok := StartedAt(ctx); ok {
		return time.Since(t)
	}
	return 0
}
