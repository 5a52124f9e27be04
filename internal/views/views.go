// Package views signals which rendered views became stale after a mutation.
// Readers compare the version of a view key before and after to decide whether
// to recompute.
package views

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

const (
	Home    = "home"
	Explore = "explore"
)

func Post(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

func Profile(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

func Notifications(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

type Invalidator interface {
	// Invalidate bumps the version of every key.
	Invalidate(ctx context.Context, keys ...string) error
	// Version returns the current version of key, 0 if it was never invalidated.
	Version(ctx context.Context, key string) (int64, error)
}

// Nop drops every signal.
type Nop struct{}

func (Nop) Invalidate(context.Context, ...string) error    { return nil }
func (Nop) Version(context.Context, string) (int64, error) { return 0, nil }

// Recorder keeps versions in memory and remembers each Invalidate call.
type Recorder struct {
	mu       sync.Mutex
	versions map[string]int64
	calls    [][]string
}

func NewRecorder() *Recorder {
	return &Recorder{versions: map[string]int64{}}
}

func (r *Recorder) Invalidate(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		r.versions[k]++
	}
	r.calls = append(r.calls, append([]string(nil), keys...))
	return nil
}

func (r *Recorder) Version(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.versions[key], nil
}

// Last returns the keys of the most recent Invalidate call, sorted.
func (r *Recorder) Last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.calls) == 0 {
		return nil
	}
	out := append([]string(nil), r.calls[len(r.calls)-1]...)
	sort.Strings(out)
	return out
}

// Calls returns how many times Invalidate ran.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
