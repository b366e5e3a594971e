// Package timer is the delayed-wakeup primitive behind the turn clock. A
// session keeps at most one outstanding job and debounces it: every accepted
// word cancels the previous job and schedules a fresh one. Cancellation is
// best-effort; a job that slips through a cancel race fires anyway, and the
// engine absorbs the stale fire.
package timer

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobID string

type Scheduler interface {
	// ScheduleAt runs fn once at the given time and returns a handle for
	// cancellation.
	ScheduleAt(at time.Time, fn func()) JobID
	// Cancel stops the job if it has not fired yet. Unknown or already
	// fired ids are ignored.
	Cancel(id JobID)
}

// InProcess backs the Scheduler contract with time.AfterFunc.
type InProcess struct {
	mu   sync.Mutex
	jobs map[JobID]*time.Timer
}

func NewInProcess() *InProcess {
	return &InProcess{jobs: make(map[JobID]*time.Timer)}
}

func (s *InProcess) ScheduleAt(at time.Time, fn func()) JobID {
	id := JobID(uuid.NewString())
	t := time.AfterFunc(time.Until(at), func() {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
		fn()
	})

	s.mu.Lock()
	s.jobs[id] = t
	s.mu.Unlock()
	return id
}

func (s *InProcess) Cancel(id JobID) {
	s.mu.Lock()
	t, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
}
