package store

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"trendcast/types"
)

// ScheduleStore holds the daily generation schedules for the process
// lifetime. Nothing is persisted across restarts.
type ScheduleStore struct {
	mu        sync.Mutex
	schedules []types.Schedule

	now func() time.Time
}

// NewScheduleStore creates an empty schedule registry.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{now: time.Now}
}

// NewScheduleStoreWithClock creates a registry with an injected clock.
func NewScheduleStoreWithClock(now func() time.Time) *ScheduleStore {
	return &ScheduleStore{now: now}
}

// List returns a snapshot of all schedules in insertion order.
func (s *ScheduleStore) List() []types.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Schedule, len(s.schedules))
	copy(out, s.schedules)
	return out
}

// Add creates an enabled schedule for the given "HH:MM" time. The id is
// time-based, matching the upstream behavior.
func (s *ScheduleStore) Add(at string) types.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := nextRunAfter(at, now)
	schedule := types.Schedule{
		ID:      strconv.FormatInt(now.UnixMilli(), 10),
		Time:    at,
		Enabled: true,
		NextRun: &next,
	}
	s.schedules = append(s.schedules, schedule)
	return schedule
}

// Update merges the provided partial fields onto the schedule with the given
// id. Whenever Enabled is present, NextRun is recomputed (enabled) or
// cleared (disabled), overriding anything else. Returns false if the id is
// unknown.
func (s *ScheduleStore) Update(id string, updates types.ScheduleUpdate) (types.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return types.Schedule{}, false
	}

	sched := &s.schedules[idx]
	if updates.Time != nil {
		sched.Time = *updates.Time
	}
	if updates.Enabled != nil {
		sched.Enabled = *updates.Enabled
		if sched.Enabled {
			next := nextRunAfter(sched.Time, s.now())
			sched.NextRun = &next
		} else {
			sched.NextRun = nil
		}
	}
	return *sched, true
}

// Delete removes the schedule with the given id, reporting whether it existed.
func (s *ScheduleStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return false
	}
	s.schedules = append(s.schedules[:idx], s.schedules[idx+1:]...)
	return true
}

// ListDue returns every enabled schedule whose NextRun is at or before now.
// As a side effect each due schedule gets LastRun stamped and NextRun
// advanced to tomorrow at its wall-clock time. A schedule missed for several
// days still fires at most once per check; there is no backfill.
func (s *ScheduleStore) ListDue(now time.Time) []types.DueTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []types.DueTask
	for i := range s.schedules {
		sched := &s.schedules[i]
		if !sched.Enabled || sched.NextRun == nil {
			continue
		}
		if sched.NextRun.After(now) {
			continue
		}

		due = append(due, types.DueTask{ScheduleID: sched.ID, Time: sched.Time})

		ran := now
		sched.LastRun = &ran
		next := atWallClock(sched.Time, now).AddDate(0, 0, 1)
		sched.NextRun = &next
	}
	return due
}

func (s *ScheduleStore) indexOf(id string) int {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			return i
		}
	}
	return -1
}

// nextRunAfter computes today at "HH:MM" if still in the future relative to
// now, otherwise tomorrow at "HH:MM".
func nextRunAfter(at string, now time.Time) time.Time {
	next := atWallClock(at, now)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// atWallClock returns the given "HH:MM" on the same day as ref. The time
// string is assumed well-formed; a malformed one degrades to midnight,
// matching the split-and-parse behavior upstream.
func atWallClock(at string, ref time.Time) time.Time {
	var hours, minutes int
	if i := strings.IndexByte(at, ':'); i >= 0 {
		hours, _ = strconv.Atoi(at[:i])
		minutes, _ = strconv.Atoi(at[i+1:])
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hours, minutes, 0, 0, ref.Location())
}
