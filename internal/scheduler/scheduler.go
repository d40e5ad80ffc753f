package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Target is a local wall-clock time at which one broadcast fires per day.
type Target struct {
	Hour   int
	Minute int
}

func (t Target) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// ParseTargets parses a comma-separated list of HH:MM times.
func ParseTargets(s string) ([]Target, error) {
	parts := strings.Split(s, ",")
	out := make([]Target, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var t Target
		if _, err := fmt.Sscanf(p, "%d:%d", &t.Hour, &t.Minute); err != nil {
			return nil, fmt.Errorf("target %q: %w", p, err)
		}
		if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
			return nil, fmt.Errorf("target %q: out of range", p)
		}
		out = append(out, t)
	}
	return out, nil
}

// sentKey marks one broadcast already performed. Carrying the date keeps
// the at-most-once-per-day invariant even across the midnight prune.
type sentKey struct {
	day    string // YYYY-MM-DD in the scheduler's zone
	hour   int
	minute int
}

// Scheduler polls the clock at a fixed interval and runs Broadcast once
// per target per local day. Minute-resolution targets sampled on a
// sub-minute interval catch each target once under normal clock
// behavior; a tick delayed past the target minute (slow broadcast,
// clock jump) skips it until the next day.
//
// The sent set is in-memory only: a restart near a target minute may
// miss or duplicate that day's broadcast.
type Scheduler struct {
	Targets   []Target
	Interval  time.Duration
	Location  *time.Location
	Broadcast func(ctx context.Context)
	Log       *logrus.Entry

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time

	mu   sync.Mutex
	sent map[sentKey]struct{}
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) log() *logrus.Entry {
	if s.Log != nil {
		return s.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Run polls until ctx is canceled. It has no other terminal state.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick performs one poll: fire due targets, then prune stale dedup
// entries when the clock reads local midnight.
func (s *Scheduler) tick(ctx context.Context) {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	now := s.now().In(loc)
	day := now.Format("2006-01-02")

	for _, target := range s.Targets {
		if now.Hour() != target.Hour || now.Minute() != target.Minute {
			continue
		}
		key := sentKey{day: day, hour: target.Hour, minute: target.Minute}

		s.mu.Lock()
		if s.sent == nil {
			s.sent = make(map[sentKey]struct{})
		}
		_, done := s.sent[key]
		if !done {
			s.sent[key] = struct{}{}
		}
		s.mu.Unlock()

		if done {
			continue
		}
		s.log().WithField("target", target.String()).Info("scheduled broadcast")
		s.Broadcast(ctx)
	}

	if now.Hour() == 0 && now.Minute() == 0 {
		s.mu.Lock()
		for key := range s.sent {
			if key.day != day {
				delete(s.sent, key)
			}
		}
		s.mu.Unlock()
	}
}
