package scheduler

import (
	"context"
	"testing"
	"time"
)

func newTestScheduler(targets []Target, count *int) *Scheduler {
	return &Scheduler{
		Targets:   targets,
		Location:  time.UTC,
		Broadcast: func(context.Context) { *count++ },
	}
}

// advance runs ticks over a simulated clock sequence.
func advance(s *Scheduler, times ...time.Time) {
	for _, ts := range times {
		ts := ts
		s.Now = func() time.Time { return ts }
		s.tick(context.Background())
	}
}

func TestTick_OneBroadcastPerTargetPerDay(t *testing.T) {
	var count int
	s := newTestScheduler([]Target{{Hour: 9, Minute: 0}}, &count)

	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	// The 09:00 minute is sampled twice by the 30s poll.
	advance(s, base, base.Add(30*time.Second))

	if count != 1 {
		t.Fatalf("want exactly one broadcast, got %d", count)
	}
}

func TestTick_NonTargetMinutesDoNothing(t *testing.T) {
	var count int
	s := newTestScheduler([]Target{{Hour: 9, Minute: 0}}, &count)

	advance(s,
		time.Date(2026, 8, 29, 8, 59, 30, 0, time.UTC),
		time.Date(2026, 8, 29, 9, 1, 0, 0, time.UTC),
	)
	if count != 0 {
		t.Fatalf("want no broadcast, got %d", count)
	}
}

func TestTick_TargetFiresAgainAfterMidnight(t *testing.T) {
	var count int
	s := newTestScheduler([]Target{{Hour: 9, Minute: 0}}, &count)

	day1 := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 8, 30, 0, 0, 15, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	advance(s, day1, midnight, day2)
	if count != 2 {
		t.Fatalf("want one broadcast per day, got %d", count)
	}
}

func TestTick_MultipleTargetsSameDay(t *testing.T) {
	var count int
	s := newTestScheduler([]Target{{Hour: 9, Minute: 0}, {Hour: 12, Minute: 0}, {Hour: 19, Minute: 0}}, &count)

	advance(s,
		time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 29, 12, 0, 30, 0, time.UTC),
		time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC),
	)
	if count != 3 {
		t.Fatalf("want 3 broadcasts, got %d", count)
	}
}

func TestTick_MidnightTargetFiresOnce(t *testing.T) {
	// Date-carrying keys mean the midnight prune cannot resend a
	// target that fires at 00:00 itself.
	var count int
	s := newTestScheduler([]Target{{Hour: 0, Minute: 0}}, &count)

	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	advance(s, base, base.Add(30*time.Second))
	if count != 1 {
		t.Fatalf("want one broadcast at the 00:00 target, got %d", count)
	}
}

func TestTick_TargetInSchedulerZone(t *testing.T) {
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatal(err)
	}
	var count int
	s := newTestScheduler([]Target{{Hour: 9, Minute: 0}}, &count)
	s.Location = bangkok

	// 02:00 UTC is 09:00 in Bangkok.
	advance(s, time.Date(2026, 8, 29, 2, 0, 0, 0, time.UTC))
	if count != 1 {
		t.Fatalf("target must be evaluated in the configured zone, got %d", count)
	}
}

func TestParseTargets(t *testing.T) {
	targets, err := ParseTargets("09:00, 12:00,19:30")
	if err != nil {
		t.Fatal(err)
	}
	want := []Target{{9, 0}, {12, 0}, {19, 30}}
	if len(targets) != len(want) {
		t.Fatalf("got %v", targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("got %v, want %v", targets, want)
		}
	}

	if _, err := ParseTargets("25:00"); err == nil {
		t.Fatal("out-of-range hour must fail")
	}
	if _, err := ParseTargets("nine"); err == nil {
		t.Fatal("junk must fail")
	}
}
