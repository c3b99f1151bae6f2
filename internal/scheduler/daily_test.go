package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestDaily_NextRun_BeforeHour(t *testing.T) {
	d := NewDaily("test", 9, time.UTC, nil)

	now := time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC)
	next := d.NextRun(now)

	want := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestDaily_NextRun_AfterHourRollsToTomorrow(t *testing.T) {
	d := NewDaily("test", 9, time.UTC, nil)

	now := time.Date(2026, 9, 1, 9, 0, 1, 0, time.UTC)
	next := d.NextRun(now)

	want := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestDaily_NextRun_ExactlyAtHourRollsToTomorrow(t *testing.T) {
	d := NewDaily("test", 9, time.UTC, nil)

	// A run fired at 09:00:00 must not fire again the same day.
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	next := d.NextRun(now)

	want := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestDaily_NextRun_UsesConfiguredTimezone(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	d := NewDaily("test", 9, loc, nil)

	// 14:30 UTC is 08:30 in UTC-6, half an hour before the trigger.
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	next := d.NextRun(now)

	want := time.Date(2026, 9, 1, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestDaily_NextRun_NilLocationDefaultsToUTC(t *testing.T) {
	d := NewDaily("test", 9, nil, nil)

	now := time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	next := d.NextRun(now)

	want := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestDaily_StopTerminatesLoop(t *testing.T) {
	d := NewDaily("test", 9, time.UTC, func(ctx context.Context) {
		t.Error("job must not fire during this test")
	})

	d.Start(context.Background())
	d.Stop() // must return promptly instead of hanging until 09:00

	select {
	case <-d.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler loop did not exit after Stop")
	}
}

func TestDaily_ContextCancelTerminatesLoop(t *testing.T) {
	d := NewDaily("test", 9, time.UTC, nil)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	select {
	case <-d.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler loop did not exit on context cancel")
	}
}
