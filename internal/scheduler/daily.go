package scheduler

import (
	"context"
	"log"
	"time"
)

// Job is the unit of work a Daily scheduler runs.
type Job func(ctx context.Context)

// Daily fires a job once per day at a fixed local hour. The next run is
// recomputed after each firing, so DST transitions in the configured
// timezone shift the wall-clock trigger, not the interval.
type Daily struct {
	name string
	hour int
	loc  *time.Location
	job  Job

	stop chan struct{}
	done chan struct{}
}

// NewDaily creates a scheduler that runs job every day at hour:00 in loc.
func NewDaily(name string, hour int, loc *time.Location, job Job) *Daily {
	if loc == nil {
		loc = time.UTC
	}
	return &Daily{
		name: name,
		hour: hour,
		loc:  loc,
		job:  job,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// NextRun returns the first hour:00 in the scheduler's timezone strictly
// after now.
func (d *Daily) NextRun(now time.Time) time.Time {
	now = now.In(d.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, 0, 0, 0, d.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start launches the scheduler loop in its own goroutine.
func (d *Daily) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Daily) run(ctx context.Context) {
	defer close(d.done)

	for {
		next := d.NextRun(time.Now())
		log.Printf("⏰ [Scheduler] %s: próxima ejecución %s", d.name, next.Format("2006-01-02 15:04 MST"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			d.job(ctx)
		case <-d.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// Stop terminates the loop and waits for it to exit. A job already in
// flight finishes first.
func (d *Daily) Stop() {
	close(d.stop)
	<-d.done
}
