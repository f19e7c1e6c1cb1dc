// Package engine holds the trigger-decision algorithm and the poll loop that
// evaluates every enabled alarm against the wall clock at a fixed interval.
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"reveil/pkg/models"
)

// DefaultInterval is the poll period. A given alarm minute is observed by
// roughly two polls; the per-minute LastFired marker keeps that from turning
// into a double fire.
const DefaultInterval = 30 * time.Second

// Collection gives the engine access to the alarm set while the owner holds
// the collection lock for the duration of the callback.
type Collection interface {
	Sweep(fn func(*models.Alarm))
}

// FireFunc consumes a firing event. The alarm passed in is a snapshot taken
// under the collection lock.
type FireFunc func(*models.Alarm)

// Evaluate decides whether a is due at now and applies the firing side
// effects on the alarm itself: a resolved pending trigger is cleared, a fired
// one-shot disarms, and the fired minute is marked.
//
// The pending-trigger check runs first and short-circuits the schedule check:
// a snoozed alarm ignores its nominal time until the pending trigger resolves.
func Evaluate(a *models.Alarm, now time.Time) bool {
	if !a.Enabled {
		return false
	}
	minute := now.Truncate(time.Minute)

	if a.NextTrigger != nil {
		if now.Before(*a.NextTrigger) {
			return false
		}
		a.NextTrigger = nil
		a.LastFired = minute
		return true
	}

	if !a.Time.Matches(now) {
		return false
	}
	if a.LastFired.Equal(minute) {
		// Already fired on an earlier poll inside this minute.
		return false
	}
	if !a.IsOneShot() {
		if !a.RepeatsOn(models.WeekdayOf(now)) {
			return false
		}
	} else {
		a.Enabled = false // self-disarm
	}
	a.LastFired = minute
	return true
}

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	Interval time.Duration
	Now      func() time.Time
	Logger   zerolog.Logger
}

// Engine runs the periodic evaluation loop. It reads and mutates alarm state
// through the Collection and emits firing events through the FireFunc; side
// effects like audio and notifications stay with the consumer.
type Engine struct {
	alarms   Collection
	onFire   FireFunc
	persist  func() error
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New builds an engine over alarms. persist is called after any poll that
// mutated alarm state; its errors are logged and retried on the next poll.
func New(alarms Collection, onFire FireFunc, persist func() error, opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		alarms:   alarms,
		onFire:   onFire,
		persist:  persist,
		interval: opts.Interval,
		now:      opts.Now,
		log:      opts.Logger.With().Str("component", "engine").Logger(),
	}
}

// Start launches the poll loop. It polls once immediately and then at the
// configured interval. Starting a running engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		return
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.run(e.stop, e.done)
	e.log.Debug().Dur("interval", e.interval).Msg("trigger engine started")
}

// Stop signals the loop to terminate and waits for the in-flight poll to
// finish. Safe to call when the engine is not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	stop, done := e.stop, e.done
	e.stop, e.done = nil, nil
	e.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	e.log.Debug().Msg("trigger engine stopped")
}

func (e *Engine) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.PollOnce(e.now())
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.PollOnce(e.now())
		}
	}
}

// PollOnce evaluates every alarm against now, emits firing events for the
// ones that are due, and persists if anything changed. A problem with one
// alarm never stops the sweep for the rest.
func (e *Engine) PollOnce(now time.Time) {
	var fired []*models.Alarm
	e.alarms.Sweep(func(a *models.Alarm) {
		if Evaluate(a, now) {
			fired = append(fired, a.Clone())
		}
	})
	if len(fired) == 0 {
		return
	}

	for _, a := range fired {
		e.log.Info().Str("alarm_id", a.ID).Str("time", a.Time.String()).Msg("alarm due")
		e.emit(a)
	}
	if err := e.persist(); err != nil {
		e.log.Warn().Err(err).Msg("persisting after poll failed, will retry next poll")
	}
}

// emit delivers one firing event, isolating the sweep from consumer panics.
func (e *Engine) emit(a *models.Alarm) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("alarm_id", a.ID).Msg("fire handler panicked")
		}
	}()
	e.onFire(a)
}
