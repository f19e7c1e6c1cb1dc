package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSoundFile is played when an alarm has no sound of its own.
	DefaultSoundFile = "assets/sounds/default_alarm.wav"

	// DefaultSnoozeMinutes is the snooze duration applied when none is given.
	DefaultSnoozeMinutes = 5
)

// Alarm is one scheduled wake event.
type Alarm struct {
	ID             string
	Time           TimeOfDay
	Label          string
	Enabled        bool
	RepeatDays     []Weekday // empty means one-shot
	SoundFile      string
	SnoozeDuration int // minutes
	Vibrate        bool
	SnoozeCount    int

	// NextTrigger, when set, overrides the regular schedule check until it
	// resolves. This is how snoozing is represented.
	NextTrigger *time.Time

	// LastFired marks the minute this alarm last fired. Runtime-only state,
	// never persisted; it suppresses a second fire inside a matching minute.
	LastFired time.Time
}

// Params carries the caller-supplied settings for a new alarm. Zero values
// select the defaults.
type Params struct {
	Time           string // "HH:MM"
	Label          string
	RepeatDays     []Weekday
	Vibrate        *bool // nil means on
	SnoozeDuration int   // minutes; <= 0 selects the default
	SoundFile      string
}

// NewAlarm validates p and builds an enabled alarm with a fresh ID.
func NewAlarm(p Params) (*Alarm, error) {
	t, err := ParseTimeOfDay(p.Time)
	if err != nil {
		return nil, err
	}
	days, err := NormalizeWeekdays(p.RepeatDays)
	if err != nil {
		return nil, err
	}
	snooze := p.SnoozeDuration
	if snooze <= 0 {
		snooze = DefaultSnoozeMinutes
	}
	sound := p.SoundFile
	if sound == "" {
		sound = DefaultSoundFile
	}
	vibrate := true
	if p.Vibrate != nil {
		vibrate = *p.Vibrate
	}
	return &Alarm{
		ID:             uuid.New().String(),
		Time:           t,
		Label:          p.Label,
		Enabled:        true,
		RepeatDays:     days,
		SoundFile:      sound,
		SnoozeDuration: snooze,
		Vibrate:        vibrate,
	}, nil
}

// DisplayLabel returns the trimmed user label, or a label synthesized from
// the alarm's hour when the user left it empty. Never persisted.
func (a *Alarm) DisplayLabel() string {
	if label := strings.TrimSpace(a.Label); label != "" {
		return label
	}
	switch hour := a.Time.Hour; {
	case hour >= 5 && hour < 9:
		return "Morning Alarm"
	case hour >= 9 && hour < 12:
		return "Late Morning"
	case hour >= 12 && hour < 14:
		return "Lunch Time"
	case hour >= 14 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 20:
		return "Evening"
	case hour >= 20 && hour < 23:
		return "Night"
	default:
		return "Late Night"
	}
}

// IsOneShot reports whether the alarm has no repeat days and therefore
// disables itself after firing.
func (a *Alarm) IsOneShot() bool {
	return len(a.RepeatDays) == 0
}

// RepeatsOn reports whether d is one of the alarm's repeat days.
func (a *Alarm) RepeatsOn(d Weekday) bool {
	for _, rd := range a.RepeatDays {
		if rd == d {
			return true
		}
	}
	return false
}

// ResetSnooze clears any in-flight snooze state.
func (a *Alarm) ResetSnooze() {
	a.SnoozeCount = 0
	a.NextTrigger = nil
}

// NextOccurrence returns the first instant at or after now when the alarm is
// due: a pending trigger if one is set, otherwise the next day matching the
// schedule at the alarm's time.
func (a *Alarm) NextOccurrence(now time.Time) time.Time {
	if a.NextTrigger != nil {
		return *a.NextTrigger
	}
	at := a.Time.At(now)
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	if a.IsOneShot() {
		return at
	}
	for i := 0; i < 7; i++ {
		if a.RepeatsOn(WeekdayOf(at)) {
			return at
		}
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// Clone returns a deep copy that shares no mutable state with a.
func (a *Alarm) Clone() *Alarm {
	b := *a
	if a.RepeatDays != nil {
		b.RepeatDays = append([]Weekday(nil), a.RepeatDays...)
	}
	if a.NextTrigger != nil {
		t := *a.NextTrigger
		b.NextTrigger = &t
	}
	return &b
}
