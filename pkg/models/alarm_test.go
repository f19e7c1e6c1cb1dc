package models

import (
	"testing"
	"time"
)

func TestNewAlarmDefaults(t *testing.T) {
	a, err := NewAlarm(Params{Time: "07:30"})
	if err != nil {
		t.Fatalf("NewAlarm error = %v", err)
	}

	if a.ID == "" {
		t.Fatal("NewAlarm left ID empty")
	}
	if !a.Enabled {
		t.Fatal("new alarm should be enabled")
	}
	if a.Label != "" || len(a.RepeatDays) != 0 {
		t.Fatalf("unexpected defaults: label=%q days=%v", a.Label, a.RepeatDays)
	}
	if !a.Vibrate || a.SnoozeDuration != DefaultSnoozeMinutes || a.SoundFile != DefaultSoundFile {
		t.Fatalf("unexpected defaults: vibrate=%v snooze=%d sound=%q", a.Vibrate, a.SnoozeDuration, a.SoundFile)
	}
	if a.SnoozeCount != 0 || a.NextTrigger != nil {
		t.Fatal("new alarm should have no snooze state")
	}
}

func TestNewAlarmRejectsBadInput(t *testing.T) {
	if _, err := NewAlarm(Params{Time: "25:61"}); err == nil || !IsValidation(err) {
		t.Fatalf("NewAlarm(25:61) error = %v, want ValidationError", err)
	}
	if _, err := NewAlarm(Params{Time: "07:30", RepeatDays: []Weekday{9}}); err == nil || !IsValidation(err) {
		t.Fatalf("NewAlarm(repeat day 9) error = %v, want ValidationError", err)
	}
}

func TestNewAlarmUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		a, err := NewAlarm(Params{Time: "07:30"})
		if err != nil {
			t.Fatalf("NewAlarm error = %v", err)
		}
		if seen[a.ID] {
			t.Fatalf("duplicate ID %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		time string
		want string
	}{
		{"05:00", "Morning Alarm"},
		{"08:59", "Morning Alarm"},
		{"09:00", "Late Morning"},
		{"11:59", "Late Morning"},
		{"12:00", "Lunch Time"},
		{"13:30", "Lunch Time"},
		{"14:00", "Afternoon"},
		{"16:45", "Afternoon"},
		{"17:00", "Evening"},
		{"19:59", "Evening"},
		{"20:00", "Night"},
		{"22:30", "Night"},
		{"23:00", "Late Night"},
		{"00:15", "Late Night"},
		{"04:59", "Late Night"},
	}
	for _, tc := range tests {
		a, err := NewAlarm(Params{Time: tc.time})
		if err != nil {
			t.Fatalf("NewAlarm(%q) error = %v", tc.time, err)
		}
		if got := a.DisplayLabel(); got != tc.want {
			t.Fatalf("DisplayLabel() at %s = %q, want %q", tc.time, got, tc.want)
		}
	}
}

func TestDisplayLabelPrefersUserLabel(t *testing.T) {
	a, _ := NewAlarm(Params{Time: "07:30", Label: "  Gym  "})
	if got := a.DisplayLabel(); got != "Gym" {
		t.Fatalf("DisplayLabel() = %q, want %q", got, "Gym")
	}

	a.Label = "   "
	if got := a.DisplayLabel(); got != "Morning Alarm" {
		t.Fatalf("DisplayLabel() with blank label = %q, want fallback", got)
	}
}

func TestNextOccurrence(t *testing.T) {
	// Monday 2024-01-01, 08:00.
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	oneShot, _ := NewAlarm(Params{Time: "07:30"})
	if got := oneShot.NextOccurrence(now); !got.Equal(time.Date(2024, 1, 2, 7, 30, 0, 0, time.UTC)) {
		t.Fatalf("one-shot past time: NextOccurrence = %v, want tomorrow 07:30", got)
	}

	laterToday, _ := NewAlarm(Params{Time: "09:00"})
	if got := laterToday.NextOccurrence(now); !got.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("one-shot future time: NextOccurrence = %v, want today 09:00", got)
	}

	weekend, _ := NewAlarm(Params{Time: "09:00", RepeatDays: []Weekday{Saturday, Sunday}})
	if got := weekend.NextOccurrence(now); !got.Equal(time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("repeat alarm: NextOccurrence = %v, want Saturday 09:00", got)
	}

	snoozed, _ := NewAlarm(Params{Time: "07:30"})
	until := now.Add(5 * time.Minute)
	snoozed.NextTrigger = &until
	if got := snoozed.NextOccurrence(now); !got.Equal(until) {
		t.Fatalf("snoozed alarm: NextOccurrence = %v, want pending trigger %v", got, until)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := NewAlarm(Params{Time: "07:30", RepeatDays: []Weekday{Monday}})
	until := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a.NextTrigger = &until

	b := a.Clone()
	b.RepeatDays[0] = Sunday
	*b.NextTrigger = until.Add(time.Hour)

	if a.RepeatDays[0] != Monday {
		t.Fatal("Clone shares the repeat day slice")
	}
	if !a.NextTrigger.Equal(until) {
		t.Fatal("Clone shares the next trigger pointer")
	}
}
