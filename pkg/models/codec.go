package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// alarmRecord is the persisted wire shape of an Alarm. Optional fields are
// pointers so that absent values can be told apart from zero values.
type alarmRecord struct {
	ID             string          `json:"id"`
	Time           *TimeOfDay      `json:"time"`
	Label          string          `json:"label"`
	Enabled        *bool           `json:"enabled"`
	RepeatDays     []Weekday       `json:"repeat_days"`
	SoundFile      string          `json:"sound_file"`
	SnoozeDuration int             `json:"snooze_duration"`
	Vibrate        *bool           `json:"vibrate"`
	SnoozeCount    int             `json:"snooze_count"`
	NextTrigger    json.RawMessage `json:"next_trigger"`
}

func (a *Alarm) MarshalJSON() ([]byte, error) {
	t := a.Time
	enabled, vibrate := a.Enabled, a.Vibrate
	next := json.RawMessage("null")
	if a.NextTrigger != nil {
		encoded, err := json.Marshal(a.NextTrigger.Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
		next = encoded
	}
	days := a.RepeatDays
	if days == nil {
		days = []Weekday{}
	}
	return json.Marshal(alarmRecord{
		ID:             a.ID,
		Time:           &t,
		Label:          a.Label,
		Enabled:        &enabled,
		RepeatDays:     days,
		SoundFile:      a.SoundFile,
		SnoozeDuration: a.SnoozeDuration,
		Vibrate:        &vibrate,
		SnoozeCount:    a.SnoozeCount,
		NextTrigger:    next,
	})
}

// UnmarshalJSON decodes a persisted alarm record. Unknown fields are dropped,
// missing optional fields get their defaults, and a malformed next_trigger
// decodes to nil rather than failing the record. A missing or malformed time
// fails the record.
func (a *Alarm) UnmarshalJSON(data []byte) error {
	var rec alarmRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.Time == nil {
		return NewValidationError("alarm record has no time")
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	enabled := true
	if rec.Enabled != nil {
		enabled = *rec.Enabled
	}
	vibrate := true
	if rec.Vibrate != nil {
		vibrate = *rec.Vibrate
	}
	snooze := rec.SnoozeDuration
	if snooze <= 0 {
		snooze = DefaultSnoozeMinutes
	}
	sound := rec.SoundFile
	if sound == "" {
		sound = DefaultSoundFile
	}
	count := rec.SnoozeCount
	if count < 0 {
		count = 0
	}

	*a = Alarm{
		ID:             id,
		Time:           *rec.Time,
		Label:          rec.Label,
		Enabled:        enabled,
		RepeatDays:     sanitizeWeekdays(rec.RepeatDays),
		SoundFile:      sound,
		SnoozeDuration: snooze,
		Vibrate:        vibrate,
		SnoozeCount:    count,
		NextTrigger:    decodeNextTrigger(rec.NextTrigger),
	}
	return nil
}

// decodeNextTrigger parses the persisted next_trigger value. Anything that is
// not a well-formed timestamp string comes back as nil.
func decodeNextTrigger(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
