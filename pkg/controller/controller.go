// Package controller owns the canonical in-memory alarm set. It mediates the
// user-facing operations, drives the trigger engine, and calls out to the
// audio and notification collaborators when alarms fire, snooze, or stop.
package controller

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"reveil/pkg/engine"
	"reveil/pkg/models"
)

// Sounder plays and silences alarm audio. Calls are fire-and-forget: they are
// expected not to block and their failures never fail the operation.
type Sounder interface {
	PlayAlarmSound(soundRef string)
	StopAlarmSound()
	StartVibration()
	StopVibration()
}

// Notifier displays and clears alarm notifications, fire-and-forget.
type Notifier interface {
	ShowAlarmNotification(a *models.Alarm)
	ClearAlarmNotification()
}

// Listener observes alarm lifecycle events. Callbacks run on the firing or
// stopping goroutine and must not block for long.
type Listener interface {
	OnAlarmTriggered(a *models.Alarm)
	OnAlarmStopped(a *models.Alarm)
}

// Store is the durable mirror of the alarm set.
type Store interface {
	Load() []*models.Alarm
	Save(alarms []*models.Alarm) error
}

// Update carries a partial alarm edit; nil fields are left unchanged.
type Update struct {
	Time           *string // "HH:MM"
	Label          *string
	RepeatDays     *[]models.Weekday
	Vibrate        *bool
	SnoozeDuration *int
	SoundFile      *string
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	Now          func() time.Time
	Logger       zerolog.Logger
}

// Controller is the alarm façade. All operations are synchronous; every
// mutation is persisted inline, and a persistence failure never rolls back
// the in-memory change.
type Controller struct {
	mu     sync.Mutex
	alarms map[string]*models.Alarm

	store    Store
	sounder  Sounder
	notifier Notifier
	engine   *engine.Engine
	now      func() time.Time
	log      zerolog.Logger

	listenerMu sync.Mutex
	listener   Listener
}

// New wires a controller to its collaborators. Call Start to load persisted
// alarms and begin polling.
func New(store Store, sounder Sounder, notifier Notifier, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{
		alarms:   make(map[string]*models.Alarm),
		store:    store,
		sounder:  sounder,
		notifier: notifier,
		now:      opts.Now,
		log:      opts.Logger.With().Str("component", "controller").Logger(),
	}
	c.engine = engine.New(collectionView{c}, c.handleFired, c.persist, engine.Options{
		Interval: opts.PollInterval,
		Now:      opts.Now,
		Logger:   opts.Logger,
	})
	return c
}

// collectionView exposes the controller's alarm map to the engine under the
// collection lock.
type collectionView struct {
	c *Controller
}

func (v collectionView) Sweep(fn func(*models.Alarm)) {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	for _, a := range v.c.alarms {
		fn(a)
	}
}

// SetListener registers the single lifecycle listener; the last registration
// wins. Passing nil unregisters.
func (c *Controller) SetListener(l Listener) {
	c.listenerMu.Lock()
	c.listener = l
	c.listenerMu.Unlock()
}

func (c *Controller) getListener() Listener {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	return c.listener
}

// Start loads the persisted alarms into memory and starts the trigger engine.
func (c *Controller) Start() {
	loaded := c.store.Load()

	c.mu.Lock()
	for _, a := range loaded {
		if _, exists := c.alarms[a.ID]; exists {
			c.log.Warn().Str("alarm_id", a.ID).Msg("dropping duplicate alarm on load")
			continue
		}
		c.alarms[a.ID] = a
	}
	count := len(c.alarms)
	c.mu.Unlock()

	c.log.Info().Int("alarms", count).Msg("alarms loaded")
	c.engine.Start()
}

// Stop halts the trigger engine and silences any active sound, vibration, and
// notification. Safe to call even if nothing is active.
func (c *Controller) Stop() {
	c.engine.Stop()
	c.silence()
	c.log.Info().Msg("alarm controller stopped")
}

// AddAlarm validates p, inserts the new alarm, persists, and returns its ID.
func (c *Controller) AddAlarm(p models.Params) (string, error) {
	a, err := models.NewAlarm(p)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.alarms[a.ID] = a
	c.mu.Unlock()

	c.persist()
	c.log.Info().Str("alarm_id", a.ID).Str("time", a.Time.String()).Msg("alarm added")
	return a.ID, nil
}

// UpdateAlarm applies the provided fields to an existing alarm. Changing the
// time resets the snooze count and clears any pending trigger. Returns false
// if the ID is unknown and a ValidationError if an updated field is invalid.
func (c *Controller) UpdateAlarm(id string, u Update) (bool, error) {
	var newTime *models.TimeOfDay
	if u.Time != nil {
		t, err := models.ParseTimeOfDay(*u.Time)
		if err != nil {
			return false, err
		}
		newTime = &t
	}
	var newDays []models.Weekday
	if u.RepeatDays != nil {
		days, err := models.NormalizeWeekdays(*u.RepeatDays)
		if err != nil {
			return false, err
		}
		newDays = days
	}
	if u.SnoozeDuration != nil && *u.SnoozeDuration <= 0 {
		return false, models.NewValidationError("snooze duration must be positive, got %d", *u.SnoozeDuration)
	}

	c.mu.Lock()
	a, ok := c.alarms[id]
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	if newTime != nil {
		a.Time = *newTime
		a.ResetSnooze() // an in-flight snooze is invalidated by a time change
	}
	if u.Label != nil {
		a.Label = *u.Label
	}
	if u.RepeatDays != nil {
		a.RepeatDays = newDays
	}
	if u.Vibrate != nil {
		a.Vibrate = *u.Vibrate
	}
	if u.SnoozeDuration != nil {
		a.SnoozeDuration = *u.SnoozeDuration
	}
	if u.SoundFile != nil {
		a.SoundFile = *u.SoundFile
	}
	c.mu.Unlock()

	c.persist()
	c.log.Info().Str("alarm_id", id).Msg("alarm updated")
	return true, nil
}

// DeleteAlarm removes the alarm and persists; false if the ID is unknown.
func (c *Controller) DeleteAlarm(id string) bool {
	c.mu.Lock()
	_, ok := c.alarms[id]
	if ok {
		delete(c.alarms, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	c.persist()
	c.log.Info().Str("alarm_id", id).Msg("alarm deleted")
	return true
}

// ToggleAlarm flips the enabled state. Disabling clears the snooze count and
// any pending trigger. Returns false if the ID is unknown.
func (c *Controller) ToggleAlarm(id string) bool {
	c.mu.Lock()
	a, ok := c.alarms[id]
	var enabled bool
	if ok {
		a.Enabled = !a.Enabled
		enabled = a.Enabled
		if !a.Enabled {
			a.ResetSnooze()
		}
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	c.persist()
	c.log.Info().Str("alarm_id", id).Bool("enabled", enabled).Msg("alarm toggled")
	return true
}

// GetAlarm returns a copy of the alarm, or ErrAlarmNotFound.
func (c *Controller) GetAlarm(id string) (*models.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.alarms[id]
	if !ok {
		return nil, models.ErrAlarmNotFound
	}
	return a.Clone(), nil
}

// Alarms returns copies of all alarms ordered by time of day ascending.
func (c *Controller) Alarms() []*models.Alarm {
	c.mu.Lock()
	out := make([]*models.Alarm, 0, len(c.alarms))
	for _, a := range c.alarms {
		out = append(out, a.Clone())
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Time, out[j].Time
		if ti != tj {
			return ti.Hour*60+ti.Minute < tj.Hour*60+tj.Minute
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SnoozeAlarm silences the active alarm and schedules it to fire again after
// its snooze duration. No-op if the ID is unknown.
func (c *Controller) SnoozeAlarm(id string) {
	c.mu.Lock()
	a, ok := c.alarms[id]
	var until time.Time
	if ok {
		until = c.now().Add(time.Duration(a.SnoozeDuration) * time.Minute)
		a.NextTrigger = &until
		a.SnoozeCount++
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.silence()
	c.persist()
	c.log.Info().Str("alarm_id", id).Time("until", until).Msg("alarm snoozed")
}

// StopAlarm silences the active alarm, clears its snooze state, persists, and
// notifies the listener. Unknown IDs still silence any active sound.
func (c *Controller) StopAlarm(id string) {
	c.mu.Lock()
	a, ok := c.alarms[id]
	var stopped *models.Alarm
	if ok {
		a.ResetSnooze()
		stopped = a.Clone()
	}
	c.mu.Unlock()

	c.silence()
	if !ok {
		return
	}

	c.persist()
	c.log.Info().Str("alarm_id", id).Msg("alarm stopped")
	if l := c.getListener(); l != nil {
		l.OnAlarmStopped(stopped)
	}
}

// handleFired consumes a firing event from the engine: it starts sound and
// vibration, shows the notification, and notifies the listener.
func (c *Controller) handleFired(a *models.Alarm) {
	c.log.Info().Str("alarm_id", a.ID).Str("label", a.DisplayLabel()).Msg("alarm triggered")

	c.sounder.PlayAlarmSound(a.SoundFile)
	if a.Vibrate {
		c.sounder.StartVibration()
	}
	c.notifier.ShowAlarmNotification(a)

	if l := c.getListener(); l != nil {
		l.OnAlarmTriggered(a)
	}
}

// silence stops sound and vibration and clears the notification.
func (c *Controller) silence() {
	c.sounder.StopAlarmSound()
	c.sounder.StopVibration()
	c.notifier.ClearAlarmNotification()
}

// persist mirrors the in-memory set to the store. Failures are logged only;
// durability is best effort and never fails the calling operation.
func (c *Controller) persist() error {
	c.mu.Lock()
	snapshot := make([]*models.Alarm, 0, len(c.alarms))
	for _, a := range c.alarms {
		snapshot = append(snapshot, a.Clone())
	}
	c.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		ti, tj := snapshot[i].Time, snapshot[j].Time
		if ti != tj {
			return ti.Hour*60+ti.Minute < tj.Hour*60+tj.Minute
		}
		return snapshot[i].ID < snapshot[j].ID
	})

	if err := c.store.Save(snapshot); err != nil {
		c.log.Warn().Err(err).Msg("saving alarms failed")
		return err
	}
	return nil
}
