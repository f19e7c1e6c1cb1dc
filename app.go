package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"reveil/pkg/audio"
	"reveil/pkg/config"
	"reveil/pkg/controller"
	"reveil/pkg/ical"
	"reveil/pkg/models"
	"reveil/pkg/notify"
	"reveil/pkg/store"
)

// App wires the alarm core to its collaborators and owns their lifecycles.
type App struct {
	cfg        config.Config
	log        zerolog.Logger
	controller *controller.Controller
}

func newApp(cfg config.Config, log zerolog.Logger) *App {
	return &App{cfg: cfg, log: log}
}

func (app *App) initialize() error {
	if err := setupAutostart(app.cfg.Autostart); err != nil {
		app.log.Warn().Err(err).Msg("could not sync autostart state")
	}

	alarmStore := store.NewFileStore(app.cfg.DataFile, app.log)
	sounder := audio.NewManager(app.cfg.DefaultSound, app.log)
	notifier := notify.NewLogNotifier(app.log)

	app.controller = controller.New(alarmStore, sounder, notifier, controller.Options{
		PollInterval: app.cfg.PollInterval,
		Logger:       app.log,
	})
	app.controller.SetListener(app)

	app.controller.Start()
	app.exportCalendar()
	app.log.Info().Str("data_file", app.cfg.DataFile).Msg("reveil running")
	return nil
}

func (app *App) shutdown() {
	app.controller.Stop()
	app.log.Info().Msg("reveil shut down")
}

// OnAlarmTriggered implements controller.Listener.
func (app *App) OnAlarmTriggered(a *models.Alarm) {
	app.log.Info().Str("alarm_id", a.ID).Str("label", a.DisplayLabel()).Msg("alarm ringing")
	app.exportCalendar()
}

// OnAlarmStopped implements controller.Listener.
func (app *App) OnAlarmStopped(a *models.Alarm) {
	app.log.Info().Str("alarm_id", a.ID).Str("label", a.DisplayLabel()).Msg("alarm dismissed")
	app.exportCalendar()
}

// exportCalendar refreshes the iCalendar view of the schedule, if configured.
func (app *App) exportCalendar() {
	if app.cfg.CalendarFile == "" {
		return
	}
	f, err := os.Create(app.cfg.CalendarFile)
	if err != nil {
		app.log.Warn().Err(err).Str("path", app.cfg.CalendarFile).Msg("calendar export failed")
		return
	}
	defer f.Close()

	if err := ical.Export(f, app.controller.Alarms(), time.Now()); err != nil {
		app.log.Warn().Err(err).Msg("calendar export failed")
	}
}
