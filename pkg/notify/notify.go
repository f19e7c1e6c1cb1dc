// Package notify provides the notification collaborator. The core treats
// notifications as fire-and-forget side effects, so the default
// implementation simply renders them into the structured log.
package notify

import (
	"github.com/rs/zerolog"

	"reveil/pkg/models"
)

// LogNotifier writes alarm notifications to the log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

// ShowAlarmNotification renders the alarm as a notification log line.
func (n *LogNotifier) ShowAlarmNotification(a *models.Alarm) {
	n.log.Info().
		Str("alarm_id", a.ID).
		Str("label", a.DisplayLabel()).
		Str("time", a.Time.String()).
		Msg("alarm notification")
}

// ClearAlarmNotification dismisses the active notification.
func (n *LogNotifier) ClearAlarmNotification() {
	n.log.Debug().Msg("alarm notification cleared")
}
