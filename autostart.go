package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart syncs the login-item registration with the configured state,
// so alarms keep firing after a reboot when autostart is on.
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "reveil",
		DisplayName: "Reveil Alarm Clock",
		Exec:        []string{execPath},
	}

	if enable {
		if app.IsEnabled() {
			return nil
		}
		return app.Enable()
	}
	if app.IsEnabled() {
		return app.Disable()
	}
	return nil
}
