// Package notification announces finished countdowns on the desktop.
package notification

import (
	"errors"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/ports"
)

// Notifier implements ports.Notifier with beeep.
type Notifier struct {
	cfg    config.NotificationConfig
	notify func(title, message string, icon any) error
	beep   func(freq float64, duration int) error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: beeep.Notify,
		beep:   beeep.Beep,
	}
}

// Notify shows a desktop notification and optionally beeps. A disabled
// notifier does nothing.
func (n *Notifier) Notify(title, message string) error {
	if !n.cfg.Enabled {
		return nil
	}

	err := n.notify(title, message, "")
	if n.cfg.Sound {
		err = errors.Join(err, n.beep(beeep.DefaultFreq, beeep.DefaultDuration))
	}
	return err
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg.Enabled
}
