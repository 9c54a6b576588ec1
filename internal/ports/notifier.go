package ports

// Notifier delivers completion alerts to the user.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify shows a desktop notification and plays the audio cue.
	Notify(title, message string) error
}
