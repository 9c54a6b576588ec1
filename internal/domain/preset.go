package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Preset is a named countdown duration.
type Preset struct {
	Label   string
	Seconds int
}

// DefaultPresets lists the built-in durations offered for plain countdowns.
var DefaultPresets = []Preset{
	{Label: "3:30", Seconds: 210},
	{Label: "5:00", Seconds: 300},
	{Label: "10:00", Seconds: 600},
	{Label: "15:00", Seconds: 900},
	{Label: "20:00", Seconds: 1200},
	{Label: "25:00", Seconds: 1500},
	{Label: "30:00", Seconds: 1800},
}

// DefaultPresetIndex selects 5:00.
const DefaultPresetIndex = 1

// DefaultPreset returns the preset selected on startup.
func DefaultPreset() Preset {
	return DefaultPresets[DefaultPresetIndex]
}

// Duration returns the preset length as a time.Duration.
func (p Preset) Duration() time.Duration {
	return time.Duration(p.Seconds) * time.Second
}

// ParseSeconds parses user input into a positive number of seconds.
// Accepted forms: "25" (minutes), "90s", "1h30m" and other Go durations,
// and "mm:ss". Anything non-numeric or non-positive is ErrInvalidDuration.
func ParseSeconds(input string) (int, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidDuration)
	}

	if n, err := strconv.Atoi(in); err == nil {
		return positive(n*60, in)
	}

	if strings.Contains(in, ":") {
		parts := strings.Split(in, ":")
		if len(parts) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, in)
		}
		m, errM := strconv.Atoi(parts[0])
		s, errS := strconv.Atoi(parts[1])
		if errM != nil || errS != nil || m < 0 || s < 0 || s >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, in)
		}
		return positive(m*60+s, in)
	}

	d, err := time.ParseDuration(in)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, in)
	}
	return positive(int(d/time.Second), in)
}

func positive(seconds int, in string) (int, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: %q must be greater than zero", ErrInvalidDuration, in)
	}
	return seconds, nil
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped at 60.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
