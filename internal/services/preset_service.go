package services

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/chronozen/internal/domain"
)

// PresetService is the duration registry.
type PresetService struct {
	presets []domain.Preset
	def     int
}

// NewPresetService builds a registry from labels such as "3:30" or "25m".
// Empty labels yields the built-in presets. defaultLabel picks the preset
// selected on startup; unknown labels fall back to the first preset.
func NewPresetService(labels []string, defaultLabel string) (*PresetService, error) {
	s := &PresetService{}
	if len(labels) == 0 {
		s.presets = append(s.presets, domain.DefaultPresets...)
		s.def = domain.DefaultPresetIndex
	} else {
		for _, label := range labels {
			seconds, err := domain.ParseSeconds(label)
			if err != nil {
				return nil, fmt.Errorf("invalid preset %q: %w", label, err)
			}
			s.presets = append(s.presets, domain.Preset{Label: domain.FormatClock(seconds), Seconds: seconds})
		}
	}

	if defaultLabel != "" {
		if i := s.index(defaultLabel); i >= 0 {
			s.def = i
		} else if len(labels) > 0 {
			s.def = 0
		}
	}
	return s, nil
}

// List returns the presets in display order.
func (s *PresetService) List() []domain.Preset {
	return append([]domain.Preset(nil), s.presets...)
}

// Default returns the startup preset.
func (s *PresetService) Default() domain.Preset {
	return s.presets[s.def]
}

// DefaultIndex returns the position of the startup preset.
func (s *PresetService) DefaultIndex() int {
	return s.def
}

func (s *PresetService) index(label string) int {
	label = strings.TrimSpace(label)
	for i, p := range s.presets {
		if strings.EqualFold(p.Label, label) {
			return i
		}
	}
	seconds, err := domain.ParseSeconds(label)
	if err != nil {
		return -1
	}
	for i, p := range s.presets {
		if p.Seconds == seconds {
			return i
		}
	}
	return -1
}

// Resolve turns a preset label or duration text into seconds.
func (s *PresetService) Resolve(input string) (int, error) {
	if i := s.index(input); i >= 0 {
		return s.presets[i].Seconds, nil
	}
	return domain.ParseSeconds(input)
}

// Lookup returns the preset with the given label.
func (s *PresetService) Lookup(label string) (domain.Preset, error) {
	if i := s.index(label); i >= 0 {
		return s.presets[i], nil
	}
	return domain.Preset{}, fmt.Errorf("%w: %q", domain.ErrUnknownPreset, label)
}

// Search returns presets whose label fuzzily matches query, best first.
// An empty query returns every preset.
func (s *PresetService) Search(query string) []domain.Preset {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List()
	}

	labels := make([]string, len(s.presets))
	for i, p := range s.presets {
		labels[i] = p.Label
	}

	var result []domain.Preset
	for _, match := range fuzzy.Find(query, labels) {
		result = append(result, s.presets[match.Index])
	}
	return result
}
