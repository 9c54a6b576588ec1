package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xvierd/chronozen/internal/domain"
)

func TestNewPresetService_Defaults(t *testing.T) {
	svc, err := NewPresetService(nil, "")
	require.NoError(t, err)

	require.Len(t, svc.List(), len(domain.DefaultPresets))
	require.Equal(t, "5:00", svc.Default().Label)
	require.Equal(t, domain.DefaultPresetIndex, svc.DefaultIndex())
}

func TestNewPresetService_Custom(t *testing.T) {
	svc, err := NewPresetService([]string{"45s", "2", "12:30"}, "02:00")
	require.NoError(t, err)

	want := []domain.Preset{
		{Label: "00:45", Seconds: 45},
		{Label: "02:00", Seconds: 120},
		{Label: "12:30", Seconds: 750},
	}
	require.Equal(t, want, svc.List())
	require.Equal(t, 1, svc.DefaultIndex())

	_, err = NewPresetService([]string{"soon"}, "")
	require.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestPresetService_Resolve(t *testing.T) {
	svc, _ := NewPresetService(nil, "")

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3:30", 210, false},
		{"25:00", 1500, false},
		{"10", 600, false},
		{"90s", 90, false},
		{"0", 0, true},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := svc.Resolve(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidDuration) {
					t.Errorf("Resolve(%q) error = %v, want ErrInvalidDuration", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Resolve(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestPresetService_Lookup(t *testing.T) {
	svc, _ := NewPresetService(nil, "")

	p, err := svc.Lookup("15:00")
	require.NoError(t, err)
	require.Equal(t, 900, p.Seconds)

	p, err = svc.Lookup("20m")
	require.NoError(t, err)
	require.Equal(t, "20:00", p.Label)

	_, err = svc.Lookup("7:00")
	require.ErrorIs(t, err, domain.ErrUnknownPreset)
}

func TestPresetService_Search(t *testing.T) {
	svc, _ := NewPresetService(nil, "")

	require.Len(t, svc.Search(""), len(domain.DefaultPresets))

	got := svc.Search("330")
	require.NotEmpty(t, got)
	require.Equal(t, "3:30", got[0].Label)

	require.Empty(t, svc.Search("xyz"))
}
