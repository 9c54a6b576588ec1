package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestPaceAdvice_Validate(t *testing.T) {
	tests := []struct {
		pace    float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := PaceAdvice{Pace: tt.pace}.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.pace, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrMalformedAdvice) {
			t.Errorf("Validate(%v) error = %v, want ErrMalformedAdvice", tt.pace, err)
		}
	}
}

func TestDefaultPaceAdvice(t *testing.T) {
	if got := DefaultPaceAdvice().Pace; got != 1 {
		t.Errorf("DefaultPaceAdvice().Pace = %v, want 1", got)
	}
}

func TestTransitionDuration(t *testing.T) {
	tests := []struct {
		name string
		pace float64
		want time.Duration
	}{
		{"normal", 1, 400 * time.Millisecond},
		{"half", 0.5, 800 * time.Millisecond},
		{"clamped low", 0, 4 * time.Second},
		{"clamped high", 5, 200 * time.Millisecond},
		{"nan", math.NaN(), 400 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransitionDuration(tt.pace); got != tt.want {
				t.Errorf("TransitionDuration(%v) = %v, want %v", tt.pace, got, tt.want)
			}
		})
	}
}
