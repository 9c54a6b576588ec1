package domain

import (
	"testing"
)

func TestSnapshot_CanEditPlan(t *testing.T) {
	tests := []struct {
		name     string
		progress PomodoroProgress
		mode     RunMode
		want     bool
	}{
		{"plain countdown running", NoSession(), ModeRunning, true},
		{"pomodoro running", FirstCycle(), ModeRunning, false},
		{"pomodoro paused", FirstCycle(), ModePaused, true},
		{"pomodoro idle", FirstCycle(), ModeIdle, true},
		{"nothing", NoSession(), ModeIdle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{
				Session:  TimerSession{SelectedSeconds: 60, RemainingSeconds: 60, Mode: tt.mode},
				Progress: tt.progress,
			}
			if got := s.CanEditPlan(); got != tt.want {
				t.Errorf("CanEditPlan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshot_ActivePlan(t *testing.T) {
	configured := DefaultPomodoroPlan()
	frozen := PomodoroPlan{WorkSeconds: 120, ShortBreakSeconds: 60, LongBreakSeconds: 180, CyclesBeforeLongBreak: 2}

	s := Snapshot{Progress: FirstCycle(), Plan: configured, SessionPlan: frozen}
	if got := s.ActivePlan(); got != frozen {
		t.Errorf("ActivePlan() during a session = %+v, want %+v", got, frozen)
	}

	s.Progress = NoSession()
	if got := s.ActivePlan(); got != configured {
		t.Errorf("ActivePlan() outside a session = %+v, want %+v", got, configured)
	}
}

func TestGetPhaseLabel(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseWork, "Work"},
		{PhaseShortBreak, "Short Break"},
		{PhaseLongBreak, "Long Break"},
		{PhaseNone, "Countdown"},
		{Phase("x"), "Unknown"},
	}

	for _, tt := range tests {
		if got := GetPhaseLabel(tt.phase); got != tt.want {
			t.Errorf("GetPhaseLabel(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestGetModeLabel(t *testing.T) {
	tests := []struct {
		mode RunMode
		want string
	}{
		{ModeIdle, "Idle"},
		{ModeRunning, "Running"},
		{ModePaused, "Paused"},
		{RunMode("x"), "Unknown"},
	}

	for _, tt := range tests {
		if got := GetModeLabel(tt.mode); got != tt.want {
			t.Errorf("GetModeLabel(%v) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestCompletionRecord(t *testing.T) {
	r := NewCompletionRecord(PhaseShortBreak, 300, 2)

	if r.ID == "" {
		t.Error("NewCompletionRecord() should assign an ID")
	}
	if !r.IsBreak() || r.IsWork() {
		t.Errorf("IsBreak/IsWork = %v/%v, want true/false", r.IsBreak(), r.IsWork())
	}
	if r.Duration().Minutes() != 5 {
		t.Errorf("Duration() = %v, want 5m", r.Duration())
	}

	r.SetGitContext("main", "abc123")
	if r.GitBranch != "main" || r.GitCommit != "abc123" {
		t.Errorf("git context = %s/%s, want main/abc123", r.GitBranch, r.GitCommit)
	}

	plain := NewCompletionRecord("", 60, 0)
	if plain.Phase != PhaseNone {
		t.Errorf("Phase = %v, want %v", plain.Phase, PhaseNone)
	}
}
