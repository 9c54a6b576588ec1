package domain

import (
	"errors"
	"testing"
)

func TestDefaultPomodoroPlan(t *testing.T) {
	plan := DefaultPomodoroPlan()

	if plan.WorkSeconds != 25*60 {
		t.Errorf("WorkSeconds = %v, want %v", plan.WorkSeconds, 25*60)
	}
	if plan.ShortBreakSeconds != 5*60 {
		t.Errorf("ShortBreakSeconds = %v, want %v", plan.ShortBreakSeconds, 5*60)
	}
	if plan.LongBreakSeconds != 15*60 {
		t.Errorf("LongBreakSeconds = %v, want %v", plan.LongBreakSeconds, 15*60)
	}
	if plan.CyclesBeforeLongBreak != 4 {
		t.Errorf("CyclesBeforeLongBreak = %v, want %v", plan.CyclesBeforeLongBreak, 4)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestPomodoroPlan_Validate(t *testing.T) {
	base := DefaultPomodoroPlan()
	tests := []struct {
		name   string
		mutate func(p *PomodoroPlan)
	}{
		{"zero work", func(p *PomodoroPlan) { p.WorkSeconds = 0 }},
		{"negative short", func(p *PomodoroPlan) { p.ShortBreakSeconds = -1 }},
		{"zero long", func(p *PomodoroPlan) { p.LongBreakSeconds = 0 }},
		{"zero cycles", func(p *PomodoroPlan) { p.CyclesBeforeLongBreak = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("Validate() error = %v, want ErrInvalidPlan", err)
			}
		})
	}
}

func TestPlanFromMinutes(t *testing.T) {
	tests := []struct {
		name              string
		work, short, long string
		want              PomodoroPlan
	}{
		{"valid", "50", "10", "30", PomodoroPlan{3000, 600, 1800, 4}},
		{"blank falls back", "", "", "", DefaultPomodoroPlan()},
		{"garbage falls back", "abc", "-3", "0", DefaultPomodoroPlan()},
		{"mixed", " 45 ", "x", "20", PomodoroPlan{2700, 300, 1200, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlanFromMinutes(tt.work, tt.short, tt.long); got != tt.want {
				t.Errorf("PlanFromMinutes() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPomodoroProgress_FullSession(t *testing.T) {
	plan := DefaultPomodoroPlan()
	p := FirstCycle()

	want := []Phase{
		PhaseWork, PhaseShortBreak, PhaseWork, PhaseShortBreak,
		PhaseWork, PhaseShortBreak, PhaseWork, PhaseLongBreak,
	}

	var got []Phase
	for {
		got = append(got, p.Phase)
		next, terminal := p.Advance(plan)
		p = next
		if terminal {
			break
		}
		if len(got) > 20 {
			t.Fatal("session never terminated")
		}
	}

	if len(got) != len(want) {
		t.Fatalf("phases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if p.Phase != PhaseNone || p.CompletedWorkCycles != 0 {
		t.Errorf("terminal progress = %+v, want none/0", p)
	}
}

func TestPomodoroProgress_AdvanceCounts(t *testing.T) {
	plan := DefaultPomodoroPlan()

	next, _ := PomodoroProgress{Phase: PhaseShortBreak, CompletedWorkCycles: 2}.Advance(plan)
	if next.Phase != PhaseWork || next.CompletedWorkCycles != 3 {
		t.Errorf("short break advance = %+v, want work/3", next)
	}

	next, _ = PomodoroProgress{Phase: PhaseWork, CompletedWorkCycles: 4}.Advance(plan)
	if next.Phase != PhaseLongBreak || next.CompletedWorkCycles != 4 {
		t.Errorf("fourth work advance = %+v, want long_break/4", next)
	}

	none := NoSession()
	next, terminal := none.Advance(plan)
	if terminal || next != none {
		t.Errorf("advance without session = %+v terminal=%v, want unchanged", next, terminal)
	}
}

func TestPomodoroPlan_SecondsFor(t *testing.T) {
	plan := DefaultPomodoroPlan()
	tests := []struct {
		phase Phase
		want  int
	}{
		{PhaseWork, 1500},
		{PhaseShortBreak, 300},
		{PhaseLongBreak, 900},
		{PhaseNone, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := plan.SecondsFor(tt.phase); got != tt.want {
				t.Errorf("SecondsFor(%v) = %v, want %v", tt.phase, got, tt.want)
			}
		})
	}
}
