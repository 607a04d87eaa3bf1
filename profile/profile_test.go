package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start(t *testing.T) {
	tests := []Profiler{
		{},
		{Mode: "no-such-mode", Path: t.TempDir(), Quiet: true},
	}

	for _, p := range tests {
		s := p.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("Start(%+v) = %T, want a no-op", p, s)
		}

		s.Stop()
	}
}

func TestModes(t *testing.T) {
	got := Modes()
	if !slices.IsSorted(got) {
		t.Errorf("Modes() = %v, not sorted", got)
	}
}
