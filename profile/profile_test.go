package profile

import (
	"slices"
	"testing"
)

func TestProfiler_StartWithoutMode(t *testing.T) {
	t.Parallel()

	s := Profiler{Path: t.TempDir()}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", s)
	}

	s.Stop()
}

func TestProfiler_UnknownMode(t *testing.T) {
	t.Parallel()

	if slices.Contains(Modes(), "bogus") {
		t.Fatal("Modes() lists an unknown mode")
	}

	s := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", s)
	}

	s.Stop()
}

func TestModes_Sorted(t *testing.T) {
	t.Parallel()

	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("Modes() = %v, want sorted", m)
	}
}
