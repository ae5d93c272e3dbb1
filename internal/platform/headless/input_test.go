package headless

import (
	"slices"
	"testing"

	"github.com/vovakirdan/blockfall/internal/core"
)

func TestParseScript(t *testing.T) {
	data := []byte(`
steps:
  - tick: 3
    actions: [left, rotate]
  - tick: 3
    actions: [hard_drop]
  - tick: 10
    actions: [soft_drop]
`)
	s, err := ParseScript(data)
	if err != nil {
		t.Fatalf("ParseScript error = %v", err)
	}

	got := s.Frame(3).List()
	want := []core.Action{core.ActionLeft, core.ActionHardDrop, core.ActionRotate}
	if !slices.Equal(got, want) {
		t.Errorf("Frame(3) = %v, want %v", got, want)
	}
	if !s.Frame(4).Empty() {
		t.Errorf("Frame(4) = %v, want empty", s.Frame(4).List())
	}
	if s.LastTick() != 10 || s.Len() != 3 {
		t.Errorf("LastTick/Len = %d/%d, want 10/3", s.LastTick(), s.Len())
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"tick zero", "steps:\n  - tick: 0\n    actions: [left]\n"},
		{"unknown action", "steps:\n  - tick: 1\n    actions: [jump]\n"},
		{"not yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tt.data)); err == nil {
				t.Error("ParseScript should fail")
			}
		})
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	rec := NewRecorder(NewRandomSource(7, 0.5))
	var frames [][]core.Action
	for tick := uint64(1); tick <= 200; tick++ {
		frames = append(frames, rec.Frame(tick).List())
	}

	script := rec.Script()
	if script.Len() == 0 {
		t.Fatal("recorder kept nothing")
	}

	data, err := script.Marshal()
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	parsed, err := ParseScript(data)
	if err != nil {
		t.Fatalf("ParseScript(recorded) error = %v\n%s", err, data)
	}

	for i, want := range frames {
		tick := uint64(i + 1)
		if got := parsed.Frame(tick).List(); !slices.Equal(got, want) {
			t.Fatalf("tick %d: replayed %v, recorded %v", tick, got, want)
		}
	}
}

func TestRandomSourceReproducible(t *testing.T) {
	a := NewRandomSource(99, 0.3)
	b := NewRandomSource(99, 0.3)
	for tick := uint64(1); tick <= 100; tick++ {
		if !slices.Equal(a.Frame(tick).List(), b.Frame(tick).List()) {
			t.Fatalf("sources diverged at tick %d", tick)
		}
	}
}
