package core

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in       string
		expected Action
		wantErr  bool
	}{
		{"left", ActionLeft, false},
		{"ROTATE", ActionRotate, false},
		{" hard_drop ", ActionHardDrop, false},
		{"rotate_ccw", ActionRotateCCW, false},
		{"jump", ActionNone, true},
	}

	for _, tc := range tests {
		got, err := ParseAction(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseAction(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseAction(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestActionYAML(t *testing.T) {
	var actions []Action
	if err := yaml.Unmarshal([]byte("[left, rotate, soft_drop]"), &actions); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	expected := []Action{ActionLeft, ActionRotate, ActionSoftDrop}
	if len(actions) != len(expected) {
		t.Fatalf("got %v, expected %v", actions, expected)
	}
	for i := range expected {
		if actions[i] != expected[i] {
			t.Errorf("action %d = %v, expected %v", i, actions[i], expected[i])
		}
	}

	out, err := yaml.Marshal([]Action{ActionHardDrop})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "- hard_drop\n" {
		t.Errorf("Marshal = %q", out)
	}

	if err := yaml.Unmarshal([]byte("[fly]"), &actions); err == nil {
		t.Error("unknown action should fail to decode")
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame(ActionRotate, ActionLeft)

	if !f.Has(ActionLeft) || !f.Has(ActionRotate) {
		t.Error("frame should hold the constructor actions")
	}
	if f.Empty() {
		t.Error("frame should not be empty")
	}

	list := f.List()
	if len(list) != 2 || list[0] != ActionLeft || list[1] != ActionRotate {
		t.Errorf("List() = %v, expected [left rotate]", list)
	}

	clone := f.Clone()
	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}
	if !clone.Has(ActionLeft) {
		t.Error("Clone must be independent of the original")
	}

	var zero InputFrame
	if zero.Has(ActionLeft) || !zero.Empty() {
		t.Error("zero frame should be empty")
	}
}
