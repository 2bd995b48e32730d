package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalString(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{`"30s"`, 30 * time.Second},
		{`"5m"`, 5 * time.Minute},
		{`"1h30m"`, 90 * time.Minute},
		{`"10ms"`, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		var d Duration
		if err := yaml.Unmarshal([]byte(tt.input), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if d.Std() != tt.want {
			t.Errorf("unmarshal %s: expected %v, got %v", tt.input, tt.want, d.Std())
		}
	}
}

func TestDurationUnmarshalBareNumberIsSeconds(t *testing.T) {
	var d Duration
	if err := yaml.Unmarshal([]byte(`30`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Std() != 30*time.Second {
		t.Errorf("expected 30s, got %v", d.Std())
	}

	if err := yaml.Unmarshal([]byte(`0.5`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Std() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", d.Std())
	}
}

func TestDurationUnmarshalInvalid(t *testing.T) {
	var d Duration
	if err := yaml.Unmarshal([]byte(`"not a duration"`), &d); err == nil {
		t.Error("expected error for invalid duration string")
	}
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Duration
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("expected %v after round trip, got %v", d, back)
	}
}
