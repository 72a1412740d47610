package log

import (
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	var names []string
	for s := range Levels() {
		names = append(names, s)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if len(names) != len(want) {
		t.Fatalf("Levels() = %v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Levels()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat(" JSON ") != FormatJSON {
		t.Error("expected JSON")
	}

	if ParseFormat("text") != FormatText {
		t.Error("expected text")
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("expected default for unknown format")
	}
}

func TestOptionsSetFields(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelWarn {
		t.Errorf("level = %v", c.level)
	}

	if c.format != FormatJSON {
		t.Errorf("format = %v", c.format)
	}

	if !c.caller {
		t.Error("caller not set")
	}

	if c.pretty {
		t.Error("pretty not cleared")
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T15:04:05Z"},
		{"kitchen", "3:04PM"},
		{"2006", "2024"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}
