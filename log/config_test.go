package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{" warn ", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if got := ParseFormat("JSON"); got != FormatJSON {
		t.Errorf("expected json, got %v", got)
	}

	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("expected text, got %v", got)
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("expected default, got %v", got)
	}
}

func TestLevels_ListsAllNames(t *testing.T) {
	t.Parallel()

	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestConfig_Options_SetFields(t *testing.T) {
	t.Parallel()

	c := apply(config{},
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithOutput(nil))

	if c.level != LevelDebug {
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
	if c.output == nil {
		t.Error("nil output should be replaced by io.Discard")
	}
}

func TestConfig_formatTime_FormatsTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339 named layout", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano named layout", "rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"datetime named layout", "DateTime", "2023-10-15 14:30:45"},
		{"custom layout", "2006/01/02", "2023/10/15"},
		{"empty disables", "", ""},
		{"whitespace disables", "  \t ", ""},
		{"none disables", "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Handler_TraceLevelName(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	l := Make(&sb, WithLevel(LevelTrace), WithPretty(false), WithTimeLayout("none"))
	l.Trace("deep")

	if !strings.Contains(sb.String(), "level=TRACE") {
		t.Errorf("expected TRACE level name, got %q", sb.String())
	}
}
