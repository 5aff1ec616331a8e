package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		plain   string
	}{
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"1.2.3", true, "1.2.3"},
		{"1.2.3-rc.1+build.123", true, "1.2.3-rc.1+build.123"},
		{"nightly", true, "nightly"},
	}
	for _, tt := range tests {
		got := Colored(tt.in, tt.enabled)
		if stripped := stripANSI(got); stripped != tt.plain {
			t.Errorf("Colored(%q) = %q, stripped %q", tt.in, got, stripped)
		}
		hasEscape := strings.Contains(got, "\x1b[")
		wantEscape := tt.enabled && strings.Count(tt.in, ".") >= 2
		if hasEscape != wantEscape {
			t.Errorf("Colored(%q, %v): escape codes present = %v", tt.in, tt.enabled, hasEscape)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
