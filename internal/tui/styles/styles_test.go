package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestUse(t *testing.T) {
	t.Cleanup(func() { Use("mocha") })

	Use("latte")
	if Theme() != "latte" {
		t.Errorf("Theme() = %q, want latte", Theme())
	}
	if _, ok := Primary.(lipgloss.Color); !ok {
		t.Errorf("Primary = %T, want lipgloss.Color", Primary)
	}

	Use("auto")
	if _, ok := Primary.(lipgloss.AdaptiveColor); !ok {
		t.Errorf("auto Primary = %T, want lipgloss.AdaptiveColor", Primary)
	}

	Use("solarized")
	if Theme() != "mocha" {
		t.Errorf("unknown theme = %q, want mocha", Theme())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"héllo wörld", 8, "héllo..."},
		{"hello", 2, "he"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestProgressBarWidth(t *testing.T) {
	for _, pct := range []float64{-10, 0, 42, 100, 150} {
		bar := ProgressBar(pct, 20)
		n := strings.Count(bar, "━") + strings.Count(bar, "─")
		if n != 20 {
			t.Errorf("ProgressBar(%v) has %d cells, want 20", pct, n)
		}
	}
	if ProgressBar(50, 0) != "" {
		t.Error("zero width bar should be empty")
	}
}
