package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/burrow/pkg/insights"
)

func TestInsightsOverlayRendersStats(t *testing.T) {
	v, _ := newTestTree(t)
	overlay := NewInsightsOverlay(TestTheme())
	overlay.SetSize(100, 30)
	overlay.SetStats(insights.Compute(v.Root()), "testvault")

	out := overlay.View()
	for _, want := range []string{"Vault insights", "testvault", "folders", "notes", "Largest folders"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in the insights panel", want)
		}
	}
}

func TestInsightsOverlayEmptyVault(t *testing.T) {
	overlay := NewInsightsOverlay(TestTheme())
	overlay.SetSize(100, 30)
	overlay.SetStats(insights.Stats{}, "empty")

	out := overlay.View()
	if !strings.Contains(out, "no folders") {
		t.Error("Expected the no-folders placeholder for an empty vault")
	}
}
