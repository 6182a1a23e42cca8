package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/t2048/internal/core"
)

func TestModeMenuSelectsMode(t *testing.T) {
	m := NewModeModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	view := m.View()
	for _, want := range []string{"2048", "Always Spawn"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu missing %q:\n%s", want, view)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := next.(ModeModel)
	if mm.Selected() == nil || mm.Selected().ID != "2048_easy" {
		t.Fatalf("selected = %+v, want 2048_easy", mm.Selected())
	}
	if cmd == nil {
		t.Error("selection should end the menu program")
	}
}

func TestModeMenuQuit(t *testing.T) {
	m := NewModeModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	mm := next.(ModeModel)
	if !mm.IsQuitting() || mm.Selected() != nil {
		t.Error("esc should leave the menu without a selection")
	}
}

func TestModeMenuTracksResize(t *testing.T) {
	m := NewModeModel(core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	cfg := next.(ModeModel).Config()
	if cfg.ScreenW != 120 || cfg.ScreenH != 50 {
		t.Errorf("config = %dx%d, want 120x50", cfg.ScreenW, cfg.ScreenH)
	}
}
