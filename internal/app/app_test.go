package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmood/internal/screens/home"
	"github.com/abhisek/mathmood/internal/screens/welcome"
)

func TestNewAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(Options{})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("active = %T, want welcome", m.router.Active())
	}
}

func TestNewAppModel_SkipWelcome(t *testing.T) {
	m := newAppModel(Options{SkipWelcome: true})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("active = %T, want home", m.router.Active())
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{SkipWelcome: true})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_ViewFrames(t *testing.T) {
	var model tea.Model = newAppModel(Options{SkipWelcome: true})
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	content := model.(AppModel).render()
	for _, want := range []string{"Mathmood", "Home", "What's your name?"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	var model tea.Model = newAppModel(Options{SkipWelcome: true})
	model, _ = model.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(model.(AppModel).render(), "Terminal too small") {
		t.Error("expected the min size message")
	}
}
