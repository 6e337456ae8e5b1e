package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/logger"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/screen"
	"github.com/abhisek/mathmood/internal/screens/history"
	"github.com/abhisek/mathmood/internal/screens/home"
	"github.com/abhisek/mathmood/internal/screens/welcome"
	"github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Engine  *session.Engine
	History history.Repo

	// Offline reports that questions come from the built-in generator.
	Offline bool

	// SkipWelcome starts on the setup screen.
	SkipWelcome bool
	Log         *logger.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    *logger.Logger
	width  int
	height int
}

// newAppModel creates the root model with the welcome splash in front of
// the setup screen.
func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	homeFactory := func() screen.Screen {
		return home.New(home.Deps{
			Engine:  opts.Engine,
			History: opts.History,
			Offline: opts.Offline,
		})
	}

	first := homeFactory
	if !opts.SkipWelcome {
		first = func() screen.Screen { return welcome.New(homeFactory) }
	}
	return AppModel{
		router: router.New(first()),
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case router.PushScreenMsg:
		m.log.Debug("push screen", "title", msg.Screen.Title(), "depth", m.router.Depth()+1)
	case router.ReplaceScreenMsg:
		m.log.Debug("replace screen", "title", msg.Screen.Title(), "depth", m.router.Depth())
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer at the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the learner quits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
