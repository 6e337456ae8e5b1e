package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/screen"
	"github.com/abhisek/mathmood/internal/screens/history"
	sessionscreen "github.com/abhisek/mathmood/internal/screens/session"
	"github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/store"
	"github.com/abhisek/mathmood/internal/ui/components"
	"github.com/abhisek/mathmood/internal/ui/layout"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

// step is the part of the setup the learner is on.
type step int

const (
	stepName step = iota
	stepGrade
	stepTopic
	stepMenu
)

// lookupDoneMsg carries the stored profile for the entered name, if any.
type lookupDoneMsg struct {
	Name string
	User *store.User
	Err  error
}

type gradePickedMsg struct{ Grade int }

type topicPickedMsg struct{ Topic problemgen.Topic }

// changeSetupMsg sends the learner back to the name prompt.
type changeSetupMsg struct{}

// Deps are what the home screen needs to start quizzes.
type Deps struct {
	Engine  *session.Engine
	History history.Repo

	// Offline reports that questions come from the built-in generator.
	Offline bool
}

// HomeScreen walks the learner through name, grade and topic, then offers
// the main menu.
type HomeScreen struct {
	deps Deps
	step step

	nameInput components.TextInput
	gradeMenu components.Menu
	topicMenu components.Menu
	mainMenu  components.Menu

	name      string
	grade     int
	topic     problemgen.Topic
	returning *store.User
	looking   bool
	hint      string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen at the name prompt.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	grades := make([]string, 0, problemgen.MaxGrade-problemgen.MinGrade+1)
	for g := problemgen.MinGrade; g <= problemgen.MaxGrade; g++ {
		grades = append(grades, fmt.Sprintf("GRADE %d", g))
	}
	h.gradeMenu = components.NewChoiceMenu(grades, func(i int) tea.Cmd {
		return func() tea.Msg { return gradePickedMsg{Grade: problemgen.MinGrade + i} }
	})

	topics := make([]string, len(problemgen.Topics))
	for i, t := range problemgen.Topics {
		topics[i] = strings.ToUpper(string(t))
	}
	h.topicMenu = components.NewChoiceMenu(topics, func(i int) tea.Cmd {
		return func() tea.Msg { return topicPickedMsg{Topic: problemgen.Topics[i]} }
	})

	h.mainMenu = components.NewMenu([]components.MenuItem{
		{Label: "START QUIZ", Action: h.startQuiz},
		{Label: "HISTORY", Action: h.openHistory, Disabled: deps.History == nil},
		{Label: "CHANGE SETUP", Action: func() tea.Cmd {
			return func() tea.Msg { return changeSetupMsg{} }
		}},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})

	h.resetName()
	return h
}

func (h *HomeScreen) resetName() {
	h.step = stepName
	h.nameInput = components.NewTextInput("Type your name...", "", 32)
	h.hint = ""
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.nameInput.Init()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.step == stepName {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupDoneMsg:
		return h.handleLookup(msg)

	case gradePickedMsg:
		h.grade = msg.Grade
		h.step = stepTopic
		return h, nil

	case topicPickedMsg:
		h.topic = msg.Topic
		h.step = stepMenu
		return h, nil

	case changeSetupMsg:
		h.resetName()
		return h, h.nameInput.Init()

	case tea.KeyMsg:
		return h.handleKey(msg)
	}

	if h.step == stepName {
		var cmd tea.Cmd
		h.nameInput, cmd = h.nameInput.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "esc" && h.step > stepName {
		if h.step == stepGrade {
			h.resetName()
			return h, h.nameInput.Init()
		}
		h.step--
		return h, nil
	}

	var cmd tea.Cmd
	switch h.step {
	case stepName:
		if key == "enter" {
			return h, h.submitName()
		}
		h.nameInput, cmd = h.nameInput.Update(msg)
	case stepGrade:
		h.gradeMenu, cmd = h.gradeMenu.Update(msg)
	case stepTopic:
		h.topicMenu, cmd = h.topicMenu.Update(msg)
	case stepMenu:
		h.mainMenu, cmd = h.mainMenu.Update(msg)
	}
	return h, cmd
}

// submitName looks the name up so a returning learner is greeted and their
// last grade and topic are preselected.
func (h *HomeScreen) submitName() tea.Cmd {
	name := h.nameInput.Value()
	if name == "" {
		h.hint = "Please tell me your name first."
		return nil
	}
	if h.looking {
		return nil
	}
	h.looking = true
	h.hint = ""

	engine := h.deps.Engine
	return func() tea.Msg {
		if engine == nil {
			return lookupDoneMsg{Name: name}
		}
		u, err := engine.Lookup(context.Background(), name)
		return lookupDoneMsg{Name: name, User: u, Err: err}
	}
}

func (h *HomeScreen) handleLookup(msg lookupDoneMsg) (screen.Screen, tea.Cmd) {
	h.looking = false
	h.name = msg.Name
	h.returning = msg.User
	if msg.Err != nil {
		h.hint = "Could not check your profile, starting fresh: " + msg.Err.Error()
	}

	if u := msg.User; u != nil {
		h.name = u.Name
		h.preselect(u.Grade, u.Topic)
	}
	h.step = stepGrade
	return h, nil
}

// preselect moves the grade and topic menus onto a stored profile.
func (h *HomeScreen) preselect(grade int, topic string) {
	if i := grade - problemgen.MinGrade; i >= 0 && i < len(h.gradeMenu.Items) {
		h.gradeMenu.Selected = i
	}
	if t, err := problemgen.ParseTopic(topic); err == nil {
		for i, known := range problemgen.Topics {
			if known == t {
				h.topicMenu.Selected = i
			}
		}
	}
}

func (h *HomeScreen) startQuiz() tea.Cmd {
	setup := session.Setup{Name: h.name, Grade: h.grade, Topic: string(h.topic)}
	engine := h.deps.Engine
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: sessionscreen.New(engine, setup)}
	}
}

func (h *HomeScreen) openHistory() tea.Cmd {
	repo, name := h.deps.History, h.name
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: history.New(repo, name)}
	}
}

// greeting is the line shown above the current step.
func (h *HomeScreen) greeting() string {
	switch h.step {
	case stepName:
		return "Hi there! What's your name?"
	case stepGrade:
		if h.returning != nil {
			return fmt.Sprintf("Welcome back, %s! Which grade are you in?", h.name)
		}
		return fmt.Sprintf("Nice to meet you, %s! Which grade are you in?", h.name)
	case stepTopic:
		return "What do you want to practice?"
	default:
		return fmt.Sprintf("Ready when you are, %s!", h.name)
	}
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw))
	compact := height < 30
	if !compact {
		sections = append(sections, components.Centered(components.RenderMascot(h.mood()), cw, theme.Text))
	}
	sections = append(sections, renderChoices(h.name, h.grade, string(h.topic), cw))
	if h.deps.Offline {
		sections = append(sections, renderLLMBanner(cw))
	}
	sections = append(sections, components.Centered(h.greeting(), cw, theme.Text))

	menuView := components.Menu.View
	if compact {
		menuView = components.Menu.ViewCompact
	}
	switch h.step {
	case stepName:
		sections = append(sections, components.Centered(h.nameInput.View(), cw, theme.Text))
	case stepGrade:
		sections = append(sections, menuView(h.gradeMenu, cw))
	case stepTopic:
		sections = append(sections, menuView(h.topicMenu, cw))
	case stepMenu:
		sections = append(sections, menuView(h.mainMenu, cw))
	}

	if h.hint != "" {
		sections = append(sections, components.Centered(h.hint, cw, theme.Accent))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

// mood picks the mascot face for the current step.
func (h *HomeScreen) mood() components.Mood {
	switch {
	case h.hint != "":
		return components.MoodWorried
	case h.step == stepMenu || h.returning != nil:
		return components.MoodCheering
	case h.step == stepName:
		return components.MoodIdle
	default:
		return components.MoodPuzzled
	}
}
