package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/router"
	"github.com/abhisek/listenquest/internal/screen"
	"github.com/abhisek/listenquest/internal/screens/home"
	"github.com/abhisek/listenquest/internal/screens/session"
	"github.com/abhisek/listenquest/internal/screens/welcome"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/speech"
	"github.com/abhisek/listenquest/internal/store"
	"github.com/abhisek/listenquest/internal/ui/layout"
)

// Options wires the terminal UI to the rest of the application.
type Options struct {
	Stories []*script.Story

	// Repo persists sessions. Nil runs without history.
	Repo store.EventRepo

	Synth      speech.Synthesizer
	SpeechNote string
	Log        *logger.Logger

	Learner        string
	Speed          narration.Speed
	EnforceReplays bool

	// StartStory skips the splash and opens this story on top of home.
	StartStory *script.Story
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	init   tea.Cmd
	width  int
	height int
}

// newAppModel creates a new AppModel with the splash or home screen.
func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Synth == nil {
		opts.Synth = speech.Silent{}
	}

	deps := session.Deps{
		Synth:          opts.Synth,
		Repo:           opts.Repo,
		Log:            opts.Log,
		Speed:          opts.Speed,
		EnforceReplays: opts.EnforceReplays,
	}
	homeDeps := home.Deps{
		Stories: opts.Stories,
		Repo:    opts.Repo,
		Learner: opts.Learner,
		Launch: func(st *script.Story, learner string) screen.Screen {
			return session.New(deps, st, learner)
		},
		SpeechAvailable: opts.Synth.Initialize(context.Background()),
		SpeechNote:      opts.SpeechNote,
	}

	if opts.StartStory != nil {
		homeScreen := home.New(homeDeps)
		r := router.New(homeScreen)
		storyCmd := r.Push(session.New(deps, opts.StartStory, homeScreen.Learner()))
		return AppModel{router: r, init: tea.Batch(homeScreen.Init(), storyCmd)}
	}

	splash := welcome.New(func() screen.Screen { return home.New(homeDeps) })
	return AppModel{router: router.New(splash), init: splash.Init()}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.router.CloseAll()
			return m, tea.Quit
		}
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

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var stats layout.HeaderStats
	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if hp, ok := active.(screen.HeaderProvider); ok {
			stats = hp.HeaderStats()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = append(kp.KeyHints(), footerHints...)
		}
	}

	header := layout.RenderHeader(title, stats, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.router.CloseAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
