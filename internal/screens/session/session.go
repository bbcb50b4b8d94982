// Package session is the story playthrough screen. It renders the
// coordinator's View and turns key presses into host operations.
package session

import (
	"context"
	"image/color"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/listenquest/internal/adventure"
	"github.com/abhisek/listenquest/internal/analytics"
	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/phase"
	"github.com/abhisek/listenquest/internal/router"
	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/screen"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/speech"
	"github.com/abhisek/listenquest/internal/store"
	"github.com/abhisek/listenquest/internal/ui/layout"
	"github.com/abhisek/listenquest/internal/ui/theme"
)

// Deps are the collaborators shared by every playthrough.
type Deps struct {
	Synth          speech.Synthesizer
	Repo           store.EventRepo // nil disables analytics
	Log            *logger.Logger
	Speed          narration.Speed
	EnforceReplays bool

	// Clock and Dispatch override the coordinator defaults in tests.
	Clock    adventure.Clock
	Dispatch func(func())
}

// SessionScreen implements screen.Screen for one story playthrough.
type SessionScreen struct {
	deps    Deps
	story   *script.Story
	learner string
	accent  color.Color

	narrator *narration.Orchestrator
	coord    *adventure.Coordinator
	ctx      context.Context
	cancel   context.CancelFunc

	view        adventure.View
	started     bool
	done        bool
	cursor      int
	cursorKey   cursorKey
	confirmExit bool
	errMsg      string
}

// cursorKey identifies a question presentation; the cursor resets when it
// changes.
type cursorKey struct {
	step     int
	phase    phase.Phase
	attempts int
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.HeaderProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)

// New builds the screen and its coordinator. The session starts when the
// screen is pushed.
func New(deps Deps, story *script.Story, learner string) *SessionScreen {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Synth == nil {
		deps.Synth = speech.Silent{}
	}
	log := deps.Log.With("learner", learner)

	voice, err := speech.LookupProfile(story.Voice)
	if err != nil {
		log.Warn("falling back to default voice", "story", story.ID, "error", err)
	}

	var recorder analytics.Recorder = analytics.Nop{}
	if deps.Repo != nil {
		recorder = analytics.NewStoreRecorder(deps.Repo)
	}

	narrator := narration.NewOrchestrator(deps.Synth, log)
	if deps.Speed != "" {
		narrator.SetSpeed(deps.Speed)
	}

	coord := adventure.New(story, narrator, scoring.NewEngine(scoring.AwardTableFor(story), recorder, log), adventure.Options{
		UserID:   learner,
		Voice:    voice,
		Replays:  phase.ReplayPolicy{Enforce: deps.EnforceReplays},
		Shuffler: phase.NewShuffler(nil),
		Clock:    deps.Clock,
		Dispatch: deps.Dispatch,
		Log:      log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &SessionScreen{
		deps:     deps,
		story:    story,
		learner:  learner,
		accent:   theme.StoryAccent(story.Theme),
		narrator: narrator,
		coord:    coord,
		ctx:      ctx,
		cancel:   cancel,
		view:     coord.View(),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.startSession()
}

func (s *SessionScreen) Title() string {
	return s.story.Title
}

// startSession probes speech and opens the session off the UI goroutine.
func (s *SessionScreen) startSession() tea.Cmd {
	ctx := s.ctx
	narrator, coord := s.narrator, s.coord
	return func() tea.Msg {
		available := narrator.Init(ctx)
		if !coord.Start(ctx) {
			return sessionStartedMsg{Err: errAlreadyStarted}
		}
		return sessionStartedMsg{SpeechAvailable: available}
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.started = true
		s.view = s.coord.View()
		return s, waitForView(s.coord.Updates())

	case viewMsg:
		return s.handleView(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleView(msg viewMsg) (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}
	if msg.ok {
		s.setView(msg.view)
	}
	if !msg.ok || msg.view.Finished {
		return s, s.finish()
	}
	return s, waitForView(s.coord.Updates())
}

// finish swaps this screen for the summary.
func (s *SessionScreen) finish() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	s.cancel()
	final := s.coord.View()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: newSummaryScreenAdapter(final, s.playAgain)}
	}
}

func (s *SessionScreen) playAgain() screen.Screen {
	return New(s.deps, s.story, s.learner)
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if !s.started || s.done {
		return s, nil
	}

	if s.confirmExit {
		switch key {
		case "y", "Y":
			s.confirmExit = false
			s.coord.RequestExit()
			s.refresh()
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmExit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmExit = true
		return s, nil
	case "+", "=":
		s.coord.ChangeSpeed(s.view.Speed.Faster())
		s.refresh()
		return s, nil
	case "-", "_":
		s.coord.ChangeSpeed(s.view.Speed.Slower())
		s.refresh()
		return s, nil
	}

	switch s.view.Phase {
	case phase.Listening:
		switch key {
		case "space", "l":
			s.coord.Replay()
		case "enter":
			s.coord.ProceedToQuestion()
		}

	case phase.Question:
		s.handleQuestionKey(key)

	case phase.Reveal:
		switch key {
		case "enter", "space", "right":
			s.coord.Advance()
		}
	}
	s.refresh()
	if s.view.Finished {
		return s, s.finish()
	}
	return s, nil
}

func (s *SessionScreen) handleQuestionKey(key string) {
	v := s.view
	if v.FeedbackVisible {
		if v.RetryMode {
			switch key {
			case "r":
				s.coord.Retry()
			case "s":
				s.coord.Skip()
			}
		}
		return
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(v.Choices)-1 {
			s.cursor++
		}
	case "enter":
		s.submit(s.cursor)
	case "1", "2", "3", "4":
		s.submit(int(key[0] - '1'))
	}
}

func (s *SessionScreen) submit(i int) {
	if i < 0 || i >= len(s.view.Choices) {
		return
	}
	s.cursor = i
	s.coord.SubmitChoice(s.view.Choices[i])
}

// refresh pulls the latest view so key handling reflects the operation
// just applied without waiting for the update channel.
func (s *SessionScreen) refresh() {
	s.setView(s.coord.View())
}

func (s *SessionScreen) setView(v adventure.View) {
	k := cursorKey{step: v.StepIndex, phase: v.Phase, attempts: v.Attempts}
	if k != s.cursorKey && !v.FeedbackVisible {
		s.cursor = 0
		s.cursorKey = k
	}
	s.view = v
}

// Close ends the session early when the screen is torn down mid-story,
// including while the session is still opening.
func (s *SessionScreen) Close() {
	s.coord.RequestExit()
	s.cancel()
}

func (s *SessionScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{
		Show:    s.started,
		Stars:   s.view.Stars,
		Elapsed: s.view.Elapsed,
		Speed:   speedLabel(s.view.Speed),
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirmExit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave story"},
			{Key: "N", Description: "Keep going"},
		}
	}
	hints := []layout.KeyHint{}
	v := s.view
	switch v.Phase {
	case phase.Listening:
		listen := "Listen"
		if v.Speaking {
			listen = "Restart"
		}
		hints = append(hints, layout.KeyHint{Key: "Space", Description: listen})
		if v.HasListened {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Question"})
		}
	case phase.Question:
		switch {
		case v.FeedbackVisible && v.RetryMode:
			hints = append(hints,
				layout.KeyHint{Key: "R", Description: "Try again"},
				layout.KeyHint{Key: "S", Description: "Skip"})
		case !v.FeedbackVisible:
			hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Answer"})
		}
	case phase.Reveal:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Continue"})
	}
	return append(hints,
		layout.KeyHint{Key: "+/-", Description: "Speed"},
		layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if !s.started {
		return renderLoading(width)
	}
	if s.confirmExit {
		return renderExitConfirm(width)
	}
	return s.renderStep(width, height)
}

// waitForView blocks on the coordinator's update channel.
func waitForView(ch <-chan adventure.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		return viewMsg{view: v, ok: ok}
	}
}

func speedLabel(sp narration.Speed) string {
	switch sp {
	case narration.SpeedSlow:
		return "🐢 slow"
	case narration.SpeedSlower:
		return "🐢🐢 slower"
	default:
		return "▶ normal"
	}
}
