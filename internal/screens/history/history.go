package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/router"
	"github.com/abhisek/listenquest/internal/screen"
	"github.com/abhisek/listenquest/internal/store"
	"github.com/abhisek/listenquest/internal/ui/layout"
	"github.com/abhisek/listenquest/internal/ui/theme"
)

// sessionLimit caps how many past sessions are listed.
const sessionLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Bests    []store.StoryBest
	Err      error
}

type attemptsLoadedMsg struct {
	SessionID string
	Attempts  []store.AttemptRecord
	Err       error
}

// HistoryScreen lists a learner's past sessions, their best results per
// story, and the answers of a selected session.
type HistoryScreen struct {
	eventRepo store.EventRepo
	userID    string
	sessions  []store.SessionRecord
	bests     []store.StoryBest
	attempts  map[string][]store.AttemptRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen for userID.
func New(eventRepo store.EventRepo, userID string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		userID:    userID,
		attempts:  make(map[string][]store.AttemptRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, userID := s.eventRepo, s.userID
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := repo.RecentSessions(ctx, store.QueryOpts{Limit: sessionLimit, UserID: userID})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		bests, err := repo.StoryBests(ctx, userID)
		if err != nil {
			return historyLoadedMsg{Sessions: sessions}
		}
		return historyLoadedMsg{Sessions: sessions, Bests: bests}
	}
}

func (s *HistoryScreen) loadAttempts(sessionID string) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		attempts, err := repo.SessionAttempts(context.Background(), sessionID)
		return attemptsLoadedMsg{SessionID: sessionID, Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.bests = msg.Bests
		}
		s.loaded = true
		return s, nil

	case attemptsLoadedMsg:
		if msg.Err == nil {
			s.attempts[msg.SessionID] = msg.Attempts
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].SessionID
			if _, ok := s.attempts[id]; !ok && s.expanded[s.selected] {
				return s, s.loadAttempts(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No stories played yet. Pick one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.bests) > 0 {
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("Best results")))
		b.WriteString("\n")
		for _, best := range s.bests {
			line := fmt.Sprintf("%-28s %s  best %3d  played %d",
				best.StoryTitle, layout.StarString(best.BestStars), best.BestScore, best.Plays)
			b.WriteString(centered(width, theme.Body.Render(line)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for i, sess := range s.sessions {
		outcome := "finished"
		if sess.Action == store.ActionExit {
			outcome = "left early"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s  %-24s %s  score %3d  %s  %s",
			prefix,
			sess.Timestamp.Format("Jan 02 15:04"),
			sess.StoryTitle,
			layout.StarString(sess.Stars),
			sess.Score,
			layout.FormatElapsed(time.Duration(sess.ElapsedSecs)*time.Second),
			outcome,
		)

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(centered(width, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAttempts(width, sess.SessionID))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAttempts(width int, sessionID string) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	attempts, ok := s.attempts[sessionID]
	if !ok {
		return centered(width, dim.Render("    Loading answers...")) + "\n"
	}
	if len(attempts) == 0 {
		return centered(width, dim.Render("    No answers this session")) + "\n"
	}

	var b strings.Builder
	for _, a := range attempts {
		mark, style := "✓", theme.Correct
		if !a.Correct {
			mark, style = "✗", theme.Incorrect
		}
		line := fmt.Sprintf("    %s %s  try %d  %d plays  %.1fs",
			mark, a.Question, a.Attempt, a.Replays, float64(a.ElapsedMs)/1000)
		b.WriteString(centered(width, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func centered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
