package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/router"
	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/screen"
	"github.com/abhisek/listenquest/internal/ui/layout"
	"github.com/abhisek/listenquest/internal/ui/theme"
)

// Result is the outcome of one finished playthrough.
type Result struct {
	StoryTitle string
	Theme      string
	Completed  bool
	Score      int
	Stars      int
	Correct    int

	// StepIndex is where the learner stopped when the story was left early.
	StepIndex int
	StepCount int

	Elapsed time.Duration
}

// SummaryScreen displays the final score and stars.
type SummaryScreen struct {
	result Result
	again  func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. again builds a fresh playthrough of the
// same story; nil hides the play-again action.
func New(result Result, again func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{result: result, again: again}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Story Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.again != nil {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Play again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return screen.RefreshMsg{} },
		)
	case "p", "P":
		if s.again != nil {
			next := s.again()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	accent := theme.StoryAccent(r.Theme)

	var b strings.Builder
	b.WriteString("\n")

	heading := "Story complete!"
	if !r.Completed {
		heading = "See you next time!"
	}
	b.WriteString(center.Foreground(accent).Bold(true).Render(heading))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(r.StoryTitle))
	b.WriteString("\n\n")

	b.WriteString(center.Render(bigStars(r.Stars)))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Gold).Bold(true).
		Render(fmt.Sprintf("Score  %d / %d", r.Score, scoring.MaxScore)))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Text).
		Render(fmt.Sprintf("Correct answers: %d", r.Correct)))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Text).
		Render("Time: " + layout.FormatElapsed(r.Elapsed)))
	b.WriteString("\n")

	if !r.Completed && r.StepCount > 0 {
		b.WriteString(center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("Stopped at step %d of %d", r.StepIndex+1, r.StepCount)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Secondary).Italic(true).Render(encouragement(r)))
	return b.String()
}

func bigStars(n int) string {
	parts := make([]string, 0, scoring.MaxStars)
	for i := 0; i < scoring.MaxStars; i++ {
		if i < n {
			parts = append(parts, theme.StarEarned.Render("★"))
		} else {
			parts = append(parts, theme.StarEmpty.Render("☆"))
		}
	}
	return strings.Join(parts, "  ")
}

func encouragement(r Result) string {
	switch {
	case !r.Completed:
		return "Your progress has been saved."
	case r.Stars >= scoring.MaxStars:
		return "Every star collected. Amazing listening!"
	case r.Stars > 0:
		return "Great ears! Can you find the missing stars?"
	default:
		return "Every listen makes you stronger. Try again!"
	}
}
