package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/phase"
	"github.com/abhisek/listenquest/internal/ui/components"
	"github.com/abhisek/listenquest/internal/ui/theme"
)

// renderStep renders the current step inside the story frame.
func (s *SessionScreen) renderStep(width, height int) string {
	v := s.view
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, components.StepProgress(v.StepIndex, v.StepCount, cw).View())

	title := v.Step.Title
	if v.Step.Emoji != "" {
		title = v.Step.Emoji + "  " + title
	}
	sections = append(sections,
		lipgloss.NewStyle().Foreground(s.accent).Bold(true).Render(title)+"   "+phaseBadge(v.Phase, v.Step.IsListening()))

	var body string
	switch {
	case !v.Step.IsListening():
		body = theme.Body.Render(v.Step.Text)
	case v.Phase == phase.Listening:
		body = s.renderListening()
	case v.Phase == phase.Question:
		body = s.renderQuestion()
	default:
		body = s.renderReveal()
	}
	sections = append(sections, components.Card(lipgloss.NewStyle().Width(cw-8).Render(body), cw))

	if !v.SpeechAvailable {
		sections = append(sections, theme.Hint.Render("Speech is off. Reading mode."))
	}

	return components.StoryFrame(strings.Join(sections, "\n\n"), s.accent, width, height)
}

func (s *SessionScreen) renderListening() string {
	v := s.view
	var b strings.Builder

	instruction := v.Step.AudioInstruction
	if instruction == "" {
		instruction = "Listen carefully to the phrase."
	}
	b.WriteString(theme.Body.Render(instruction))
	b.WriteString("\n\n")

	label := "🎧 " + replayLabel(v.Replays, v.ReplayLimit)
	if v.Speaking {
		label += " · playing"
	}
	b.WriteString(theme.Listening.Render(label))
	b.WriteString("\n")

	// Without speech, or when the last playback failed, the phrase is shown
	// once the learner asks to hear it.
	if (!v.SpeechAvailable || v.PhraseFailed) && v.HasListened {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("“" + v.Step.AudioText + "”"))
		b.WriteString("\n")
	}

	if v.RetryMode || v.Attempts > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Listen once more, then try again."))
		b.WriteString("\n")
	}

	canReplay := v.ReplayLimit == 0 || v.Replays < v.ReplayLimit
	b.WriteString("\n")
	b.WriteString(components.Action("space", "Listen", canReplay))
	b.WriteString("   ")
	b.WriteString(components.Action("enter", "Answer", v.HasListened))
	return b.String()
}

func (s *SessionScreen) renderQuestion() string {
	v := s.view
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(v.Step.Question))
	b.WriteString("\n\n")

	list := components.ChoiceList{
		Choices:  v.Choices,
		Selected: s.cursor,
		Feedback: v.FeedbackVisible,
	}
	if v.FeedbackVisible {
		list.Selected = v.Selected
		// A wrong answer keeps the correct one hidden for the retry.
		if v.LastCorrect {
			list.Correct = v.Step.CorrectText()
		}
	}
	b.WriteString(list.View())

	if !v.FeedbackVisible {
		return b.String()
	}

	b.WriteString("\n")
	if v.LastCorrect {
		b.WriteString(theme.Correct.Render("✓ That's right!"))
		return b.String()
	}

	b.WriteString(theme.Incorrect.Render("✗ Not quite."))
	if v.Step.Hint != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Hint: " + v.Step.Hint))
	}
	if v.RetryMode {
		b.WriteString("\n\n")
		b.WriteString(components.Action("r", "Try again", true))
		b.WriteString("   ")
		b.WriteString(components.Action("s", "Skip", true))
	}
	return b.String()
}

func (s *SessionScreen) renderReveal() string {
	v := s.view
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("“" + v.Step.AudioText + "”"))
	b.WriteString("\n\n")
	if v.Step.RevealText != "" {
		b.WriteString(theme.Body.Render(v.Step.RevealText))
		b.WriteString("\n\n")
	}
	if v.Skipped {
		b.WriteString(theme.Hint.Render("Skipped. No star this time."))
		b.WriteString("\n\n")
	}
	b.WriteString(components.Action("enter", "Continue", true))
	return b.String()
}

func phaseBadge(p phase.Phase, listening bool) string {
	if !listening {
		return ""
	}
	switch p {
	case phase.Listening:
		return theme.Listening.Render("LISTEN")
	case phase.Question:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("ANSWER")
	default:
		return lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("REVEAL")
	}
}

func replayLabel(replays, limit int) string {
	if limit > 0 {
		return fmt.Sprintf("Plays: %d/%d", replays, limit)
	}
	if replays == 1 {
		return "Played once"
	}
	return fmt.Sprintf("Plays: %d", replays)
}

// renderExitConfirm renders the leave-story confirmation dialog.
func renderExitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Leave this story?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your stars so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Warming up the narrator...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
