package phase

import "github.com/abhisek/listenquest/internal/script"

// ReplayPolicy decides whether a step's MaxReplays is enforced. The zero
// value allows unlimited replays and only counts them.
type ReplayPolicy struct {
	Enforce bool
}

// Allows reports whether another replay may start after used replays.
func (p ReplayPolicy) Allows(step *script.Step, used int) bool {
	return !p.Enforce || used < step.ReplayLimit()
}

// Machine holds the per-story settings of the transition function.
type Machine struct {
	Shuffler *Shuffler
	Replays  ReplayPolicy

	// AutoAdvanceOnAward schedules an advance out of Reveal when the answer
	// at the step granted a star.
	AutoAdvanceOnAward bool
}

// Apply runs one transition. It reports false, leaving rt untouched, when
// the event is not valid in the current state; such events come from the
// host racing ahead of state and are not errors.
func (m *Machine) Apply(rt *Runtime, step *script.Step, ev Event) ([]Effect, bool) {
	if step == nil {
		return nil, false
	}

	switch ev := ev.(type) {
	case EnterStep:
		rt.reset()
		effects := []Effect{StopNarration{}}
		if step.IsListening() {
			rt.Phase = Listening
			if step.AudioInstruction != "" {
				effects = append(effects, m.narrate(rt, NarrateInstruction, step.AudioInstruction, true))
			}
		} else {
			rt.Phase = Reveal
			if step.Text != "" {
				effects = append(effects, m.narrate(rt, NarratePassive, step.Text, true))
			}
		}
		return effects, true

	case Replay:
		if rt.Phase != Listening || !m.Replays.Allows(step, rt.Replays) {
			return nil, false
		}
		rt.Replays++
		return []Effect{m.narrate(rt, NarratePhrase, step.AudioText, false)}, true

	case ListenDone:
		if rt.Phase != Listening || ev.Epoch != rt.Epoch {
			return nil, false
		}
		rt.HasListened = true
		rt.PhraseFailed = ev.Failed
		return nil, true

	case ProceedToQuestion:
		if rt.Phase != Listening || !rt.HasListened {
			return nil, false
		}
		rt.Phase = Question
		rt.QuestionStartedAt = ev.At
		rt.Order = m.shuffler().Order(len(step.Choices))
		rt.Selected = NoSelection
		rt.FeedbackVisible = false
		rt.LastCorrect = false
		rt.bump()
		return []Effect{StopNarration{}}, true

	case Submit:
		if rt.Phase != Question || rt.RetryMode || rt.LastCorrect {
			return nil, false
		}
		if ev.Choice < 0 || ev.Choice >= len(step.Choices) {
			return nil, false
		}
		rt.Attempts++
		rt.Selected = ev.Choice
		rt.FeedbackVisible = true
		rt.LastCorrect = ev.Correct

		latency := ev.At.Sub(rt.QuestionStartedAt)
		if rt.QuestionStartedAt.IsZero() || latency < 0 {
			latency = 0
		}
		effects := []Effect{RecordAttempt{
			StepID:   step.ID,
			Question: step.Question,
			Correct:  ev.Correct,
			Attempt:  rt.Attempts,
			Replays:  rt.Replays,
			Latency:  latency,
		}}
		if ev.Correct {
			effects = append(effects, ScheduleReveal{Delay: RevealDelay, Epoch: rt.bump()})
		} else {
			rt.RetryMode = true
		}
		return effects, true

	case StarGranted:
		if rt.Phase != Question || !rt.LastCorrect {
			return nil, false
		}
		rt.AwardedStar = true
		return nil, true

	case RevealDue:
		if rt.Phase != Question || !rt.LastCorrect || ev.Epoch != rt.Epoch {
			return nil, false
		}
		rt.Phase = Reveal
		rt.bump()
		return m.enterReveal(rt, step, rt.AwardedStar && m.AutoAdvanceOnAward), true

	case Retry:
		if rt.Phase != Question || !rt.RetryMode {
			return nil, false
		}
		rt.Phase = Listening
		rt.Replays = 0
		rt.HasListened = false
		rt.RetryMode = false
		rt.FeedbackVisible = false
		rt.LastCorrect = false
		rt.Selected = NoSelection
		rt.Order = nil
		rt.bump()
		effects := []Effect{StopNarration{}}
		if step.AudioInstruction != "" {
			effects = append(effects, m.narrate(rt, NarrateInstruction, step.AudioInstruction, true))
		}
		return effects, true

	case Skip:
		if rt.Phase != Question || !rt.RetryMode {
			return nil, false
		}
		rt.Phase = Reveal
		rt.RetryMode = false
		rt.FeedbackVisible = false
		rt.Skipped = true
		rt.bump()
		return m.enterReveal(rt, step, false), true

	case Continue:
		if rt.Phase != Reveal {
			return nil, false
		}
		return []Effect{NextStep{}}, true

	case AdvanceDue:
		if rt.Phase != Reveal || ev.Epoch != rt.Epoch {
			return nil, false
		}
		return []Effect{NextStep{}}, true
	}
	return nil, false
}

// Restart returns the narration to replay after a speed change: whatever
// was last narrated in the current epoch.
func (m *Machine) Restart(rt *Runtime) (Narrate, bool) {
	n := rt.LastNarration
	if n.Text == "" || n.Epoch != rt.Epoch {
		return Narrate{}, false
	}
	n.Autoplay = false
	return n, true
}

func (m *Machine) enterReveal(rt *Runtime, step *script.Step, autoAdvance bool) []Effect {
	if step.RevealText == "" {
		return []Effect{StopNarration{}}
	}
	effects := []Effect{m.narrate(rt, NarrateReveal, step.RevealText, true)}
	if autoAdvance {
		effects = append(effects, ScheduleAdvance{Text: step.RevealText, Epoch: rt.Epoch})
	}
	return effects
}

func (m *Machine) narrate(rt *Runtime, kind NarrationKind, text string, autoplay bool) Narrate {
	n := Narrate{Kind: kind, Text: text, Autoplay: autoplay, Epoch: rt.Epoch}
	rt.LastNarration = n
	return n
}

func (m *Machine) shuffler() *Shuffler {
	if m.Shuffler == nil {
		m.Shuffler = NewShuffler(nil)
	}
	return m.Shuffler
}
