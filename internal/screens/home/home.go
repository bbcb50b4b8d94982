package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/listenquest/internal/router"
	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/screen"
	"github.com/abhisek/listenquest/internal/screens/history"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/store"
	"github.com/abhisek/listenquest/internal/ui/components"
	"github.com/abhisek/listenquest/internal/ui/layout"
)

// Deps are the home screen's collaborators.
type Deps struct {
	Stories []*script.Story

	// Repo backs best results and history. Nil hides both.
	Repo store.EventRepo

	// Learner pre-fills the name prompt.
	Learner string

	// Launch builds the playthrough screen for a story.
	Launch func(story *script.Story, learner string) screen.Screen

	SpeechAvailable bool
	SpeechNote      string
}

type bestsLoadedMsg struct {
	Bests []store.StoryBest
	Err   error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps    Deps
	learner string
	editing bool
	input   components.TextInput
	menu    components.Menu
	bests   map[string]store.StoryBest
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. Without a learner name the screen opens on
// the name prompt.
func New(deps Deps) *HomeScreen {
	learner := strings.TrimSpace(deps.Learner)
	h := &HomeScreen{
		deps:    deps,
		learner: learner,
		editing: learner == "",
		input:   components.NewNameInput(learner),
		bests:   make(map[string]store.StoryBest),
	}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.deps.Stories)+2)
	for _, st := range h.deps.Stories {
		items = append(items, components.MenuItem{
			Label:  h.storyLabel(st),
			Detail: h.storyDetail(st),
			Action: h.launch(st),
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "HISTORY",
			Disabled: h.deps.Repo == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(h.deps.Repo, h.learner)}
				}
			},
		},
		components.MenuItem{
			Label:  "EXIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	return items
}

func (h *HomeScreen) storyLabel(st *script.Story) string {
	return iconFor(st) + " " + st.Title
}

func (h *HomeScreen) storyDetail(st *script.Story) string {
	best, ok := h.bests[st.ID]
	if !ok {
		return ""
	}
	return layout.StarString(best.BestStars)
}

func (h *HomeScreen) launch(st *script.Story) func() tea.Cmd {
	return func() tea.Cmd {
		if h.deps.Launch == nil {
			return nil
		}
		next := h.deps.Launch(st, h.learner)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{h.loadBests()}
	if h.editing {
		cmds = append(cmds, h.input.Init())
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) loadBests() tea.Cmd {
	repo, learner := h.deps.Repo, h.learner
	if repo == nil || learner == "" {
		return nil
	}
	return func() tea.Msg {
		bests, err := repo.StoryBests(context.Background(), learner)
		return bestsLoadedMsg{Bests: bests, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bestsLoadedMsg:
		if msg.Err == nil {
			h.bests = make(map[string]store.StoryBest, len(msg.Bests))
			for _, b := range msg.Bests {
				h.bests[b.StoryID] = b
			}
			h.rebuildMenu()
		}
		return h, nil

	case screen.RefreshMsg:
		return h, h.loadBests()

	case tea.KeyPressMsg:
		if h.editing {
			return h.updateName(msg)
		}
		if msg.String() == "tab" {
			h.editing = true
			return h, h.input.Init()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) updateName(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if !h.input.Validate() {
			return h, nil
		}
		h.learner = h.input.Value()
		h.editing = false
		h.bests = make(map[string]store.StoryBest)
		h.rebuildMenu()
		return h, h.loadBests()
	case "esc":
		if h.learner != "" {
			h.editing = false
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

func (h *HomeScreen) rebuildMenu() {
	selected := h.menu.Selected
	h.menu = components.NewMenu(h.menuItems())
	if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

// Learner returns the current learner name.
func (h *HomeScreen) Learner() string {
	return h.learner
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save name"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Play"},
		{Key: "Tab", Description: "Change name"},
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant(), cw))
	}

	if h.editing {
		sections = append(sections, renderNameInput(h.input, cw))
	} else {
		stars := 0
		for _, b := range h.bests {
			stars += b.BestStars
		}
		sections = append(sections,
			renderStatsBar(h.learner, stars, len(h.bests), cw),
			renderMenu(h.menu, cw))
	}

	if h.deps.SpeechNote != "" {
		sections = append(sections, renderSpeechNote(h.deps.SpeechNote, cw))
	}

	content := strings.Join(sections, "\n\n")
	return components.StoryFrame(content, frameAccent, width, height)
}

func (h *HomeScreen) mascotVariant() MascotVariant {
	if !h.deps.SpeechAvailable {
		return MascotSleepy
	}
	for _, b := range h.bests {
		if b.BestStars >= scoring.MaxStars {
			return MascotCelebrating
		}
	}
	return MascotIdle
}
