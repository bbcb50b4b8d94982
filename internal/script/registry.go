package script

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
)

//go:embed stories/*.yaml
var builtinFS embed.FS

// Registry resolves stories by id.
type Registry struct {
	stories map[string]*Story
	order   []string
}

// NewRegistry builds a registry from already-loaded stories.
func NewRegistry(stories ...*Story) (*Registry, error) {
	r := &Registry{stories: make(map[string]*Story, len(stories))}
	for _, st := range stories {
		if err := r.Add(st); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a story. Ids must be unique.
func (r *Registry) Add(st *Story) error {
	if _, ok := r.stories[st.ID]; ok {
		return fmt.Errorf("story %q already registered", st.ID)
	}
	r.stories[st.ID] = st
	r.order = append(r.order, st.ID)
	sort.Strings(r.order)
	return nil
}

// Get returns the story with the given id.
func (r *Registry) Get(id string) (*Story, bool) {
	st, ok := r.stories[id]
	return st, ok
}

// List returns all stories ordered by id.
func (r *Registry) List() []*Story {
	out := make([]*Story, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.stories[id])
	}
	return out
}

var (
	builtinOnce sync.Once
	builtin     *Registry
	builtinErr  error
)

// Builtin returns the registry of the stories shipped with the binary.
func Builtin() (*Registry, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = loadFS(builtinFS, "stories")
	})
	return builtin, builtinErr
}

func loadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read stories: %w", err)
	}
	reg := &Registry{stories: make(map[string]*Story)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		st, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if err := reg.Add(st); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
