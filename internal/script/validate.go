package script

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the story format major version this build reads.
const SupportedMajor = "v1"

// MaxAwardSteps bounds the number of star-granting steps in a story.
const MaxAwardSteps = 3

const schemaURL = "schema://listenquest/story.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidationError collects every problem found in a story file.
type ValidationError struct {
	Story    string
	Problems []string
}

func (e *ValidationError) Error() string {
	name := e.Story
	if name == "" {
		name = "story"
	}
	return fmt.Sprintf("invalid %s: %s", name, strings.Join(e.Problems, "; "))
}

// validateDocument checks a decoded JSON value against the story schema.
func validateDocument(doc any) error {
	sch, err := storySchemaCompiled()
	if err != nil {
		return fmt.Errorf("compile story schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	return nil
}

func storySchemaCompiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain JSON value, so round-trip the Go map.
		raw, err := json.Marshal(storySchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Check runs the semantic rules the schema cannot express.
func Check(st *Story) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !semver.IsValid(st.Version) {
		add("version %q is not valid semver", st.Version)
	} else if semver.Major(st.Version) != SupportedMajor {
		add("version %s is not supported (want %s.x.y)", st.Version, SupportedMajor)
	}

	seen := make(map[string]bool, len(st.Steps))
	for i := range st.Steps {
		step := &st.Steps[i]
		if seen[step.ID] {
			add("step %q: duplicate id", step.ID)
		}
		seen[step.ID] = true

		if !step.ListeningFirst {
			if step.Text == "" {
				add("step %q: passive step needs text", step.ID)
			}
			continue
		}
		if step.AudioText == "" {
			add("step %q: listening step needs audioText", step.ID)
		}
		if step.Question == "" {
			add("step %q: listening step needs a question", step.ID)
		}
		if len(step.Choices) < 2 {
			add("step %q: needs at least two choices", step.ID)
		}
		correct := 0
		want := step.CorrectText()
		for _, c := range step.Choices {
			if c.Text == want {
				correct++
			}
		}
		if correct != 1 {
			add("step %q: expected exactly one correct choice, found %d", step.ID, correct)
		}
	}

	if len(st.AwardSteps) > MaxAwardSteps {
		add("at most %d award steps allowed, got %d", MaxAwardSteps, len(st.AwardSteps))
	}
	for _, id := range st.AwardSteps {
		idx := st.Script().Index(id)
		if idx < 0 {
			add("award step %q does not exist", id)
			continue
		}
		if !st.Steps[idx].ListeningFirst {
			add("award step %q is not interactive", id)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Story: st.ID, Problems: problems}
	}
	return nil
}
