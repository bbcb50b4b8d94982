package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML story document, validates it against the story schema
// and the semantic rules, and returns the decoded Story.
func Load(r io.Reader) (*Story, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}
	return Parse(raw)
}

// LoadFile loads a story from a YAML file on disk.
func LoadFile(path string) (*Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open story: %w", err)
	}
	defer f.Close()

	st, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// Parse decodes and validates a YAML story document.
func Parse(raw []byte) (*Story, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	// The schema validator works on JSON values, so normalize through JSON.
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("normalize story: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("normalize story: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var st Story
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode story: %w", err)
	}
	if err := Check(&st); err != nil {
		return nil, err
	}
	return &st, nil
}
