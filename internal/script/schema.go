package script

// storySchema is the JSON Schema every story file must satisfy before it
// is decoded into a Story.
var storySchema = map[string]any{
	"$schema":  "https://json-schema.org/draft/2020-12/schema",
	"type":     "object",
	"required": []any{"version", "id", "title", "voice", "steps"},
	"properties": map[string]any{
		"version":            map[string]any{"type": "string", "pattern": `^v\d+\.\d+\.\d+$`},
		"id":                 map[string]any{"type": "string", "pattern": `^[a-z0-9][a-z0-9-]*$`},
		"title":              map[string]any{"type": "string", "minLength": 1},
		"theme":              map[string]any{"type": "string"},
		"voice":              map[string]any{"type": "string", "minLength": 1},
		"autoAdvanceOnAward": map[string]any{"type": "boolean"},
		"awardSteps": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"maxItems":    3,
			"uniqueItems": true,
		},
		"steps": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    stepSchema,
		},
	},
	"additionalProperties": false,
}

var stepSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "title"},
	"properties": map[string]any{
		"id":               map[string]any{"type": "string", "minLength": 1},
		"title":            map[string]any{"type": "string", "minLength": 1},
		"emoji":            map[string]any{"type": "string"},
		"text":             map[string]any{"type": "string"},
		"interactive":      map[string]any{"type": "boolean"},
		"listeningFirst":   map[string]any{"type": "boolean"},
		"trueFalse":        map[string]any{"type": "boolean"},
		"audioText":        map[string]any{"type": "string"},
		"audioInstruction": map[string]any{"type": "string"},
		"question":         map[string]any{"type": "string"},
		"hint":             map[string]any{"type": "string"},
		"revealText":       map[string]any{"type": "string"},
		"maxReplays":       map[string]any{"type": "integer", "minimum": 1},
		"wordCount":        map[string]any{"type": "integer", "minimum": 0},
		"durationSecs":     map[string]any{"type": "integer", "minimum": 0},
		"choices": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"text"},
				"properties": map[string]any{
					"text":    map[string]any{"type": "string", "minLength": 1},
					"meaning": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}
