package tutorial

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema is sent with each generation request and checked against
// the reply, since the model does not always honor it.
const responseSchema = `{
  "type": "object",
  "properties": {
    "title":         {"type": "string", "minLength": 1},
    "tutorial":      {"type": "string"},
    "task":          {"type": "string", "minLength": 1},
    "correctAnswer": {"type": "string", "minLength": 1},
    "explanation":   {"type": "string"}
  },
  "required": ["title", "tutorial", "task", "correctAnswer", "explanation"]
}`

var puzzleSchema = jsonschema.MustCompileString("puzzle.schema.json", responseSchema)

// generationSchema is the subset of the response schema the generation API
// understands.
var generationSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"title":         map[string]any{"type": "STRING"},
		"tutorial":      map[string]any{"type": "STRING"},
		"task":          map[string]any{"type": "STRING"},
		"correctAnswer": map[string]any{"type": "STRING"},
		"explanation":   map[string]any{"type": "STRING"},
	},
	"required": []string{"title", "tutorial", "task", "correctAnswer", "explanation"},
}

// decodePuzzle validates raw model output and decodes it into a Puzzle.
func decodePuzzle(raw []byte) (*Puzzle, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPuzzle, err)
	}
	if err := puzzleSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPuzzle, err)
	}

	var p Puzzle
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPuzzle, err)
	}
	return &p, nil
}
