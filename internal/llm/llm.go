// Package llm turns source text into raw scene JSON through a language model.
//
// Generators return the model's text unchanged. Fence stripping, schema
// validation and decoding belong to the compiler package.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/scenegen/internal/ir"
)

var (
	// ErrEmptyInput is returned when the input text is blank.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrNoContent is returned when the model answers with no text.
	ErrNoContent = errors.New("model returned no content")
)

// Generator produces raw scene JSON for a piece of source text.
type Generator interface {
	Generate(ctx context.Context, input string) (string, error)
	Name() string
}

// UserPrompt wraps source text in the instruction sent with each request.
func UserPrompt(input string) string {
	return "Analyze the following content and create a structured scene description:\n\n" + input
}

// SystemPrompt is the scene-analyst instruction. Type lists are generated
// from the ir enums.
func SystemPrompt() string {
	objects := make([]string, 0, len(ir.AllObjectTypes()))
	for _, t := range ir.AllObjectTypes() {
		objects = append(objects, t.String())
	}
	anims := make([]string, 0, len(ir.AllAnimationTypes()))
	for _, t := range ir.AllAnimationTypes() {
		anims = append(anims, t.String())
	}

	return fmt.Sprintf(`You are a content analyzer specialized in extracting visual and animation elements from text content for mathematical animation.

Analyze the provided content and output one JSON object with this structure:

{
  "settings": {
    "title": "Scene title",
    "description": "Brief description",
    "duration": %g,
    "background_color": {"name": "%s"},
    "camera_position": [0, 0, 0],
    "quality": "%s",
    "resolution": "%s"
  },
  "objects": [
    {
      "id": "unique_id",
      "type": "text",
      "properties": {},
      "position": [0, 0, 0],
      "color": {"name": "BLUE"},
      "text_content": "text if applicable",
      "size": 1.0,
      "opacity": 1.0,
      "layer": 0
    }
  ],
  "animations": [
    {
      "id": "anim_id",
      "type": "write",
      "target_objects": ["unique_id"],
      "duration": 1.0,
      "delay": 0.0,
      "properties": {},
      "easing": "%s"
    }
  ]
}

Available object types: %s
Available animation types: %s

Transform and replace_transform animations must also set "from_object" and "to_object".
Every id in target_objects must name an object. Delays are seconds from scene start.

IMPORTANT: Return ONLY valid JSON following this exact structure. No explanations, no additional text, just the JSON object.`,
		ir.DefaultSceneDuration,
		ir.DefaultBackgroundName,
		ir.QualityMedium,
		ir.Resolution720p,
		ir.DefaultEasing,
		strings.Join(objects, ", "),
		strings.Join(anims, ", "),
	)
}

func checkInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	return nil
}
