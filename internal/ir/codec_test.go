package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullScene() *SceneStructure {
	return &SceneStructure{
		Settings: SceneSettings{
			Title:           "Pythagoras",
			Description:     "a^2 + b^2 = c^2",
			Duration:        12.5,
			BackgroundColor: Color{Name: Ptr("BLACK"), Hex: Ptr("101010"), RGB: []float64{0.1, 0.1, 0.1}},
			CameraPosition:  Position{X: 0, Y: 0, Z: 8},
			Quality:         QualityHigh,
			Resolution:      Resolution1080p,
		},
		Objects: []SceneObject{
			{
				ID:   "title",
				Type: ObjectText,
				Properties: Properties{
					"font_size": PropNumber(48),
					"weight":    PropString("BOLD"),
					"italic":    PropBool(false),
					"range":     PropVector{-1, 1},
				},
				Position:    Position{X: 0, Y: 3, Z: 0},
				Color:       &Color{Hex: Ptr("FFCC00")},
				TextContent: Ptr("Pythagoras"),
				Size:        Ptr(1.5),
				Opacity:     0.8,
				Layer:       2,
			},
			{
				ID:      "tri",
				Type:    ObjectPolygon,
				Color:   &Color{RGB: []float64{1, 0, 0}},
				Opacity: 1,
			},
		},
		Animations: []AnimationStep{
			{
				ID:             "a1",
				Type:           AnimWrite,
				TargetObjects:  []string{"title"},
				Duration:       2,
				Delay:          0.5,
				Properties:     Properties{"run_time_scale": PropNumber(1.25)},
				Easing:         "linear",
				TargetPosition: &Position{X: 1, Y: 2, Z: 3},
				Offset:         &Position{X: -1},
			},
			{
				ID:            "a2",
				Type:          AnimTransform,
				TargetObjects: []string{"title", "tri"},
				Duration:      1,
				Delay:         3,
				Easing:        "smooth",
				FromObject:    Ptr("title"),
				ToObject:      Ptr("tri"),
			},
		},
	}
}

func TestRoundTripFullyPopulated(t *testing.T) {
	scene := fullScene()

	data, err := Encode(scene)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, scene, decoded)
}

func TestRoundTripEmptyOptionals(t *testing.T) {
	scene := &SceneStructure{
		Objects: []SceneObject{
			{ID: "o1", Type: ObjectCircle},
		},
		Animations: []AnimationStep{
			{ID: "a1", Type: AnimCreate, TargetObjects: []string{"o1"}},
		},
	}

	data, err := Encode(scene)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, scene, decoded)
	assert.Nil(t, decoded.Objects[0].Color)
	assert.Nil(t, decoded.Objects[0].TextContent)
	assert.Nil(t, decoded.Animations[0].FromObject)
	assert.Nil(t, decoded.Animations[0].TargetPosition)
}

func TestRoundTripEmptyScene(t *testing.T) {
	scene := NewScene()

	data, err := EncodeIndent(scene)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, scene, decoded)
}

func TestEncodeEmitsNullsAndTags(t *testing.T) {
	scene := &SceneStructure{
		Settings: SceneSettings{Quality: QualityLow, Resolution: Resolution4K},
		Objects:  []SceneObject{{ID: "o1", Type: ObjectMathText}},
	}

	data, err := Encode(scene)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"quality":"low_quality"`)
	assert.Contains(t, s, `"resolution":"4k"`)
	assert.Contains(t, s, `"type":"mathtext"`)
	assert.Contains(t, s, `"color":null`)
	assert.Contains(t, s, `"text_content":null`)
	assert.Contains(t, s, `"properties":{}`)
	assert.Contains(t, s, `"animations":[]`)
}

func TestDecodeDefaults(t *testing.T) {
	data := []byte(`{
		"objects": [{"id": "c1", "type": "circle"}],
		"animations": [{"id": "a1", "type": "create", "target_objects": ["c1"]}]
	}`)

	scene, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, DefaultSceneDuration, scene.Settings.Duration)
	assert.Equal(t, QualityMedium, scene.Settings.Quality)
	assert.Equal(t, Resolution720p, scene.Settings.Resolution)
	assert.True(t, scene.Settings.BackgroundColor.IsZero())
	assert.Equal(t, Position{}, scene.Settings.CameraPosition)

	obj := scene.Objects[0]
	assert.Equal(t, DefaultOpacity, obj.Opacity)
	assert.Equal(t, 0, obj.Layer)
	assert.Nil(t, obj.Properties)

	anim := scene.Animations[0]
	assert.Equal(t, DefaultAnimationDuration, anim.Duration)
	assert.Equal(t, 0.0, anim.Delay)
	assert.Equal(t, DefaultEasing, anim.Easing)
}

func TestDecodeKeepsUnknownPropertyKeys(t *testing.T) {
	data := []byte(`{"objects":[{"id":"o","type":"axes","properties":{"x_range":[-5,5,1],"tips":false,"label":"t","vendor_hint":3}}]}`)

	scene, err := Decode(data)
	require.NoError(t, err)

	props := scene.Objects[0].Properties
	assert.Equal(t, PropVector{-5, 5, 1}, props["x_range"])
	assert.Equal(t, PropBool(false), props["tips"])
	assert.Equal(t, PropString("t"), props["label"])
	assert.Equal(t, PropNumber(3), props["vendor_hint"])
}

func TestDecodeMissingObjectID(t *testing.T) {
	data := []byte(`{"settings":{"duration":5},"objects":[{"type":"circle"}],"animations":[]}`)

	scene, err := Decode(data)
	require.Error(t, err)
	assert.Nil(t, scene, "no partial scene on failure")

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "objects[0].id", se.Path)
	assert.Contains(t, se.Fragment, `"type":"circle"`)
	assert.Contains(t, err.Error(), "objects[0].id")
}

func TestDecodeSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		path string
	}{
		{"not an object", `[1,2,3]`, ""},
		{"truncated", `{"objects": [`, ""},
		{"missing object type", `{"objects":[{"id":"a"}]}`, "objects[0].type"},
		{"unknown object type", `{"objects":[{"id":"a","type":"sphere"}]}`, "objects[0].type"},
		{"opacity above one", `{"objects":[{"id":"a","type":"circle","opacity":1.5}]}`, "objects[0].opacity"},
		{"opacity below zero", `{"objects":[{"id":"a","type":"circle","opacity":-0.1}]}`, "objects[0].opacity"},
		{"short position", `{"objects":[{"id":"a","type":"circle","position":[1,2]}]}`, "objects[0].position"},
		{"fractional layer", `{"objects":[{"id":"a","type":"circle","layer":1.5}]}`, "objects[0].layer"},
		{"short rgb", `{"objects":[{"id":"a","type":"circle","color":{"rgb":[1,0]}}]}`, "objects[0].color.rgb"},
		{"null property", `{"objects":[{"id":"a","type":"circle","properties":{"k":null}}]}`, "objects[0].properties"},
		{"nested property", `{"objects":[{"id":"a","type":"circle","properties":{"k":{"x":1}}}]}`, "objects[0].properties"},
		{"missing animation id", `{"animations":[{"type":"create","target_objects":["a"]}]}`, "animations[0].id"},
		{"missing targets", `{"animations":[{"id":"x","type":"create"}]}`, "animations[0].target_objects"},
		{"empty targets", `{"animations":[{"id":"x","type":"create","target_objects":[]}]}`, "animations[0].target_objects"},
		{"unknown animation type", `{"animations":[{"id":"x","type":"explode","target_objects":["a"]}]}`, "animations[0].type"},
		{"negative delay", `{"animations":[{"id":"x","type":"create","target_objects":["a"],"delay":-1}]}`, "animations[0].delay"},
		{"negative duration", `{"animations":[{"id":"x","type":"create","target_objects":["a"],"duration":-2}]}`, "animations[0].duration"},
		{"long offset", `{"animations":[{"id":"x","type":"shift","target_objects":["a"],"offset":[1,2,3,4]}]}`, "animations[0].offset"},
		{"short target position", `{"animations":[{"id":"x","type":"move_to","target_objects":["a"],"target_position":[1]}]}`, "animations[0].target_position"},
		{"unknown quality", `{"settings":{"quality":"ultra"}}`, "settings.quality"},
		{"unknown resolution", `{"settings":{"resolution":"8k"}}`, "settings.resolution"},
		{"negative scene duration", `{"settings":{"duration":-1}}`, "settings.duration"},
		{"short camera", `{"settings":{"camera_position":[0]}}`, "settings.camera_position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := Decode([]byte(tt.json))
			require.Error(t, err)
			assert.Nil(t, scene)

			var se *SchemaError
			require.True(t, errors.As(err, &se), "expected *SchemaError, got %T", err)
			assert.Equal(t, tt.path, se.Path)
			assert.True(t, IsSchemaError(err))
		})
	}
}

func TestSchemaErrorWrapsCause(t *testing.T) {
	_, err := Decode([]byte(`{"settings": {"duration": "long"}}`))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "settings", se.Path)
	assert.NotNil(t, errors.Unwrap(err), "parse error must be preserved")
}

func TestFragmentTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	frag := Fragment(long)
	assert.Len(t, frag, maxFragment+3)
	assert.Equal(t, "...", frag[len(frag)-3:])
	assert.Equal(t, "{}", Fragment([]byte("  {}  ")))
}

func TestDecodeAcceptsWholeFloatLayer(t *testing.T) {
	scene, err := Decode([]byte(`{"objects":[{"id":"a","type":"circle","layer":1.0},{"id":"b","type":"circle","layer":-2}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, scene.Objects[0].Layer)
	assert.Equal(t, -2, scene.Objects[1].Layer)
}
