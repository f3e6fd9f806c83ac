package ir

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// maxFragment bounds the input excerpt carried by a SchemaError.
const maxFragment = 160

// SchemaError reports a decode-time violation of the scene schema: a
// missing required field, an enumeration value outside its set, a numeric
// invariant violation, or a malformed coordinate array.
type SchemaError struct {
	Path     string // Field locator, e.g. "objects[2].id"
	Message  string // Human-readable description
	Fragment string // Offending input excerpt, if available
	Err      error  // Underlying parse error, if any
}

func (e *SchemaError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "schema error: " + msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Fragment returns data trimmed and truncated for inclusion in error messages.
func Fragment(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) <= maxFragment {
		return string(data)
	}
	return string(data[:maxFragment]) + "..."
}

type wireScene struct {
	Settings   json.RawMessage   `json:"settings"`
	Objects    []json.RawMessage `json:"objects"`
	Animations []json.RawMessage `json:"animations"`
}

type wireColor struct {
	Name *string   `json:"name"`
	Hex  *string   `json:"hex"`
	RGB  []float64 `json:"rgb"`
}

type wireSettings struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Duration        *float64   `json:"duration"`
	BackgroundColor *wireColor `json:"background_color"`
	CameraPosition  []float64  `json:"camera_position"`
	Quality         *string    `json:"quality"`
	Resolution      *string    `json:"resolution"`
}

type wireObject struct {
	ID          *string         `json:"id"`
	Type        *string         `json:"type"`
	Properties  json.RawMessage `json:"properties"`
	Position    []float64       `json:"position"`
	Color       *wireColor      `json:"color"`
	TextContent *string         `json:"text_content"`
	Size        *float64        `json:"size"`
	Opacity     *float64        `json:"opacity"`
	Layer       *float64        `json:"layer"`
}

type wireAnimation struct {
	ID             *string         `json:"id"`
	Type           *string         `json:"type"`
	TargetObjects  *[]string       `json:"target_objects"`
	Duration       *float64        `json:"duration"`
	Delay          *float64        `json:"delay"`
	Properties     json.RawMessage `json:"properties"`
	Easing         *string         `json:"easing"`
	FromObject     *string         `json:"from_object"`
	ToObject       *string         `json:"to_object"`
	TargetPosition []float64       `json:"target_position"`
	Offset         []float64       `json:"offset"`
}

// Decode parses scene JSON and validates it against the scene schema.
// On failure it returns a *SchemaError and no partial scene.
func Decode(data []byte) (*SceneStructure, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &SchemaError{Message: "scene must be a JSON object", Fragment: Fragment(data)}
	}

	var w wireScene
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, &SchemaError{Message: "invalid scene JSON", Fragment: Fragment(data), Err: err}
	}

	scene := &SceneStructure{}

	settings, err := decodeSettings(w.Settings)
	if err != nil {
		return nil, err
	}
	scene.Settings = settings

	for i, raw := range w.Objects {
		obj, err := decodeObject(fmt.Sprintf("objects[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		scene.Objects = append(scene.Objects, obj)
	}

	for i, raw := range w.Animations {
		anim, err := decodeAnimation(fmt.Sprintf("animations[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		scene.Animations = append(scene.Animations, anim)
	}

	return scene, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func decodeSettings(raw json.RawMessage) (SceneSettings, error) {
	s := SceneSettings{
		Duration:   DefaultSceneDuration,
		Quality:    QualityMedium,
		Resolution: Resolution720p,
	}
	if isNull(raw) {
		return s, nil
	}

	var w wireSettings
	if err := json.Unmarshal(raw, &w); err != nil {
		return s, &SchemaError{Path: "settings", Message: "invalid settings", Fragment: Fragment(raw), Err: err}
	}

	if w.Title != nil {
		s.Title = *w.Title
	}
	if w.Description != nil {
		s.Description = *w.Description
	}
	if w.Duration != nil {
		if err := checkNonNegative("settings.duration", *w.Duration); err != nil {
			return s, err
		}
		s.Duration = *w.Duration
	}
	if w.BackgroundColor != nil {
		c, err := decodeColor("settings.background_color", w.BackgroundColor)
		if err != nil {
			return s, err
		}
		s.BackgroundColor = c
	}
	if w.CameraPosition != nil {
		p, err := decodePosition("settings.camera_position", w.CameraPosition)
		if err != nil {
			return s, err
		}
		s.CameraPosition = p
	}
	if w.Quality != nil {
		q := Quality(*w.Quality)
		if !q.Valid() {
			return s, &SchemaError{Path: "settings.quality", Message: fmt.Sprintf("unknown quality %q", *w.Quality)}
		}
		s.Quality = q
	}
	if w.Resolution != nil {
		r := Resolution(*w.Resolution)
		if !r.Valid() {
			return s, &SchemaError{Path: "settings.resolution", Message: fmt.Sprintf("unknown resolution %q", *w.Resolution)}
		}
		s.Resolution = r
	}

	return s, nil
}

func decodeObject(path string, raw json.RawMessage) (SceneObject, error) {
	var w wireObject
	if err := json.Unmarshal(raw, &w); err != nil {
		return SceneObject{}, &SchemaError{Path: path, Message: "invalid object", Fragment: Fragment(raw), Err: err}
	}

	if w.ID == nil {
		return SceneObject{}, missing(path+".id", raw)
	}
	if w.Type == nil {
		return SceneObject{}, missing(path+".type", raw)
	}
	typ := ObjectType(*w.Type)
	if !typ.Valid() {
		return SceneObject{}, &SchemaError{Path: path + ".type", Message: fmt.Sprintf("unknown object type %q", *w.Type), Fragment: Fragment(raw)}
	}

	obj := SceneObject{
		ID:          *w.ID,
		Type:        typ,
		TextContent: w.TextContent,
		Size:        w.Size,
		Opacity:     DefaultOpacity,
	}

	props, err := decodeProperties(path+".properties", w.Properties)
	if err != nil {
		return SceneObject{}, err
	}
	obj.Properties = props

	if w.Position != nil {
		p, err := decodePosition(path+".position", w.Position)
		if err != nil {
			return SceneObject{}, err
		}
		obj.Position = p
	}
	if w.Color != nil {
		c, err := decodeColor(path+".color", w.Color)
		if err != nil {
			return SceneObject{}, err
		}
		obj.Color = &c
	}
	if w.Opacity != nil {
		if *w.Opacity < 0 || *w.Opacity > 1 {
			return SceneObject{}, &SchemaError{Path: path + ".opacity", Message: fmt.Sprintf("opacity %v outside [0, 1]", *w.Opacity)}
		}
		obj.Opacity = *w.Opacity
	}
	if w.Layer != nil {
		l := *w.Layer
		if l != math.Trunc(l) || math.Abs(l) > math.MaxInt32 {
			return SceneObject{}, &SchemaError{Path: path + ".layer", Message: fmt.Sprintf("layer %v is not a whole number", l), Fragment: Fragment(raw)}
		}
		obj.Layer = int(l)
	}

	return obj, nil
}

func decodeAnimation(path string, raw json.RawMessage) (AnimationStep, error) {
	var w wireAnimation
	if err := json.Unmarshal(raw, &w); err != nil {
		return AnimationStep{}, &SchemaError{Path: path, Message: "invalid animation", Fragment: Fragment(raw), Err: err}
	}

	if w.ID == nil {
		return AnimationStep{}, missing(path+".id", raw)
	}
	if w.Type == nil {
		return AnimationStep{}, missing(path+".type", raw)
	}
	if w.TargetObjects == nil || *w.TargetObjects == nil {
		return AnimationStep{}, missing(path+".target_objects", raw)
	}
	if len(*w.TargetObjects) == 0 {
		return AnimationStep{}, &SchemaError{Path: path + ".target_objects", Message: "must name at least one object", Fragment: Fragment(raw)}
	}
	typ := AnimationType(*w.Type)
	if !typ.Valid() {
		return AnimationStep{}, &SchemaError{Path: path + ".type", Message: fmt.Sprintf("unknown animation type %q", *w.Type), Fragment: Fragment(raw)}
	}

	anim := AnimationStep{
		ID:            *w.ID,
		Type:          typ,
		TargetObjects: *w.TargetObjects,
		Duration:      DefaultAnimationDuration,
		Easing:        DefaultEasing,
		FromObject:    w.FromObject,
		ToObject:      w.ToObject,
	}

	if w.Duration != nil {
		if err := checkNonNegative(path+".duration", *w.Duration); err != nil {
			return AnimationStep{}, err
		}
		anim.Duration = *w.Duration
	}
	if w.Delay != nil {
		if err := checkNonNegative(path+".delay", *w.Delay); err != nil {
			return AnimationStep{}, err
		}
		anim.Delay = *w.Delay
	}
	if w.Easing != nil {
		anim.Easing = *w.Easing
	}

	props, err := decodeProperties(path+".properties", w.Properties)
	if err != nil {
		return AnimationStep{}, err
	}
	anim.Properties = props

	if w.TargetPosition != nil {
		p, err := decodePosition(path+".target_position", w.TargetPosition)
		if err != nil {
			return AnimationStep{}, err
		}
		anim.TargetPosition = &p
	}
	if w.Offset != nil {
		p, err := decodePosition(path+".offset", w.Offset)
		if err != nil {
			return AnimationStep{}, err
		}
		anim.Offset = &p
	}

	return anim, nil
}

func decodeProperties(path string, raw json.RawMessage) (Properties, error) {
	if isNull(raw) {
		return nil, nil
	}
	var props Properties
	if err := props.UnmarshalJSON(raw); err != nil {
		return nil, &SchemaError{Path: path, Message: "invalid property bag", Fragment: Fragment(raw), Err: err}
	}
	return props, nil
}

func decodeColor(path string, w *wireColor) (Color, error) {
	if w.RGB != nil && len(w.RGB) != 3 {
		return Color{}, &SchemaError{Path: path + ".rgb", Message: fmt.Sprintf("expected 3 components, got %d", len(w.RGB))}
	}
	return Color{Name: w.Name, Hex: w.Hex, RGB: w.RGB}, nil
}

func decodePosition(path string, v []float64) (Position, error) {
	if len(v) != 3 {
		return Position{}, &SchemaError{Path: path, Message: fmt.Sprintf("expected 3 coordinates, got %d", len(v))}
	}
	return Position{X: v[0], Y: v[1], Z: v[2]}, nil
}

func checkNonNegative(path string, v float64) error {
	if v < 0 || math.IsNaN(v) {
		return &SchemaError{Path: path, Message: fmt.Sprintf("must be >= 0, got %v", v)}
	}
	return nil
}

func missing(path string, raw json.RawMessage) error {
	return &SchemaError{Path: path, Message: "required field missing", Fragment: Fragment(raw)}
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

type encColor struct {
	Name *string   `json:"name"`
	Hex  *string   `json:"hex"`
	RGB  []float64 `json:"rgb"`
}

type encSettings struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Duration        float64    `json:"duration"`
	BackgroundColor encColor   `json:"background_color"`
	CameraPosition  []float64  `json:"camera_position"`
	Quality         Quality    `json:"quality"`
	Resolution      Resolution `json:"resolution"`
}

type encObject struct {
	ID          string          `json:"id"`
	Type        ObjectType      `json:"type"`
	Properties  json.RawMessage `json:"properties"`
	Position    []float64       `json:"position"`
	Color       *encColor       `json:"color"`
	TextContent *string         `json:"text_content"`
	Size        *float64        `json:"size"`
	Opacity     float64         `json:"opacity"`
	Layer       int             `json:"layer"`
}

type encAnimation struct {
	ID             string          `json:"id"`
	Type           AnimationType   `json:"type"`
	TargetObjects  []string        `json:"target_objects"`
	Duration       float64         `json:"duration"`
	Delay          float64         `json:"delay"`
	Properties     json.RawMessage `json:"properties"`
	Easing         string          `json:"easing"`
	FromObject     *string         `json:"from_object"`
	ToObject       *string         `json:"to_object"`
	TargetPosition []float64       `json:"target_position"`
	Offset         []float64       `json:"offset"`
}

type encScene struct {
	Settings   encSettings    `json:"settings"`
	Objects    []encObject    `json:"objects"`
	Animations []encAnimation `json:"animations"`
}

// Encode serializes a scene to JSON. Unset optional fields are emitted as
// null and enumerations by their tag.
func Encode(s *SceneStructure) ([]byte, error) {
	w, err := toWire(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// EncodeIndent is Encode with indentation, for files meant to be read.
func EncodeIndent(s *SceneStructure) ([]byte, error) {
	w, err := toWire(s)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(w, "", "  ")
}

func toWire(s *SceneStructure) (encScene, error) {
	out := encScene{
		Settings: encSettings{
			Title:           s.Settings.Title,
			Description:     s.Settings.Description,
			Duration:        s.Settings.Duration,
			BackgroundColor: encColor(s.Settings.BackgroundColor),
			CameraPosition:  s.Settings.CameraPosition.Slice(),
			Quality:         s.Settings.Quality,
			Resolution:      s.Settings.Resolution,
		},
		Objects:    make([]encObject, 0, len(s.Objects)),
		Animations: make([]encAnimation, 0, len(s.Animations)),
	}

	for i, obj := range s.Objects {
		eo, err := objectToWire(obj)
		if err != nil {
			return out, fmt.Errorf("encode objects[%d]: %w", i, err)
		}
		out.Objects = append(out.Objects, eo)
	}

	for i, anim := range s.Animations {
		ea, err := animationToWire(anim)
		if err != nil {
			return out, fmt.Errorf("encode animations[%d]: %w", i, err)
		}
		out.Animations = append(out.Animations, ea)
	}

	return out, nil
}

func objectToWire(obj SceneObject) (encObject, error) {
	props, err := obj.Properties.MarshalJSON()
	if err != nil {
		return encObject{}, fmt.Errorf("properties: %w", err)
	}
	eo := encObject{
		ID:          obj.ID,
		Type:        obj.Type,
		Properties:  props,
		Position:    obj.Position.Slice(),
		TextContent: obj.TextContent,
		Size:        obj.Size,
		Opacity:     obj.Opacity,
		Layer:       obj.Layer,
	}
	if obj.Color != nil {
		c := encColor(*obj.Color)
		eo.Color = &c
	}
	return eo, nil
}

func animationToWire(anim AnimationStep) (encAnimation, error) {
	props, err := anim.Properties.MarshalJSON()
	if err != nil {
		return encAnimation{}, fmt.Errorf("properties: %w", err)
	}
	targets := anim.TargetObjects
	if targets == nil {
		targets = []string{}
	}
	ea := encAnimation{
		ID:            anim.ID,
		Type:          anim.Type,
		TargetObjects: targets,
		Duration:      anim.Duration,
		Delay:         anim.Delay,
		Properties:    props,
		Easing:        anim.Easing,
		FromObject:    anim.FromObject,
		ToObject:      anim.ToObject,
	}
	if anim.TargetPosition != nil {
		ea.TargetPosition = anim.TargetPosition.Slice()
	}
	if anim.Offset != nil {
		ea.Offset = anim.Offset.Slice()
	}
	return ea, nil
}

// MarshalJSON encodes a single object in its scene wire form.
func (o SceneObject) MarshalJSON() ([]byte, error) {
	eo, err := objectToWire(o)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eo)
}

// MarshalJSON encodes a single animation in its scene wire form.
func (a AnimationStep) MarshalJSON() ([]byte, error) {
	ea, err := animationToWire(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ea)
}
