// Package ir provides the Scene intermediate representation for scenegen.
//
// This package contains the scene data model and its JSON contract only.
// All other internal packages import ir; ir imports nothing internal. This
// keeps the IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - All JSON tags use snake_case; enumerations are encoded by their tag
//   - Decode is the single validation gate and fails eagerly with *SchemaError
//   - Encode never fails for a structurally valid scene
//   - Decode(Encode(x)) is structurally equal to x; empty collections decode as nil
//   - Property bags hold only PropString, PropNumber, PropVector and PropBool
package ir
