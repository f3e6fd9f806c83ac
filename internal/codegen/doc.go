// Package codegen builds the code-generation context for a scene.
//
// Build is a pure function from an ir.SceneStructure to a Context: objects
// and animations partitioned by category, a start-time ordered timeline, the
// transform dependency map and transformation chains. A renderer emitter
// reads the Context; this package never emits source text itself.
//
// Documented policies:
//   - Object and animation types missing from the category tables are left
//     out of every category view and reported as UNCATEGORIZED warnings
//   - When two transforms share a source object, the later one wins in chain
//     construction and the collision is reported as AMBIGUOUS_TRANSFORM
//   - References to undeclared object ids are passed through and reported
//     as REFERENTIAL_GAP warnings
//
// Build never fails for a scene that passed ir.Decode.
package codegen
