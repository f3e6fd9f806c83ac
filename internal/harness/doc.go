// Package harness runs conformance scenarios against the context builder.
//
// A scenario names a scene, compiles it through the same gate model output
// goes through, builds the context and checks assertions against it.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: pythagoras
//	description: "Formula morphs into its expanded form"
//	scene_file: scenes/pythagoras.yaml   # relative to the scenario file
//	assertions:
//	  - type: chain
//	    ids: [eq, eq2]
//	  - type: category_count
//	    category: math
//	    count: 2
//	  - type: creation_order
//	    ids: [tri, eq, eq2]
//	  - type: starts_at
//	    subject: a3
//	    at: 2.5
//
// The scene may be given inline under scene: instead of scene_file:.
// A scenario that expects the scene to be refused sets reject: to the
// compile stage (extract, schema or decode) and may list reject_codes.
//
// # Assertion Types
//
//   - category_count: number of objects or animations in a category
//   - creation_order: exact object creation order
//   - chain: a transformation chain equal to ids
//   - timeline_order: animation ids appear in this relative timeline order
//   - starts_at: animation subject starts at the given second
//   - warning: a warning with code (and subject, if given) was reported
//   - no_warnings: the build reported nothing
//   - imports: the context requires exactly these import lines
//
// # Usage
//
//	scenarios, err := harness.LoadDir("testdata/scenarios")
//	for _, s := range scenarios {
//	    result, err := harness.Run(s)
//	    ...
//	}
package harness
