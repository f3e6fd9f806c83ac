package ir

// Version constants for the Scene-IR schema and the generator.
const (
	// IRVersion is the Scene-IR schema version.
	IRVersion = "1"

	// GeneratorVersion is the scenegen version.
	GeneratorVersion = "0.1.0"
)
