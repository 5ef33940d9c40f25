package ir

// Version constants recorded alongside stored runs.
const (
	// IRVersion is the observation schema version.
	IRVersion = "1"

	// EngineVersion is the reducer version.
	EngineVersion = "0.1.0"
)
