package types

// ServerConfig holds session-scoped settings that are not themselves part
// of the resolved workspace: the client-supplied initialization options
// (spec.md §6 "Initialization options").
type ServerConfig struct {
	// RestartFromCrash mirrors the client-supplied "restartFromCrash"
	// initialization option: when true, the Orchestrator's first compile
	// runs in safe mode (spec.md §4.5 "Safe mode", §5 "Failure isolation").
	RestartFromCrash bool `json:"restartFromCrash"`
}

// DefaultConfig returns the configuration assumed before initialize runs.
func DefaultConfig() ServerConfig {
	return ServerConfig{RestartFromCrash: false}
}
