package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration
// notification: it updates the session's initialization-options-derived
// settings (spec.md §6) and, since safe mode is the only thing those
// settings control, has no effect on an already-running session beyond
// recording the new value for the next crash-restart.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	config, err := parseConfiguration(params.Settings)
	if err != nil {
		req.AddWarning(fmt.Errorf("failed to parse configuration: %w", err))
		return nil
	}

	req.Server.SetConfig(config)
	log.Debug("New configuration: %+v", config)

	return nil
}

// parseConfiguration parses the configuration from the settings.
func parseConfiguration(settings any) (types.ServerConfig, error) {
	config := types.DefaultConfig()

	if settings == nil {
		return config, nil
	}

	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return config, fmt.Errorf("settings is not a map")
	}

	var ourSettings any
	if val, exists := settingsMap["articLanguageServer"]; exists {
		ourSettings = val
	} else if val, exists := settingsMap["artic-lsp"]; exists {
		ourSettings = val
	} else {
		return config, nil
	}

	jsonBytes, err := json.Marshal(ourSettings)
	if err != nil {
		return config, fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return config, nil
}
