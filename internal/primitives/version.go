// Package primitives provides versioning utilities for MachineConfig.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion computes a deterministic version for a MachineConfig: the
// first 8 bytes of the SHA256 of its JSON encoding. Table order is part of the
// version because it decides which duplicate transition wins.
func ComputeVersion(config *MachineConfig) string {
	data, err := json.Marshal(config)
	if err != nil {
		return "invalid"
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
