package orchestration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeTempSBOM persists a decoded SBOM document back to a temp file so the
// SCA adapter, which consumes a file path, can read it.
func writeTempSBOM(sbom map[string]interface{}) (string, error) {
	data, err := json.Marshal(sbom)
	if err != nil {
		return "", fmt.Errorf("writing temp sbom: %w", err)
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("sbom-rt-%s.json", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing temp sbom: %w", err)
	}
	return path, nil
}

func removeTempFile(path string) {
	if path != "" {
		os.Remove(path)
	}
}
