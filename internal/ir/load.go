package ir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReadSource reads the raw API reference JSON for a build, trying
// <srcDir>/api/<name> first and <srcDir>/<name> second. Absence at both
// locations is an error the caller must treat as fatal for the build.
func ReadSource(srcDir, name string) ([]byte, error) {
	primary := filepath.Join(srcDir, "api", name)
	fallback := filepath.Join(srcDir, name)

	data, err := os.ReadFile(primary)
	if err != nil {
		data, err = os.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("api reference not found at %s or %s", primary, fallback)
		}
	}
	return data, nil
}

// Load reads and decodes the API reference for a build.
func Load(srcDir, name string) (*Package, error) {
	data, err := ReadSource(srcDir, name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes an API reference document.
func Parse(data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("decode api reference: %w", err)
	}
	if pkg.Modules == nil {
		pkg.Modules = map[string]*Module{}
	}
	return &pkg, nil
}
