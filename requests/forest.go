package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/codecollab/filetree"
	"gopkg.in/yaml.v3"
)

// LoadForestFile reads a forest definition (a list of nodes with nested
// children) from a YAML (.yaml, .yml) or JSON (.json) file. Paths and ids may
// be omitted; they are derived when the forest is loaded into a store.
func LoadForestFile(path string) ([]filetree.NodeView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var forest []filetree.NodeView
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &forest)
	case ".json":
		err = json.Unmarshal(data, &forest)
	default:
		return nil, fmt.Errorf("unknown forest file extension: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal forest file %s: %w", path, err)
	}
	return forest, nil
}
