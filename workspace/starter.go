package workspace

import (
	_ "embed"
	"fmt"

	"github.com/brettbedarf/codecollab/filetree"
	"gopkg.in/yaml.v3"
)

//go:embed starter.yaml
var starterYAML []byte

// StarterForest returns a fresh copy of the layout new projects are seeded with
func StarterForest() ([]filetree.NodeView, error) {
	var forest []filetree.NodeView
	if err := yaml.Unmarshal(starterYAML, &forest); err != nil {
		return nil, fmt.Errorf("failed to decode starter project: %w", err)
	}
	return forest, nil
}
