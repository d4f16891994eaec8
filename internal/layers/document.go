package layers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/adjblend/internal/curve"
)

// Document is the serialized form of a layer stack. Curve references are
// stored by channel name and resolved against a curve.Table on load.
type Document struct {
	Version string   `yaml:"version"`
	Layers  []*Layer `yaml:"layers"`
}

const documentVersion = "1.0"

// WriteStack saves a stack to a YAML file.
func WriteStack(s *Stack, path string) error {
	doc := Document{Version: documentVersion, Layers: s.Layers()}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal layer stack: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layer stack: %v", err)
	}

	return nil
}

// ReadStack loads a stack from a YAML file, resolving each layer's
// source curve through table (entity and channel split on the last '/').
// Layers whose source cannot be resolved are kept but stay inapplicable
// until a source is attached.
func ReadStack(path string, table *curve.Table) (*Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer stack: %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layer stack: %v", err)
	}

	stack := NewStack()
	for _, l := range doc.Layers {
		if l.SourceRef != "" && table != nil {
			if key, ok := splitRef(l.SourceRef); ok {
				if c, found := table.Get(key); found {
					l.Source = c
				}
			}
		}
		stack.Add(l)
	}
	stack.SetActive(0)

	return stack, nil
}

// splitRef parses an "entity/channel" reference.
func splitRef(ref string) (curve.Key, bool) {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '/' {
			return curve.Key{Entity: ref[:i], Channel: ref[i+1:]}, true
		}
	}
	return curve.Key{}, false
}
