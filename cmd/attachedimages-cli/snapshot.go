package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-attachedimages/pkg/formset"
)

// loadSnapshot reads the existing form fields from path. YAML and JSON files
// hold either a mapping or a list of {name, value} pairs; anything else is
// parsed as an urlencoded body. Field order is kept in every case.
func loadSnapshot(path string) (*formset.FieldSet, error) {
	if strings.TrimSpace(path) == "" {
		return &formset.FieldSet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form snapshot: %w", err)
	}
	return parseSnapshot(data, filepath.Ext(path))
}

func parseSnapshot(data []byte, ext string) (*formset.FieldSet, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".json":
		return parseStructuredSnapshot(data)
	default:
		return formset.ParseQuery(strings.TrimSpace(string(data)))
	}
}

func parseStructuredSnapshot(data []byte) (*formset.FieldSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode form snapshot: %w", err)
	}
	set := &formset.FieldSet{}
	if len(doc.Content) == 0 {
		return set, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			set.Set(root.Content[i].Value, root.Content[i+1].Value)
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			var field struct {
				Name  string `yaml:"name"`
				Value string `yaml:"value"`
			}
			if err := item.Decode(&field); err != nil {
				return nil, fmt.Errorf("decode form field: %w", err)
			}
			set.Set(field.Name, field.Value)
		}
	default:
		return nil, errors.New("form snapshot must be a mapping or a list of {name, value}")
	}
	return set, nil
}
