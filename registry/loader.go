/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDescriptor is the YAML form of a Descriptor.
type fileDescriptor struct {
	EntityType    string            `yaml:"entityType"`
	KeyPattern    map[string]string `yaml:"keyPattern"`
	MutableFields []string          `yaml:"mutableFields"`
	Relations     []fileRelation    `yaml:"relations"`
}

type fileRelation struct {
	Name            string `yaml:"name"`
	ChildEntityType string `yaml:"childEntityType"`
	ForeignKey      string `yaml:"foreignKey"`
	ParentField     string `yaml:"parentField"`
	CascadeDelete   bool   `yaml:"cascadeDelete"`
}

// LoadDescriptorFile parses entity descriptors from a YAML file, keyed by
// EntityType. The caller binds each descriptor to its Go type via
// RegisterDescriptor; the file cannot know Go types, only shapes.
//
//	CUSTOMER:
//	  entityType: CUSTOMER
//	  keyPattern:
//	    PK: "CUSTOMER#{ID}"
//	    SK: "CUSTOMER#{ID}"
//	  mutableFields: [Name, Email]
//	  relations:
//	    - name: Orders
//	      childEntityType: ORDER
//	      foreignKey: CustomerID
//	      parentField: Orders
//	      cascadeDelete: true
func LoadDescriptorFile(path string) (map[string]Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file: %w", err)
	}

	var parsed map[string]fileDescriptor
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor file: %w", err)
	}

	out := make(map[string]Descriptor, len(parsed))
	for key, fd := range parsed {
		if fd.EntityType == "" {
			fd.EntityType = key
		}
		if len(fd.KeyPattern) == 0 {
			return nil, fmt.Errorf("descriptor %q has no key pattern", key)
		}
		d := Descriptor{
			EntityType:    fd.EntityType,
			KeyPattern:    fd.KeyPattern,
			MutableFields: fd.MutableFields,
		}
		for _, fr := range fd.Relations {
			if fr.Name == "" || fr.ChildEntityType == "" || fr.ForeignKey == "" {
				return nil, fmt.Errorf("descriptor %q has an incomplete relation", key)
			}
			d.Relations = append(d.Relations, Relation(fr))
		}
		out[fd.EntityType] = d
	}
	return out, nil
}
