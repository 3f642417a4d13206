package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

// profileFile is the YAML layout of DASHBOARD_PROFILES:
//
//	variants:
//	  - name: entry
//	    trend_window: 30
//	  - name: nightly
//	    title: Gece Robotu
//	    groupings:
//	      - {name: workplaces, key: workplace, limit: 10}
type profileFile struct {
	Variants []yaml.Node `yaml:"variants"`
}

// LoadVariants returns the built-in variants, overlaid with the profile file
// at path when one is given. A profile named like a built-in only overrides
// the keys it sets; other names define new variants.
func LoadVariants(path string) ([]domain.Variant, error) {
	variants := domain.DefaultVariants()
	if path == "" {
		return variants, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseVariants(data, variants)
}

// ParseVariants overlays YAML profiles onto base.
func ParseVariants(data []byte, base []domain.Variant) ([]domain.Variant, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	out := make([]domain.Variant, len(base))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, v := range out {
		index[v.Name] = i
	}

	for i := range file.Variants {
		node := &file.Variants[i]

		var head struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&head); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}

		v := domain.Variant{ManualSecondsPerRecord: domain.DefaultManualSecondsPerRecord}
		pos, exists := index[head.Name]
		if exists {
			v = out[pos]
		}
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("profile %q: %w", head.Name, err)
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", head.Name, err)
		}

		if exists {
			out[pos] = v
		} else {
			index[v.Name] = len(out)
			out = append(out, v)
		}
	}
	return out, nil
}

// VariantPaths maps every variant to its export file. The built-ins use
// DATA_ENTRY_PATH and DATA_EXIT_PATH; profile variants read <name>.json next
// to the entry export.
func (c *Config) VariantPaths(variants []domain.Variant) map[string]string {
	dir := filepath.Dir(c.Data.EntryPath)
	paths := make(map[string]string, len(variants))
	for _, v := range variants {
		switch v.Name {
		case domain.VariantEntry:
			paths[v.Name] = c.Data.EntryPath
		case domain.VariantExit:
			paths[v.Name] = c.Data.ExitPath
		default:
			paths[v.Name] = filepath.Join(dir, v.Name+".json")
		}
	}
	return paths
}
