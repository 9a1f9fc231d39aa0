package adp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aliases maps a roster display name to the name used by the reference table.
// It covers spellings the fuzzy matcher cannot bridge, e.g. "Gabe Davis" vs
// "Gabriel Davis".
type Aliases map[string]string

// AliasConfig represents the structure of the aliases YAML file
type AliasConfig struct {
	Aliases []struct {
		Name      string `yaml:"name"`
		Reference string `yaml:"reference"`
	} `yaml:"aliases"`
}

// LoadAliases reads alias overrides from a YAML file.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases decodes alias overrides. Entries with an empty side are ignored.
func ParseAliases(data []byte) (Aliases, error) {
	var config AliasConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	aliases := make(Aliases, len(config.Aliases))
	for _, a := range config.Aliases {
		name := strings.TrimSpace(a.Name)
		ref := strings.TrimSpace(a.Reference)
		if name == "" || ref == "" {
			continue
		}
		aliases[name] = ref
	}
	return aliases, nil
}
