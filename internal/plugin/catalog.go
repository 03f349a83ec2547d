package plugin

import (
	"fmt"
	"os"

	"github.com/pscheid92/freight/internal/domain"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk format for additional plugin descriptors:
//
//	providers:
//	  - type: fly
//	    options:
//	      app: {required: true}
//	checks: []
//	notifiers: []
//
// Option order in the file is kept.
type catalogFile struct {
	Providers []catalogEntry `yaml:"providers"`
	Checks    []catalogEntry `yaml:"checks"`
	Notifiers []catalogEntry `yaml:"notifiers"`
}

type catalogEntry struct {
	Type           string    `yaml:"type"`
	DefaultOptions yaml.Node `yaml:"default_options"`
	Options        yaml.Node `yaml:"options"`
}

// LoadCatalog registers the descriptors found in the YAML file at path.
// Entries without default_options inherit the category defaults.
func LoadCatalog(path string, regs Registries) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read plugin catalog: %w", err)
	}
	return ParseCatalog(data, regs)
}

func ParseCatalog(data []byte, regs Registries) (int, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse plugin catalog: %w", err)
	}

	count := 0
	for _, group := range []struct {
		reg     *Registry
		entries []catalogEntry
	}{
		{regs.Providers, file.Providers},
		{regs.Checks, file.Checks},
		{regs.Notifiers, file.Notifiers},
	} {
		for _, entry := range group.entries {
			desc, err := entry.descriptor(group.reg.Kind())
			if err != nil {
				return count, err
			}
			if err := group.reg.Register(desc); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (e catalogEntry) descriptor(kind domain.PluginKind) (domain.PluginDescriptor, error) {
	desc := domain.PluginDescriptor{Type: e.Type}

	defaults, err := decodeOptions(&e.DefaultOptions)
	if err != nil {
		return desc, fmt.Errorf("%s %q default_options: %w", kind, e.Type, err)
	}
	if e.DefaultOptions.Kind == 0 {
		defaults = DefaultOptions(kind)
	}
	desc.DefaultOptions = defaults

	desc.Options, err = decodeOptions(&e.Options)
	if err != nil {
		return desc, fmt.Errorf("%s %q options: %w", kind, e.Type, err)
	}
	return desc, nil
}

func decodeOptions(node *yaml.Node) (domain.Options, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return domain.Options{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of option names", node.Line)
	}

	options := make(domain.Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var spec domain.OptionSpec
		if err := node.Content[i+1].Decode(&spec); err != nil {
			return nil, fmt.Errorf("option %q: %w", node.Content[i].Value, err)
		}
		options = append(options, domain.Option{Name: node.Content[i].Value, Spec: spec})
	}
	return options, nil
}
