package plugin

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/pscheid92/freight/internal/domain"
)

// Error names reported to API clients.
const (
	NameInvalidProvider       = "invalid_provider"
	NameInvalidCheck          = "invalid_check"
	NameInvalidNotifier       = "invalid_notifier"
	NameInvalidConfig         = "invalid_config"
	NameInvalidProviderConfig = "invalid_provider_config"
)

// ValidationError reports an unknown plugin type or a missing required option.
type ValidationError struct {
	Name       string
	Message    string
	PluginType string
	Option     string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Category binds a registry to the error names used when validating against it.
type Category struct {
	Kind        domain.PluginKind
	Registry    domain.PluginRegistry
	InvalidType string
	InvalidConf string
}

func ProviderCategory(reg domain.PluginRegistry) Category {
	return Category{Kind: domain.PluginKindProvider, Registry: reg, InvalidType: NameInvalidProvider, InvalidConf: NameInvalidProviderConfig}
}

func CheckCategory(reg domain.PluginRegistry) Category {
	return Category{Kind: domain.PluginKindCheck, Registry: reg, InvalidType: NameInvalidCheck, InvalidConf: NameInvalidConfig}
}

func NotifierCategory(reg domain.PluginRegistry) Category {
	return Category{Kind: domain.PluginKindNotifier, Registry: reg, InvalidType: NameInvalidNotifier, InvalidConf: NameInvalidConfig}
}

// Resolve looks up the descriptor for typeName.
func (c Category) Resolve(typeName string) (*domain.PluginDescriptor, error) {
	desc, err := c.Registry.Get(typeName)
	if errors.Is(err, domain.ErrPluginNotFound) {
		return nil, &ValidationError{
			Name:       c.InvalidType,
			Message:    fmt.Sprintf("Invalid %s: %s", c.Kind, typeName),
			PluginType: typeName,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s %q: %w", c.Kind, typeName, err)
	}
	return desc, nil
}

// Validate checks config against the plugin's required options and returns it verbatim.
func (c Category) Validate(typeName string, config map[string]any) (domain.ConfigEntry, error) {
	desc, err := c.Resolve(typeName)
	if err != nil {
		return domain.ConfigEntry{}, err
	}
	if config == nil {
		config = map[string]any{}
	}
	if err := c.checkRequired(desc, config); err != nil {
		return domain.ConfigEntry{}, err
	}
	return domain.ConfigEntry{Type: typeName, Config: config}, nil
}

// Normalize validates config and returns a new mapping holding exactly the declared
// options. Undeclared keys are dropped and absent options are set to nil.
func (c Category) Normalize(typeName string, config map[string]any) (domain.ConfigEntry, error) {
	desc, err := c.Resolve(typeName)
	if err != nil {
		return domain.ConfigEntry{}, err
	}
	return c.NormalizeWith(desc, config)
}

// NormalizeWith is Normalize for an already resolved descriptor.
func (c Category) NormalizeWith(desc *domain.PluginDescriptor, config map[string]any) (domain.ConfigEntry, error) {
	if err := c.checkRequired(desc, config); err != nil {
		return domain.ConfigEntry{}, err
	}

	options := CombinedOptions(desc)
	normalized := make(map[string]any, len(options))
	for _, opt := range options {
		normalized[opt.Name] = config[opt.Name]
	}
	return domain.ConfigEntry{Type: desc.Type, Config: normalized}, nil
}

// ValidateList validates every entry in order. The first failure aborts.
func (c Category) ValidateList(entries []domain.ConfigEntry) ([]domain.ConfigEntry, error) {
	result := make([]domain.ConfigEntry, 0, len(entries))
	for _, entry := range entries {
		validated, err := c.Validate(entry.Type, entry.Config)
		if err != nil {
			return nil, err
		}
		result = append(result, validated)
	}
	return result, nil
}

func (c Category) checkRequired(desc *domain.PluginDescriptor, config map[string]any) error {
	for _, opt := range CombinedOptions(desc) {
		if opt.Spec.Required && IsEmpty(config[opt.Name]) {
			return &ValidationError{
				Name:       c.InvalidConf,
				Message:    fmt.Sprintf("Missing required option for %q %s: %s", desc.Type, c.Kind, opt.Name),
				PluginType: desc.Type,
				Option:     opt.Name,
			}
		}
	}
	return nil
}

// CombinedOptions returns the default options followed by the plugin-specific ones.
// A specific option sharing a name with a default one replaces its spec in place.
func CombinedOptions(desc *domain.PluginDescriptor) domain.Options {
	combined := make(domain.Options, 0, len(desc.DefaultOptions)+len(desc.Options))
	index := make(map[string]int, cap(combined))

	for _, group := range []domain.Options{desc.DefaultOptions, desc.Options} {
		for _, opt := range group {
			if i, seen := index[opt.Name]; seen {
				combined[i].Spec = opt.Spec
				continue
			}
			index[opt.Name] = len(combined)
			combined = append(combined, opt)
		}
	}
	return combined
}

// IsEmpty reports whether v counts as not supplied: nil, an empty string, numeric zero,
// false, or an empty slice or map.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}

	switch val := v.(type) {
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	default:
		return false
	}
}
