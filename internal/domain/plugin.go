package domain

// PluginKind names one of the three plugin categories an app is configured with.
type PluginKind string

const (
	PluginKindProvider PluginKind = "provider"
	PluginKindCheck    PluginKind = "check"
	PluginKindNotifier PluginKind = "notifier"
)

// OptionSpec describes a single configurable parameter of a plugin.
// Only Required is interpreted; the rest is descriptive metadata.
type OptionSpec struct {
	Required bool   `json:"required" yaml:"required"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Help     string `json:"help,omitempty" yaml:"help,omitempty"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty"`
}

type Option struct {
	Name string
	Spec OptionSpec
}

// Options is an ordered option schema.
type Options []Option

// Lookup returns the spec registered under name.
func (o Options) Lookup(name string) (OptionSpec, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Spec, true
		}
	}
	return OptionSpec{}, false
}

// PluginDescriptor is the static option schema of a registered plugin.
type PluginDescriptor struct {
	Type           string
	DefaultOptions Options
	Options        Options
}

// PluginRegistry resolves plugin descriptors by type name.
// Get returns an error wrapping ErrPluginNotFound for unknown names.
type PluginRegistry interface {
	Get(typeName string) (*PluginDescriptor, error)
}
