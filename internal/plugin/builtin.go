package plugin

import (
	"fmt"

	"github.com/pscheid92/freight/internal/domain"
)

var (
	defaultProviderOptions = domain.Options{
		{Name: "timeout", Spec: domain.OptionSpec{Type: "int", Help: "Seconds before the deploy is aborted.", Default: 3600}},
	}

	defaultCheckOptions = domain.Options{}

	defaultNotifierOptions = domain.Options{
		{Name: "events", Spec: domain.OptionSpec{Type: "list", Help: "Deploy events to notify about.", Default: []any{"started", "finished"}}},
	}
)

// DefaultOptions returns the options every plugin of kind inherits.
func DefaultOptions(kind domain.PluginKind) domain.Options {
	switch kind {
	case domain.PluginKindProvider:
		return defaultProviderOptions
	case domain.PluginKindCheck:
		return defaultCheckOptions
	case domain.PluginKindNotifier:
		return defaultNotifierOptions
	default:
		return nil
	}
}

func builtinProviders() []domain.PluginDescriptor {
	return []domain.PluginDescriptor{
		{
			Type: "shell",
			Options: domain.Options{
				{Name: "command", Spec: domain.OptionSpec{Required: true, Type: "string", Help: "Command to run; supports {ref}, {sha}, {environment} and {task} placeholders."}},
				{Name: "env", Spec: domain.OptionSpec{Type: "dict", Help: "Extra environment variables."}},
			},
		},
		{
			Type: "kubernetes",
			Options: domain.Options{
				{Name: "namespace", Spec: domain.OptionSpec{Required: true, Type: "string"}},
				{Name: "deployment", Spec: domain.OptionSpec{Required: true, Type: "string"}},
				{Name: "container", Spec: domain.OptionSpec{Type: "string"}},
				{Name: "kubeconfig", Spec: domain.OptionSpec{Type: "string", Help: "Path to a kubeconfig; in-cluster config when empty."}},
			},
		},
	}
}

func builtinChecks() []domain.PluginDescriptor {
	return []domain.PluginDescriptor{
		{
			Type: "github",
			Options: domain.Options{
				{Name: "api_token", Spec: domain.OptionSpec{Type: "string"}},
				{Name: "repo", Spec: domain.OptionSpec{Type: "string", Help: "owner/name; derived from the app repository when empty."}},
				{Name: "contexts", Spec: domain.OptionSpec{Type: "list", Help: "Required commit status contexts."}},
			},
		},
		{
			Type: "http",
			Options: domain.Options{
				{Name: "url", Spec: domain.OptionSpec{Required: true, Type: "string"}},
				{Name: "expected_status", Spec: domain.OptionSpec{Type: "int", Default: 200}},
			},
		},
	}
}

func builtinNotifiers() []domain.PluginDescriptor {
	return []domain.PluginDescriptor{
		{
			Type: "slack",
			Options: domain.Options{
				{Name: "webhook_url", Spec: domain.OptionSpec{Required: true, Type: "string"}},
			},
		},
		{
			Type: "sentry",
			Options: domain.Options{
				{Name: "webhook_url", Spec: domain.OptionSpec{Required: true, Type: "string"}},
			},
		},
		{
			Type: "datadog",
			Options: domain.Options{
				{Name: "webhook_url", Spec: domain.OptionSpec{Required: true, Type: "string"}},
			},
		},
		{
			Type: "github",
			Options: domain.Options{
				{Name: "api_token", Spec: domain.OptionSpec{Type: "string"}},
				{Name: "repo", Spec: domain.OptionSpec{Type: "string"}},
			},
		},
		{
			Type: "webhook",
			Options: domain.Options{
				{Name: "url", Spec: domain.OptionSpec{Required: true, Type: "string"}},
				{Name: "headers", Spec: domain.OptionSpec{Type: "dict"}},
			},
		},
	}
}

// Registries groups the three category registries.
type Registries struct {
	Providers *Registry
	Checks    *Registry
	Notifiers *Registry
}

// NewRegistries returns empty registries for all three categories.
func NewRegistries() Registries {
	return Registries{
		Providers: NewRegistry(domain.PluginKindProvider),
		Checks:    NewRegistry(domain.PluginKindCheck),
		Notifiers: NewRegistry(domain.PluginKindNotifier),
	}
}

// NewBuiltinRegistries returns registries populated with the built-in plugins.
func NewBuiltinRegistries() (Registries, error) {
	regs := NewRegistries()

	for reg, descs := range map[*Registry][]domain.PluginDescriptor{
		regs.Providers: builtinProviders(),
		regs.Checks:    builtinChecks(),
		regs.Notifiers: builtinNotifiers(),
	} {
		for _, desc := range descs {
			desc.DefaultOptions = DefaultOptions(reg.Kind())
			if err := reg.Register(desc); err != nil {
				return Registries{}, fmt.Errorf("failed to register built-in plugin: %w", err)
			}
		}
	}

	return regs, nil
}

// For returns the registry of the given kind.
func (r Registries) For(kind domain.PluginKind) *Registry {
	switch kind {
	case domain.PluginKindProvider:
		return r.Providers
	case domain.PluginKindCheck:
		return r.Checks
	case domain.PluginKindNotifier:
		return r.Notifiers
	default:
		return nil
	}
}
