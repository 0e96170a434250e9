package plugins

import (
	"github.com/strataml/stratum/pkg/plugin"
	"github.com/strataml/stratum/pkg/types"
)

// TemplatePlugin serves message templates from a static table through the
// first-match template hook. Registering it early (or in the Pre phase)
// gives its templates precedence over later plugins.
type TemplatePlugin struct {
	plugin.Base
	name      string
	phase     plugin.Phase
	templates map[string][]types.Message
}

// TemplateOption configures the TemplatePlugin.
type TemplateOption func(*TemplatePlugin)

// WithTemplatePhase sets the plugin phase.
func WithTemplatePhase(phase plugin.Phase) TemplateOption {
	return func(p *TemplatePlugin) { p.phase = phase }
}

// NewTemplatePlugin creates a template plugin serving the given table.
func NewTemplatePlugin(templates map[string][]types.Message, opts ...TemplateOption) *TemplatePlugin {
	p := &TemplatePlugin{
		name:      "template",
		phase:     plugin.PhaseNormal,
		templates: templates,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Plugin.
func (p *TemplatePlugin) Name() string { return p.name }

// Phase implements plugin.Plugin.
func (p *TemplatePlugin) Phase() plugin.Phase { return p.phase }

// LoadTemplate returns the named template, or nil to pass to the next
// plugin. The returned slice is a copy; callers may mutate it freely.
func (p *TemplatePlugin) LoadTemplate(_ *plugin.Context, name string) ([]types.Message, error) {
	template, ok := p.templates[name]
	if !ok {
		return nil, nil
	}
	out := make([]types.Message, len(template))
	copy(out, template)
	return out, nil
}
