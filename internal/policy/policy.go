package policy

import "noctua/internal/config"

// Policy is the fully-resolved set of filter parameters for one section.
// It is a pure value: resolved once, never mutated afterwards.
type Policy struct {
	MaxAgeHours      int
	ExcludeKeywords  []string
	RequireKeywords  []string
	MinContentLength int
	ExcludeURLPart   string
	RequireURLPart   string
	Deduplicate      bool
}

// Default returns the base policy every override layer starts from.
func Default() Policy {
	return Policy{
		MaxAgeHours: 72,
		Deduplicate: true,
	}
}

// Resolve merges the override layers onto the default policy, in order.
// Each layer only overwrites the keys it explicitly sets; absent keys keep
// the value from the layer below. Resolution is global → section; there is
// no per-feed layer at the filtering stage.
func Resolve(layers ...*config.FilterConfig) Policy {
	resolved := Default()
	for _, layer := range layers {
		apply(&resolved, layer)
	}
	return resolved
}

// ForSection resolves the effective policy of one section from the config.
func ForSection(cfg config.Config, sectionID string) Policy {
	var sectionFilter *config.FilterConfig
	if section := cfg.Section(sectionID); section != nil {
		sectionFilter = section.Filter
	}
	return Resolve(cfg.Settings.Filter, sectionFilter)
}

func apply(base *Policy, override *config.FilterConfig) {
	if override == nil {
		return
	}
	if override.MaxAgeHours != nil {
		base.MaxAgeHours = *override.MaxAgeHours
	}
	if override.ExcludeKeywords != nil {
		base.ExcludeKeywords = override.ExcludeKeywords
	}
	if override.RequireKeywords != nil {
		base.RequireKeywords = override.RequireKeywords
	}
	if override.MinContentLength != nil {
		base.MinContentLength = *override.MinContentLength
	}
	if override.ExcludeURLPart != nil {
		base.ExcludeURLPart = *override.ExcludeURLPart
	}
	if override.RequireURLPart != nil {
		base.RequireURLPart = *override.RequireURLPart
	}
	if override.Deduplicate != nil {
		base.Deduplicate = *override.Deduplicate
	}
}
