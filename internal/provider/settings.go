package provider

import (
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-iconset/internal/config"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

// ResolveSettings merges the provider block over the environment
// configuration. Priority: explicit attribute, then ICONSET_* variables,
// then built-in defaults (already applied by config.Load).
func ResolveSettings(model *IconsetProviderModel, env config.Config) (config.Config, error) {
	cfg := env
	if model == nil {
		return cfg, cfg.Validate()
	}

	if s, ok := knownString(model.StoreBackend); ok {
		cfg.StoreBackend = s
	}
	if s, ok := knownString(model.StorePath); ok {
		cfg.StorePath = s
	}
	if !model.MaxBytes.IsNull() && !model.MaxBytes.IsUnknown() {
		cfg.MaxBytes = model.MaxBytes.ValueInt64()
	}
	if !model.HTTPRetryMax.IsNull() && !model.HTTPRetryMax.IsUnknown() {
		cfg.HTTPRetryMax = int(model.HTTPRetryMax.ValueInt64())
	}

	if !validBackend(cfg.StoreBackend) {
		return cfg, fmt.Errorf("%w: %q", registry.ErrUnknownBackend, cfg.StoreBackend)
	}
	return cfg, cfg.Validate()
}

func knownString(v types.String) (string, bool) {
	if v.IsNull() || v.IsUnknown() || v.ValueString() == "" {
		return "", false
	}
	return v.ValueString(), true
}

func validBackend(name string) bool {
	for _, b := range registry.Backends() {
		if b == name {
			return true
		}
	}
	return false
}
