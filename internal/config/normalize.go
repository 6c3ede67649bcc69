package config

import "github.com/google/uuid"

// Normalize assigns stable identifiers to rules that were written by hand
// without one, and sanity-checks the desktop layout.
func Normalize(store Store) error {
	return store.UpdateConfig(func(cfg Config) (Config, error) {
		if cfg.Desktops == 0 {
			cfg.Desktops = defaultConfig.Desktops
		}
		for i := range cfg.Rules {
			if cfg.Rules[i].UUID == "" {
				cfg.Rules[i].UUID = uuid.NewString()
			}
		}
		return cfg, nil
	})
}
