package bootstrap

import (
	"log"

	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
)

// validateConfiguration validates all configuration settings. A
// misconfigured deployment fails on boot, not on first use.
func validateConfiguration(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}
