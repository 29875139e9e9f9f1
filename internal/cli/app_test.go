package cli

import (
	"testing"
	"time"

	"usem/config"
)

func TestSourceTimeout_UsesSlowestSource(t *testing.T) {
	cfg := config.DefaultConfig()

	// Defaults: online 8s, web 10s, ai 15s.
	if got := sourceTimeout(cfg); got != 15*time.Second {
		t.Errorf("sourceTimeout = %v, want 15s from the AI source", got)
	}

	cfg.Sources.Web.TimeoutSeconds = 30
	if got := sourceTimeout(cfg); got != 30*time.Second {
		t.Errorf("sourceTimeout = %v, want 30s after raising web timeout", got)
	}

	cfg.Sources.Online.TimeoutSeconds = 5
	cfg.Sources.Web.TimeoutSeconds = 0
	cfg.Sources.AI.TimeoutSeconds = 0
	if got := sourceTimeout(cfg); got != 5*time.Second {
		t.Errorf("sourceTimeout = %v, want 5s", got)
	}
}
