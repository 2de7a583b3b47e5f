package config

import (
	"fmt"
	"net/netip"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
// Missing WiFi credentials are not an error here: joining fails later, on the radio.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// IPV4 LITERALS
	// ------------------------------------------------------------

	literals := []struct {
		key   string
		value string
	}{
		{KeyIPv4Address, cfg.Network.Address},
		{KeyIPv4Netmask, cfg.Network.Netmask},
		{KeyIPv4Gateway, cfg.Network.Gateway},
		{KeyPingAddress, cfg.Health.PingAddress},
	}
	for _, l := range literals {
		a, err := netip.ParseAddr(l.value)
		if err != nil {
			return fmt.Errorf("%s: %w", l.key, err)
		}
		if !a.Is4() {
			return fmt.Errorf("%s: %q is not an IPv4 address", l.key, l.value)
		}
	}

	// ------------------------------------------------------------
	// SERVER / TIMING
	// ------------------------------------------------------------

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%s: port %d out of range", KeyHTTPPort, cfg.Server.Port)
	}
	if cfg.Server.RestartDelay < 0 {
		return fmt.Errorf("%s: must not be negative", KeyRestartDelay)
	}
	if cfg.Health.Interval <= 0 {
		return fmt.Errorf("%s: must be positive", KeyHealthInterval)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: unknown level %q", KeyLogLevel, cfg.Log.Level)
	}

	return nil
}
