package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a flat settings document (KEY: value) from settings and resolves every key against
// it, then getenv, then the compiled-in default. settings and getenv may be nil.
func Load(settings io.Reader, getenv func(string) string) (*Config, error) {
	values := map[string]string{}
	if settings != nil {
		raw := map[string]interface{}{}
		if err := yaml.NewDecoder(settings).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
		for k, v := range raw {
			switch v := v.(type) {
			case nil:
			case string:
				values[k] = v
			case int, bool, float64:
				values[k] = fmt.Sprint(v)
			default:
				return nil, fmt.Errorf("setting %s: expected a scalar, got %T", k, v)
			}
		}
	}

	lookup := func(key, def string) string {
		if v, ok := values[key]; ok {
			return v
		}
		if getenv != nil {
			if v := getenv(key); v != "" {
				return v
			}
		}
		return def
	}

	cfg := &Config{
		WiFi: WiFiConfig{
			SSID:        lookup(KeyWiFiSSID, ""),
			Password:    lookup(KeyWiFiPassword, ""),
			DisplaySSID: lookup(KeyDisplaySSID, ""),
		},
		Network: NetworkConfig{
			Address: lookup(KeyIPv4Address, DefaultIPv4Address),
			Netmask: lookup(KeyIPv4Netmask, DefaultIPv4Netmask),
			Gateway: lookup(KeyIPv4Gateway, DefaultIPv4Gateway),
		},
		Server: ServerConfig{
			StaticDir: lookup(KeyStaticDir, DefaultStaticDir),
		},
		Health: HealthConfig{
			PingAddress: lookup(KeyPingAddress, DefaultPingAddress),
		},
		LED: LEDConfig{
			Path: lookup(KeyLEDPath, ""),
		},
		Log: LogConfig{
			Level: lookup(KeyLogLevel, DefaultLogLevel),
		},
	}

	var err error
	if cfg.Server.Port, err = strconv.Atoi(lookup(KeyHTTPPort, strconv.Itoa(DefaultHTTPPort))); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyHTTPPort, err)
	}
	if cfg.Server.RestartDelay, err = time.ParseDuration(lookup(KeyRestartDelay, DefaultRestartDelay.String())); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyRestartDelay, err)
	}
	if cfg.Health.Interval, err = time.ParseDuration(lookup(KeyHealthInterval, DefaultHealthInterval.String())); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyHealthInterval, err)
	}

	return cfg, nil
}
