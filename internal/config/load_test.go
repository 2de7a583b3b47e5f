package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if cfg.Network.Address != "192.168.1.42" || cfg.Network.Netmask != "255.255.255.0" || cfg.Network.Gateway != "192.168.1.1" {
		t.Fatalf("unexpected network defaults: %+v", cfg.Network)
	}
	if cfg.Server.Port != 80 {
		t.Fatalf("expected port 80, got %d", cfg.Server.Port)
	}
	if cfg.Health.PingAddress != "8.8.4.4" || cfg.Health.Interval != 30*time.Second {
		t.Fatalf("unexpected health defaults: %+v", cfg.Health)
	}
	if cfg.Server.RestartDelay != 5*time.Second {
		t.Fatalf("expected 5s restart delay, got %v", cfg.Server.RestartDelay)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate, err=%v", err)
	}
}

func TestLoad_SettingsBeatEnvironment(t *testing.T) {
	settings := strings.NewReader(`
CIRCUITPY_WIFI_SSID: "home"
LEDWEB_HTTP_PORT: 8080
LEDWEB_HEALTH_INTERVAL: 10s
`)
	env := map[string]string{
		KeyWiFiSSID:     "env-ssid",
		KeyWiFiPassword: "secret",
	}

	cfg, err := Load(settings, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if cfg.WiFi.SSID != "home" {
		t.Fatalf("settings file should win, got ssid=%q", cfg.WiFi.SSID)
	}
	if cfg.WiFi.Password != "secret" {
		t.Fatalf("environment should fill missing keys, got password=%q", cfg.WiFi.Password)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Health.Interval != 10*time.Second {
		t.Fatalf("expected 10s interval, got %v", cfg.Health.Interval)
	}
}

func TestLoad_EmptySettings(t *testing.T) {
	if _, err := Load(strings.NewReader(""), nil); err != nil {
		t.Fatalf("empty settings file should load, err=%v", err)
	}
}

func TestLoad_BadValues(t *testing.T) {
	cases := []string{
		"LEDWEB_HTTP_PORT: eighty\n",
		"LEDWEB_HEALTH_INTERVAL: soon\n",
		"LEDWEB_RESTART_DELAY: [1, 2]\n",
		"- not\n- a map\n",
	}
	for _, c := range cases {
		if _, err := Load(strings.NewReader(c), nil); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestShownSSID(t *testing.T) {
	cfg := &Config{WiFi: WiFiConfig{SSID: "join"}}
	if got := cfg.ShownSSID(); got != "join" {
		t.Fatalf("expected fallback to join ssid, got %q", got)
	}

	cfg.WiFi.DisplaySSID = "shown"
	if got := cfg.ShownSSID(); got != "shown" {
		t.Fatalf("expected WIFI_SSID value, got %q", got)
	}
}
