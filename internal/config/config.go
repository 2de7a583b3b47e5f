package config

import "time"

// Setting keys. The CIRCUITPY_ names match what CircuitPython boards keep in settings.toml so
// the same credentials can be reused.
const (
	KeyWiFiSSID       = "CIRCUITPY_WIFI_SSID"
	KeyWiFiPassword   = "CIRCUITPY_WIFI_PASSWORD"
	KeyDisplaySSID    = "WIFI_SSID"
	KeyIPv4Address    = "LEDWEB_IPV4_ADDRESS"
	KeyIPv4Netmask    = "LEDWEB_IPV4_NETMASK"
	KeyIPv4Gateway    = "LEDWEB_IPV4_GATEWAY"
	KeyHTTPPort       = "LEDWEB_HTTP_PORT"
	KeyStaticDir      = "LEDWEB_STATIC_DIR"
	KeyPingAddress    = "LEDWEB_PING_ADDRESS"
	KeyHealthInterval = "LEDWEB_HEALTH_INTERVAL"
	KeyRestartDelay   = "LEDWEB_RESTART_DELAY"
	KeyLogLevel       = "LEDWEB_LOG_LEVEL"
	KeyLEDPath        = "LEDWEB_LED_PATH"
)

// Defaults.
const (
	DefaultIPv4Address    = "192.168.1.42"
	DefaultIPv4Netmask    = "255.255.255.0"
	DefaultIPv4Gateway    = "192.168.1.1"
	DefaultHTTPPort       = 80
	DefaultStaticDir      = "/static"
	DefaultPingAddress    = "8.8.4.4"
	DefaultHealthInterval = 30 * time.Second
	DefaultRestartDelay   = 5 * time.Second
	DefaultLogLevel       = "info"
)

type Config struct {
	WiFi    WiFiConfig
	Network NetworkConfig
	Server  ServerConfig
	Health  HealthConfig
	LED     LEDConfig
	Log     LogConfig
}

// ---- WIFI ----

type WiFiConfig struct {
	SSID     string
	Password string

	// DisplaySSID is what the status display shows once connected. It comes from WIFI_SSID,
	// which is not the key used to join; empty falls back to SSID.
	DisplaySSID string
}

// ---- STATIC ADDRESS ----

type NetworkConfig struct {
	Address string
	Netmask string
	Gateway string
}

// ---- HTTP ----

type ServerConfig struct {
	Port      int
	StaticDir string

	// RestartDelay is how long to wait before resetting when the server cannot bind.
	RestartDelay time.Duration
}

// ---- HEALTH ----

type HealthConfig struct {
	PingAddress string
	Interval    time.Duration
}

// LEDConfig only matters off-device.
type LEDConfig struct {
	// Path is a sysfs brightness file; empty logs LED changes instead.
	Path string
}

type LogConfig struct {
	Level string
}

// ShownSSID is the SSID the status display reports.
func (c *Config) ShownSSID() string {
	if c.WiFi.DisplaySSID != "" {
		return c.WiFi.DisplaySSID
	}
	return c.WiFi.SSID
}
