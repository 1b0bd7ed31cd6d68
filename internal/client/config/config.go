package config

// Config holds runtime settings for the carblock CLI.
//
// ProxyUser/ProxyPassword are the optional basic-auth credential of a
// reverse proxy (DDNS setups) in front of the API; they are independent of
// the bearer-token authentication against the API itself.
type Config struct {
	ServerURL     string
	ProxyUser     string
	ProxyPassword string
	SessionFile   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionFile = "carblock-session.json"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
