package tqconf

// Settings is Tinqer-Go's top-level configuration shape, unmarshalled
// by LoadConfig. Field names are lowercased by viper's default key
// matching, so a YAML file uses the same lowercase keys.
type Settings struct {
	Cache       CacheSettings               `mapstructure:"cache"`
	LogLevel    string                      `mapstructure:"log_level"`
	Dialect     string                      `mapstructure:"dialect"`
	Connections map[string]ConnectionConfig `mapstructure:"connections"`
}

// CacheSettings configures the process-wide parse cache (pkg/tqcache).
type CacheSettings struct {
	Capacity int  `mapstructure:"capacity"`
	Enabled  bool `mapstructure:"enabled"`
}

// ConnectionConfig describes one named database connection, mirroring
// pkg/tqdriver.ConnConfig's fields for direct unmarshalling.
type ConnectionConfig struct {
	Dialect  string `mapstructure:"dialect"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}
