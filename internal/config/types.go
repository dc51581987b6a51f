package config

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// ConfigServer настройки сервера
type ConfigServer struct {
	PortGRPC                int `mapstructure:"port_grpc"`
	PortHTTP                int `mapstructure:"port_http"`
	HTTPReadTimeout         int `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int `mapstructure:"graceful_shutdown_timeout"`
	MaxConcurrentStreams    int `mapstructure:"max_concurrent_streams"`
}

// ConfigGateway настройки HTTP Gateway
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
}

// ConfigStorage настройки хранилища заметок
type ConfigStorage struct {
	Driver string `mapstructure:"driver"` // leveldb | memory
	Path   string `mapstructure:"path"`
	// Sync не задан - записи синхронные
	Sync *bool `mapstructure:"sync"`
}

// SyncWrites нужно ли fsync каждой записи; по умолчанию true
func (c *ConfigStorage) SyncWrites() bool {
	return c.Sync == nil || *c.Sync
}

// ConfigToken bearer-токен и principal, которому он выдан
type ConfigToken struct {
	Token     string `mapstructure:"token"`
	Principal string `mapstructure:"principal"`
}

// ConfigAuth настройки Access Gate.
// Токены задаются списком: ключи map в viper приводятся к нижнему регистру.
type ConfigAuth struct {
	Tokens []ConfigToken `mapstructure:"tokens"`
}

// TokenTable возвращает таблицу token -> principal
func (c *ConfigAuth) TokenTable() map[string]string {
	table := make(map[string]string, len(c.Tokens))
	for _, t := range c.Tokens {
		// элементы списков не проходят подстановку в InitConfig
		table[expandEnvWithDefaults(t.Token)] = expandEnvWithDefaults(t.Principal)
	}
	return table
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger"`
	Server  *ConfigServer  `mapstructure:"server"`
	Gateway *ConfigGateway `mapstructure:"gateway"`
	Storage *ConfigStorage `mapstructure:"storage"`
	Auth    *ConfigAuth    `mapstructure:"auth"`
}

// SetDefaults заполняет отсутствующие секции значениями по умолчанию
func (c *Config) SetDefaults() {
	if c.Logger == nil {
		c.Logger = &ConfigLogger{}
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Server == nil {
		c.Server = &ConfigServer{}
	}
	if c.Server.PortGRPC == 0 {
		c.Server.PortGRPC = 50051
	}
	if c.Server.PortHTTP == 0 {
		c.Server.PortHTTP = 8080
	}
	if c.Server.GracefulShutdownTimeout == 0 {
		c.Server.GracefulShutdownTimeout = 10
	}
	if c.Server.MaxConcurrentStreams == 0 {
		c.Server.MaxConcurrentStreams = 25
	}
	if c.Gateway == nil {
		c.Gateway = &ConfigGateway{CORSAllowedOrigins: "*"}
	}
	if c.Storage == nil {
		c.Storage = &ConfigStorage{}
	}
	if c.Storage.Sync == nil {
		sync := true
		c.Storage.Sync = &sync
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "leveldb"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/notes.leveldb"
	}
	if c.Auth == nil {
		c.Auth = &ConfigAuth{}
	}
}
