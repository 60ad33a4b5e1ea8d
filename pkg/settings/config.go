package settings

type Config struct {
	Server    Server    `mapstructure:"server"`
	Logger    Logger    `mapstructure:"logger"`
	Dispenser Dispenser `mapstructure:"dispenser"`
	Redis     Redis     `mapstructure:"redis"`
	Kafka     Kafka     `mapstructure:"kafka"`
}

// Server is the configuration for the HTTP server
type Server struct {
	Mode            string `mapstructure:"mode"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // Seconds
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
}

// Dispenser is the configuration for the token queue
type Dispenser struct {
	Capacity int `mapstructure:"capacity"`
}

// Redis is the configuration for the now-serving board mirror.
// An empty Host disables the mirror.
type Redis struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	Database        int    `mapstructure:"database"`
	PoolSize        int    `mapstructure:"pool_size"`
	MinIdleConns    int    `mapstructure:"min_idle_conns"`
	PoolTimeout     int    `mapstructure:"pool_timeout"`
	DialTimeout     int    `mapstructure:"dial_timeout"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"`
	MinRetryBackoff int    `mapstructure:"min_retry_backoff"`
}

// Kafka is the configuration for the token event publisher.
// No brokers disables publishing.
type Kafka struct {
	Brokers           []string `mapstructure:"brokers"`
	Topic             string   `mapstructure:"topic"`
	FlushFrequency    int      `mapstructure:"flush_frequency"`     // Milliseconds
	MaxMessageBytes   int      `mapstructure:"max_message_bytes"`   // Bytes
	Timeout           int      `mapstructure:"timeout"`             // Seconds
	MaxRetries        int      `mapstructure:"max_retries"`         // Number of retries
	RetryBackoff      int      `mapstructure:"retry_backoff"`       // Milliseconds
	ConsumerBatchSize int      `mapstructure:"consumer_batch_size"` // Number of messages
}

// Enabled reports whether a Redis host is configured.
func (r Redis) Enabled() bool { return r.Host != "" }

// Enabled reports whether any Kafka broker is configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }
