package settings

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCapacity = 20
	DefaultPort     = 8080
	DefaultTopic    = "dispenser.tokens"

	defaultLogLevel        = "info"
	defaultShutdownTimeout = 5
	defaultBatchSize       = 64
	defaultFlushFrequency  = 500
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads a YAML file at path and fills unset fields with defaults.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "settings: read %s", path)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes into a Config.
func Parse(raw []byte) (*Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "settings: parse yaml")
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "settings: build decoder")
	}
	if err := decoder.Decode(m); err != nil {
		return nil, errors.Wrap(err, "settings: decode")
	}

	cfg.setDefaults()
	return cfg, nil
}

// setDefaults fills zero values with defaults
func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaultLogLevel
	}
	if c.Dispenser.Capacity <= 0 {
		c.Dispenser.Capacity = DefaultCapacity
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultTopic
	}
	if c.Kafka.ConsumerBatchSize <= 0 {
		c.Kafka.ConsumerBatchSize = defaultBatchSize
	}
	if c.Kafka.FlushFrequency <= 0 {
		c.Kafka.FlushFrequency = defaultFlushFrequency
	}
}
