package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is loaded from defaults, then an optional YAML file, then environment variables.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reminders ReminderConfig  `yaml:"reminders"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Inventory InventoryConfig `yaml:"inventory"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite
	DSN      string `yaml:"dsn"`    // wins over the discrete fields below
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"` // empty disables reminder de-duplication
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	DedupeTTL time.Duration `yaml:"dedupe_ttl"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

type ReminderConfig struct {
	Enabled   bool          `yaml:"enabled"`
	DaysAhead []int         `yaml:"days_ahead"`
	Interval  time.Duration `yaml:"interval"`
	Sink      string        `yaml:"sink"` // log | kafka | mqtt
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

type InventoryConfig struct {
	Devices []DeviceSeed `yaml:"devices"`
}

type DeviceSeed struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	SerialNumber string `yaml:"serial_number"`
	Location     string `yaml:"location"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "postgres", Host: "127.0.0.1", Port: 5432, SSLMode: "disable"},
		Redis:    RedisConfig{DedupeTTL: 48 * time.Hour},
		HTTP:     HTTPConfig{Addr: ":3001"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
		Reminders: ReminderConfig{
			Enabled:   true,
			DaysAhead: []int{2, 1, 0},
			Interval:  24 * time.Hour,
			Sink:      "log",
		},
		Kafka: KafkaConfig{Topic: "rental.reminders"},
		MQTT:  MQTTConfig{ClientID: "device-rental", TopicPrefix: "rental/reminders", QoS: 1},
	}
}

// LoadEnv loads the first .env found in the working directory or its two parents.
// A missing file is not an error; the process environment is used as is.
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, p := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(p); err == nil {
			log.Printf("loaded environment from %s", p)
			return
		}
	}
}

// Load builds the configuration. path may be empty or point to a missing file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(k string, dst *string) {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	str("DB_DRIVER", &cfg.Database.Driver)
	str("DATABASE_URL", &cfg.Database.DSN)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)
	str("DB_SSLMODE", &cfg.Database.SSLMode)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	str("HTTP_ADDR", &cfg.HTTP.Addr)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("REMINDERS_SINK", &cfg.Reminders.Sink)
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("MQTT_BROKER", &cfg.MQTT.Broker)
	str("MQTT_CLIENT_ID", &cfg.MQTT.ClientID)
	str("MQTT_TOPIC_PREFIX", &cfg.MQTT.TopicPrefix)

	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Addr = ":" + v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.Database.Port = n
	}
	if v := os.Getenv("REDIS_DEDUPE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REDIS_DEDUPE_TTL: %w", err)
		}
		cfg.Redis.DedupeTTL = d
	}
	if v := os.Getenv("REMINDERS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REMINDERS_ENABLED: %w", err)
		}
		cfg.Reminders.Enabled = b
	}
	if v := os.Getenv("REMINDERS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMINDERS_INTERVAL: %w", err)
		}
		cfg.Reminders.Interval = d
	}
	if v := os.Getenv("REMINDERS_DAYS_AHEAD"); v != "" {
		days, err := ParseDays(v)
		if err != nil {
			return fmt.Errorf("REMINDERS_DAYS_AHEAD: %w", err)
		}
		cfg.Reminders.DaysAhead = days
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	return nil
}

// ParseDays parses a CSV list of day offsets such as "2,1,0". Blank items are skipped.
func ParseDays(csv string) ([]int, error) {
	var days []int
	for _, s := range splitCSV(csv) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("bad day offset %q: %w", s, err)
		}
		days = append(days, n)
	}
	return days, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver: unsupported %q", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		return errors.New("database.dsn is required for sqlite")
	}
	for _, d := range c.Reminders.DaysAhead {
		if d < 0 {
			return fmt.Errorf("reminders.days_ahead: negative offset %d", d)
		}
	}
	if c.Reminders.Enabled && c.Reminders.Interval <= 0 {
		return errors.New("reminders.interval must be positive")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos: must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	// an empty sink means log, like the default
	switch c.Reminders.Sink {
	case "log", "":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return errors.New("kafka.brokers and kafka.topic are required for the kafka sink")
		}
	case "mqtt":
		if c.MQTT.Broker == "" {
			return errors.New("mqtt.broker is required for the mqtt sink")
		}
	default:
		return fmt.Errorf("reminders.sink: unsupported %q", c.Reminders.Sink)
	}
	return nil
}

// PostgresDSN renders the discrete fields when no DSN is given.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}
