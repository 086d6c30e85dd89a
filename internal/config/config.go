package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	Storage   string
	DB        DB
	Mongo     Mongo
	Redis     Redis
	Kafka     Kafka
	RateLimit RateLimit
	Pprof     Pprof
	CORS      CORS
	Delivery  Delivery
	Gateway   Gateway
}

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Mongo stores MongoDB settings, used when Storage is "mongo".
type Mongo struct {
	URI      string
	Database string
}

// Redis stores delivery cache settings; an empty Addr disables the cache.
type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Kafka stores broker settings; no brokers disables messaging.
type Kafka struct {
	Brokers       []string
	GroupID       string
	OrdersTopic   string
	DeliveryTopic string
}

// RateLimit stores per-IP token bucket settings.
// Rate and Burst apply to reads, WriteRate and WriteBurst to state changes.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	WriteRate  float64
	WriteBurst int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores debug server settings; an empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// CORS stores allowed browser origins.
type CORS struct {
	Origins []string
}

// Delivery stores business-layer settings.
type Delivery struct {
	OperationTimeout time.Duration
}

// Gateway stores operator console client settings.
type Gateway struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	// ResolveDelay is the first wait before re-reading a delivery after order confirmation.
	ResolveDelay    time.Duration
	ResolveAttempts int
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		LogLevel:  defaultLogLevel,
		Storage:   StoragePostgres,
		DB:        defaultDB,
		Mongo:     defaultMongo,
		Redis:     defaultRedis,
		Kafka:     defaultKafka,
		RateLimit: defaultRateLimit,
		CORS:      CORS{Origins: append([]string(nil), defaultOrigins...)},
		Delivery:  defaultDelivery,
		Gateway:   defaultGateway,
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: postgres or mongo")
	fs.StringVar(&cfg.Gateway.BaseURL, "api", cfg.Gateway.BaseURL, "delivery API base URL (console)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Storage = strings.ToLower(envString("STORAGE", cfg.Storage))

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)

	cfg.Mongo.URI = envString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.Database = envString("MONGO_DB", cfg.Mongo.Database)

	cfg.Redis.Addr = envString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envString("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = envInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.Redis.TTL, err = envDuration("REDIS_TTL", cfg.Redis.TTL); err != nil {
		return err
	}

	cfg.Kafka.Brokers = envList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.GroupID = envString("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = envString("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.DeliveryTopic = envString("KAFKA_DELIVERY_TOPIC", cfg.Kafka.DeliveryTopic)

	if cfg.RateLimit.Enabled, err = envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled); err != nil {
		return err
	}
	if cfg.RateLimit.Rate, err = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate); err != nil {
		return err
	}
	if cfg.RateLimit.Burst, err = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst); err != nil {
		return err
	}
	if cfg.RateLimit.WriteRate, err = envFloat("RATE_LIMIT_WRITE_RATE", cfg.RateLimit.WriteRate); err != nil {
		return err
	}
	if cfg.RateLimit.WriteBurst, err = envInt("RATE_LIMIT_WRITE_BURST", cfg.RateLimit.WriteBurst); err != nil {
		return err
	}
	if cfg.RateLimit.TTL, err = envDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL); err != nil {
		return err
	}
	if cfg.RateLimit.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets); err != nil {
		return err
	}

	cfg.Pprof.Addr = envString("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = envString("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = envString("PPROF_PASS", cfg.Pprof.Pass)

	cfg.CORS.Origins = envList("CORS_ORIGINS", cfg.CORS.Origins)

	if cfg.Delivery.OperationTimeout, err = envDuration("DELIVERY_OPERATION_TIMEOUT", cfg.Delivery.OperationTimeout); err != nil {
		return err
	}

	cfg.Gateway.BaseURL = envString("DELIVERY_API_URL", cfg.Gateway.BaseURL)
	if cfg.Gateway.RequestTimeout, err = envDuration("DELIVERY_API_TIMEOUT", cfg.Gateway.RequestTimeout); err != nil {
		return err
	}
	if cfg.Gateway.MaxAttempts, err = envInt("DELIVERY_API_MAX_ATTEMPTS", cfg.Gateway.MaxAttempts); err != nil {
		return err
	}
	if cfg.Gateway.ResolveDelay, err = envDuration("DELIVERY_RESOLVE_DELAY", cfg.Gateway.ResolveDelay); err != nil {
		return err
	}
	if cfg.Gateway.ResolveAttempts, err = envInt("DELIVERY_RESOLVE_ATTEMPTS", cfg.Gateway.ResolveAttempts); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Storage {
	case StoragePostgres:
	case StorageMongo:
		if strings.TrimSpace(c.Mongo.URI) == "" {
			return fmt.Errorf("MONGO_URI is required for mongo storage")
		}
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage)
	}
	if c.Gateway.MaxAttempts <= 0 {
		return fmt.Errorf("invalid gateway max attempts: %d", c.Gateway.MaxAttempts)
	}
	if c.Gateway.ResolveAttempts <= 0 {
		return fmt.Errorf("invalid resolve attempts: %d", c.Gateway.ResolveAttempts)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
