package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env         string
	Address     string
	MetricsPort string
	HTTPServer  HTTPServer

	MySQLDSN     string
	RedisAddr    string
	KafkaBrokers string

	EventChannel string
	AuditTopic   string

	AdminToken string

	// StartingBalance is credited to a ledger created lazily on first
	// balance query or spin, in cents.
	StartingBalance int64
}

type HTTPServer struct {
	Timeout     time.Duration
	IdleTimeout time.Duration
}

func MustLoad() *Config {
	cfg := &Config{
		Env:         getEnv("ENV", "local"),
		Address:     getEnv("HTTP_ADDRESS", "localhost:8080"),
		MetricsPort: getEnv("METRICS_PORT", "9095"),
		HTTPServer: HTTPServer{
			Timeout:     getDuration("HTTP_TIMEOUT", 4*time.Second),
			IdleTimeout: getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		MySQLDSN:        getEnv("MYSQL_DSN", "root:123@tcp(localhost:3306)/casino?parseTime=True&loc=Local"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		EventChannel:    getEnv("EVENT_CHANNEL", "casino_events"),
		AuditTopic:      getEnv("KAFKA_TOPIC_SPIN_SETTLED", "casino.spin_settled"),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		StartingBalance: getInt64("STARTING_BALANCE_CENTS", 100000),
	}

	return cfg
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return def
}

func getInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}

	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
