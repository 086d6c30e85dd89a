package config

import "time"

const (
	defaultPort     = 8080
	defaultLogLevel = "info"
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "agrimarket",
	Pass: "agrimarket",
	Name: "agrimarket_delivery",
}

var defaultMongo = Mongo{
	Database: "agrimarket",
}

var defaultRedis = Redis{
	TTL: 30 * time.Second,
}

var defaultKafka = Kafka{
	GroupID:       "service-delivery",
	OrdersTopic:   "marketplace.orders",
	DeliveryTopic: "delivery.status",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       20,
	Burst:      40,
	WriteRate:  5,
	WriteBurst: 10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

var defaultDelivery = Delivery{
	OperationTimeout: 3 * time.Second,
}

var defaultGateway = Gateway{
	BaseURL:         "http://localhost:8080",
	RequestTimeout:  10 * time.Second,
	MaxAttempts:     3,
	BaseDelay:       200 * time.Millisecond,
	MaxDelay:        2 * time.Second,
	ResolveDelay:    1500 * time.Millisecond,
	ResolveAttempts: 4,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultDelivery returns the default delivery settings.
func DefaultDelivery() Delivery {
	return defaultDelivery
}

// DefaultGateway returns the default console gateway settings.
func DefaultGateway() Gateway {
	return defaultGateway
}
