// Package config provides structures and utilities for managing the
// application configuration: compiled-in defaults, the embedded YAML file,
// and environment variable overrides, merged in that order.
package config

import (
	"github.com/shopseed/shopseed/pkg/database"
)

// EmbeddedConfig holds the content of the configuration file, typically
// passed from main.go via go:embed.
type EmbeddedConfig []byte

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone is the application timezone. Generation always works in UTC;
	// this only affects log output.
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// StorageConfig selects the storage backend used by the export job.
type StorageConfig struct {
	// Type is the storage provider type (currently "local").
	Type string `yaml:"type"`
	// Path is the base directory for the local provider.
	Path string `yaml:"path"`
}

// MetricsConfig controls the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// ListenAddress exposes /metrics over HTTP when non-empty (e.g. ":9090").
	ListenAddress string `yaml:"listen_address"`
}

// AgeGroupConfig is one weighted age bracket for customer generation.
type AgeGroupConfig struct {
	MinAge int     `yaml:"min_age"`
	MaxAge int     `yaml:"max_age"`
	Weight float64 `yaml:"weight"`
}

// CustomersConfig drives the customer generator.
type CustomersConfig struct {
	Count           int                 `yaml:"count"`
	BatchSize       int                 `yaml:"batch_size"`
	CountryWeights  map[string]float64  `yaml:"country_weights"`
	AgeGroups       []AgeGroupConfig    `yaml:"age_groups"`
	CitiesByCountry map[string][]string `yaml:"cities_by_country"`
}

// OrdersConfig drives the order generator.
type OrdersConfig struct {
	// MinTotalOrders tops up the per-customer plan until at least this many
	// orders exist; 0 disables the floor.
	MinTotalOrders     int             `yaml:"min_total_orders"`
	PerCustomerWeights map[int]float64 `yaml:"per_customer_weights"`
	// StartDate is inclusive, EndDate exclusive; format 2006-01-02.
	StartDate       string  `yaml:"start_date"`
	EndDate         string  `yaml:"end_date"`
	DeliveredWeight float64 `yaml:"delivered_weight"`
	CancelledWeight float64 `yaml:"cancelled_weight"`
	BatchSize       int     `yaml:"batch_size"`
}

// OrderItemsConfig drives the order-item generator.
type OrderItemsConfig struct {
	CartSizeWeights       map[int]float64    `yaml:"cart_size_weights"`
	QuantityWeights       map[int]float64    `yaml:"quantity_weights"`
	CategoryWeights       map[string]float64 `yaml:"category_weights"`
	DefaultCategoryWeight float64            `yaml:"default_category_weight"`
	ClearExisting         bool               `yaml:"clear_existing"`
	BatchSize             int                `yaml:"batch_size"`
}

// MethodConfig describes one payment method's simulation behavior.
type MethodConfig struct {
	Code               string  `yaml:"code"`
	Weight             float64 `yaml:"weight"`
	MaxAttempts        int     `yaml:"max_attempts"`
	StayWithMethodProb float64 `yaml:"stay_with_method_prob"`
	SuccessRate        float64 `yaml:"success_rate"`
}

// PaymentsConfig drives the payment attempt simulator.
type PaymentsConfig struct {
	GlobalMaxAttempts   int             `yaml:"global_max_attempts"`
	AttemptCountWeights map[int]float64 `yaml:"attempt_count_weights"`
	WindowSeconds       int64           `yaml:"window_seconds"`
	// Methods is ordered; the order fixes every weighted draw sequence.
	Methods       []MethodConfig `yaml:"methods"`
	ClearExisting bool           `yaml:"clear_existing"`
	BatchSize     int            `yaml:"batch_size"`
}

// ReturnsConfig drives the product-return generator.
type ReturnsConfig struct {
	// OrderLevelReturnRate is the base probability that an order has at least
	// one returned item, before the country multiplier.
	OrderLevelReturnRate    float64                       `yaml:"order_level_return_rate"`
	CountryMultipliers      map[string]float64            `yaml:"country_multipliers"`
	CategoryItemReturnRates map[string]float64            `yaml:"category_item_return_rates"`
	CategoryReasonWeights   map[string]map[string]float64 `yaml:"category_reason_weights"`
	MaxItemsPerOrder        int                           `yaml:"max_items_per_order"`
	ReturnMinDays           int                           `yaml:"return_min_days"`
	ReturnMaxDays           int                           `yaml:"return_max_days"`
	ClearExisting           bool                          `yaml:"clear_existing"`
	BatchSize               int                           `yaml:"batch_size"`
}

// GeneratorConfig groups the per-job tunables.
type GeneratorConfig struct {
	Customers  CustomersConfig  `yaml:"customers"`
	Orders     OrdersConfig     `yaml:"orders"`
	OrderItems OrderItemsConfig `yaml:"order_items"`
	Payments   PaymentsConfig   `yaml:"payments"`
	Returns    ReturnsConfig    `yaml:"returns"`
}

// ShopseedConfig holds all configuration under the "shopseed" top-level key.
type ShopseedConfig struct {
	System SystemConfig `yaml:"system"`
	// Seed is the single seed for the run's random source.
	Seed int64 `yaml:"seed"`
	// Jobs is the ordered list of job names to run.
	Jobs      []string        `yaml:"jobs"`
	Database  database.Config `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Generator GeneratorConfig `yaml:"generator"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	Shopseed ShopseedConfig `yaml:"shopseed"`
	// EmbeddedConfig holds configuration loaded from an embedded source, not from YAML.
	EmbeddedConfig EmbeddedConfig `yaml:"-"`
}

// NewConfig returns a new instance of Config with default values. The
// defaults reproduce the reference dataset exactly when run with an empty
// configuration file.
func NewConfig() *Config {
	return &Config{
		Shopseed: ShopseedConfig{
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: "INFO"},
			},
			Seed: 42,
			Jobs: []string{"migrate", "customers", "orders", "order_items", "payments", "returns"},
			Database: database.Config{
				Type:     "mysql",
				Host:     "localhost",
				Port:     3306,
				Database: "ecommerce_db",
				User:     "root",
				Sslmode:  "disable",
				Pool: database.PoolConfig{
					MaxOpenConns:           10,
					MaxIdleConns:           5,
					ConnMaxLifetimeMinutes: 30,
				},
			},
			Storage: StorageConfig{
				Type: "local",
				Path: "./exports",
			},
			Metrics: MetricsConfig{Enabled: false},
			Generator: GeneratorConfig{
				Customers: CustomersConfig{
					Count:     10000,
					BatchSize: 1000,
					CountryWeights: map[string]float64{
						"PT": 25, "ES": 15, "FR": 12, "DE": 10, "IT": 10,
						"NL": 6, "BE": 4, "GR": 4, "HR": 4, "IE": 10,
					},
					AgeGroups: []AgeGroupConfig{
						{MinAge: 18, MaxAge: 29, Weight: 40},
						{MinAge: 30, MaxAge: 64, Weight: 50},
						{MinAge: 65, MaxAge: 80, Weight: 10},
					},
					CitiesByCountry: map[string][]string{
						"PT": {"Lisboa", "Porto", "Braga", "Coimbra", "Faro", "Aveiro", "Guimaraes", "Evora", "Leiria", "Setubal"},
						"ES": {"Madrid", "Barcelona", "Valencia", "Seville", "Bilbao", "Malaga", "Zaragoza", "Murcia", "Palma de Mallorca", "Valladolid"},
						"FR": {"Paris", "Marseille", "Lyon", "Toulouse", "Nice", "Nantes", "Strasbourg", "Montpellier", "Bordeaux", "Lille"},
						"DE": {"Berlin", "Munich", "Hamburg", "Cologne", "Frankfurt", "Stuttgart", "Dusseldorf", "Dresden", "Leipzig", "Hanover"},
						"IT": {"Rome", "Milan", "Naples", "Turin", "Bologna", "Florence", "Genoa", "Venice", "Verona", "Palermo"},
						"IE": {"Dublin", "Cork", "Limerick", "Galway", "Waterford", "Kilkenny", "Sligo", "Wexford", "Athlone", "Drogheda"},
						"NL": {"Amsterdam", "Rotterdam", "The Hague", "Utrecht", "Eindhoven", "Tilburg", "Groningen", "Breda", "Nijmegen", "Maastricht"},
						"BE": {"Brussels", "Antwerp", "Ghent", "Liege", "Bruges", "Namur", "Leuven", "Mons", "Mechelen", "Ostend"},
						"GR": {"Athens", "Thessaloniki", "Patras", "Heraklion", "Larissa", "Volos", "Ioannina", "Kavala", "Kalamata", "Chania"},
						"HR": {"Zagreb", "Split", "Rijeka", "Osijek", "Zadar", "Pula", "Dubrovnik", "Slavonski Brod", "Karlovac", "Varazdin"},
					},
				},
				Orders: OrdersConfig{
					MinTotalOrders:     18000,
					PerCustomerWeights: map[int]float64{0: 5, 1: 40, 2: 30, 3: 20, 4: 10},
					StartDate:          "2023-01-01",
					EndDate:            "2025-08-01",
					DeliveredWeight:    85,
					CancelledWeight:    15,
					BatchSize:          10000,
				},
				OrderItems: OrderItemsConfig{
					CartSizeWeights: map[int]float64{1: 40, 2: 30, 3: 15, 4: 10, 5: 4, 6: 1},
					QuantityWeights: map[int]float64{1: 75, 2: 18, 3: 5, 4: 2},
					CategoryWeights: map[string]float64{
						"Electronics": 1.25, "Fashion": 1.10, "Home & Kitchen": 1.40,
						"Beauty & Personal Care": 1.20, "Sports & Fitness": 1.00,
						"Books": 0.90, "Toys": 0.95, "Gardening": 0.80,
						"Automotive": 1.05, "Pet Supplies": 1.10,
					},
					DefaultCategoryWeight: 1.0,
					ClearExisting:         true,
					BatchSize:             20000,
				},
				Payments: PaymentsConfig{
					GlobalMaxAttempts:   4,
					AttemptCountWeights: map[int]float64{1: 45, 2: 32, 3: 18, 4: 5},
					WindowSeconds:       48 * 60 * 60,
					Methods: []MethodConfig{
						{Code: "card", Weight: 0.58, MaxAttempts: 3, StayWithMethodProb: 0.68, SuccessRate: 0.62},
						{Code: "paypal", Weight: 0.18, MaxAttempts: 3, StayWithMethodProb: 0.55, SuccessRate: 0.56},
						{Code: "mbway", Weight: 0.18, MaxAttempts: 3, StayWithMethodProb: 0.60, SuccessRate: 0.50},
						{Code: "bank_transfer", Weight: 0.06, MaxAttempts: 2, StayWithMethodProb: 0.35, SuccessRate: 0.35},
					},
					ClearExisting: true,
					BatchSize:     20000,
				},
				Returns: ReturnsConfig{
					OrderLevelReturnRate: 0.40,
					CountryMultipliers: map[string]float64{
						"PT": 1.00, "ES": 0.90, "FR": 1.10, "DE": 1.20, "IT": 0.80,
						"NL": 0.95, "BE": 1.00, "GR": 0.85, "HR": 1.10, "IE": 1.25,
					},
					CategoryItemReturnRates: map[string]float64{
						"Electronics": 0.20, "Fashion": 0.35, "Home & Kitchen": 0.10,
						"Beauty & Personal Care": 0.07, "Sports & Fitness": 0.12,
						"Books": 0.04, "Toys": 0.11, "Gardening": 0.08,
						"Automotive": 0.09, "Pet Supplies": 0.07,
					},
					CategoryReasonWeights: map[string]map[string]float64{
						"Electronics":            {"damaged": 0.28, "not_as_described": 0.34, "late": 0.08, "change_of_mind": 0.22, "other": 0.08},
						"Fashion":                {"damaged": 0.07, "not_as_described": 0.26, "late": 0.07, "change_of_mind": 0.53, "other": 0.07},
						"Home & Kitchen":         {"damaged": 0.22, "not_as_described": 0.27, "late": 0.10, "change_of_mind": 0.31, "other": 0.10},
						"Beauty & Personal Care": {"damaged": 0.24, "not_as_described": 0.20, "late": 0.09, "change_of_mind": 0.37, "other": 0.10},
						"Sports & Fitness":       {"damaged": 0.20, "not_as_described": 0.25, "late": 0.10, "change_of_mind": 0.35, "other": 0.10},
						"Books":                  {"damaged": 0.35, "not_as_described": 0.15, "late": 0.10, "change_of_mind": 0.30, "other": 0.10},
						"Toys":                   {"damaged": 0.22, "not_as_described": 0.23, "late": 0.10, "change_of_mind": 0.35, "other": 0.10},
						"Gardening":              {"damaged": 0.23, "not_as_described": 0.22, "late": 0.12, "change_of_mind": 0.33, "other": 0.10},
						"Automotive":             {"damaged": 0.15, "not_as_described": 0.45, "late": 0.07, "change_of_mind": 0.25, "other": 0.08},
						"Pet Supplies":           {"damaged": 0.20, "not_as_described": 0.22, "late": 0.08, "change_of_mind": 0.40, "other": 0.10},
					},
					MaxItemsPerOrder: 5,
					ReturnMinDays:    3,
					ReturnMaxDays:    30,
					ClearExisting:    true,
					BatchSize:        20000,
				},
			},
		},
	}
}
