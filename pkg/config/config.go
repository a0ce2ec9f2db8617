package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DayOnlySame     = "same"
	DayOnlyPrevious = "previous"
)

type Config struct {
	ServiceName string `mapstructure:"service_name"`
	ServerPort  int    `mapstructure:"server_port"`
	LogLevel    string `mapstructure:"log_level"`

	DBDriver    string `mapstructure:"db_driver"`
	DatabaseURL string `mapstructure:"database_url"`

	SessionSecret string `mapstructure:"session_secret"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`

	KafkaBrokers []string `mapstructure:"-"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`

	ShopName       string `mapstructure:"shop_name"`
	ShopAddress    string `mapstructure:"shop_address"`
	Currency       string `mapstructure:"currency"`
	ReceiptWarning string `mapstructure:"receipt_warning"`
	ReceiptFooter  string `mapstructure:"receipt_footer"`

	Timezone              string `mapstructure:"timezone"`
	BusinessDayCutoffHour int    `mapstructure:"business_day_cutoff_hour"`
	DayOnlyPolicy         string `mapstructure:"day_only_policy"`

	SeedDemo bool `mapstructure:"seed_demo"`
}

// field: default value
var defaults = map[string]any{
	"service_name":             "pos",
	"server_port":              8080,
	"log_level":                "info",
	"db_driver":                DriverSQLite,
	"database_url":             "pos.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
	"session_secret":           "",
	"cookie_secure":            false,
	"kafka_brokers":            "",
	"kafka_topic":              "pos_events",
	"shop_name":                "Caffe Club M",
	"shop_address":             "",
	"currency":                 "RSD",
	"receipt_warning":          "Ovo nije fiskalni račun",
	"receipt_footer":           "Hvala!",
	"timezone":                 "Europe/Belgrade",
	"business_day_cutoff_hour": 15,
	"day_only_policy":          DayOnlySame,
	"seed_demo":                true,
}

// Load layers defaults, an optional JSON file named by POS_CONFIG_FILE and
// the environment. Environment wins.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for key, def := range defaults {
		v.SetDefault(key, def)
	}

	if path := os.Getenv("POS_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not unmarshal config: %w", err)
	}
	cfg.KafkaBrokers = CSV(v.GetString("kafka_brokers"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	switch c.DayOnlyPolicy {
	case DayOnlySame, DayOnlyPrevious:
	default:
		return fmt.Errorf("unsupported day_only_policy %q", c.DayOnlyPolicy)
	}
	if c.BusinessDayCutoffHour < 0 || c.BusinessDayCutoffHour > 23 {
		return fmt.Errorf("business_day_cutoff_hour out of range: %d", c.BusinessDayCutoffHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location never fails after Validate.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
