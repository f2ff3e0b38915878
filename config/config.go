package config

import (
	"flag"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

// Configuration is read once from environment variables (SHOPLENS_* prefix),
// with flags overriding for local runs.
type Configuration struct {
	Env            string `envconfig:"ENV" default:"development"`
	Port           int    `envconfig:"PORT" default:"8080"`
	Seed           int64  `envconfig:"SEED" default:"42"`
	VisitsPerMonth int    `envconfig:"VISITS_PER_MONTH" default:"25000"`
	Months         int    `envconfig:"MONTHS" default:"2"`
	DemoDays       int    `envconfig:"DEMO_DAYS" default:"90"`
	CacheSize      int    `envconfig:"CACHE_SIZE" default:"64"`
	CatalogFile    string `envconfig:"CATALOG_FILE" default:""`
}

var configuration *Configuration = nil

var (
	env            = flag.String("env", "", "")
	port           = flag.Int("port", 0, "")
	seed           = flag.Int64("seed", 0, "")
	visitsPerMonth = flag.Int("visits_per_month", 0, "")
	months         = flag.Int("months", 0, "")
)

// Init loads configuration and sets up logging. Must be called once from
// main before any other package is used.
func Init() (*Configuration, error) {
	if configuration != nil {
		return configuration, nil
	}

	var conf Configuration
	if err := envconfig.Process("shoplens", &conf); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}
	applyFlagOverrides(&conf)

	if err := validate(&conf); err != nil {
		return nil, err
	}

	configuration = &conf
	initLogging()
	return configuration, nil
}

func applyFlagOverrides(conf *Configuration) {
	if !flag.Parsed() {
		flag.Parse()
	}
	if *env != "" {
		conf.Env = *env
	}
	if *port != 0 {
		conf.Port = *port
	}
	if *seed != 0 {
		conf.Seed = *seed
	}
	if *visitsPerMonth != 0 {
		conf.VisitsPerMonth = *visitsPerMonth
	}
	if *months != 0 {
		conf.Months = *months
	}
}

func validate(conf *Configuration) error {
	if conf.VisitsPerMonth < 0 {
		return errors.Errorf("invalid visits_per_month %d", conf.VisitsPerMonth)
	}
	if conf.Months < 0 {
		return errors.Errorf("invalid months %d", conf.Months)
	}
	if conf.DemoDays < 1 {
		return errors.Errorf("invalid demo_days %d", conf.DemoDays)
	}
	if conf.CacheSize < 1 {
		return errors.Errorf("invalid cache_size %d", conf.CacheSize)
	}
	return nil
}

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.DebugLevel)
	}
}

func Get() *Configuration {
	if configuration == nil {
		log.Fatal("config.Get called before config.Init")
	}
	return configuration
}

func IsDevelopment() bool {
	return configuration != nil && configuration.Env == DEVELOPMENT
}
