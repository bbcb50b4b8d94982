package config

// Config holds the application settings read from the environment. CLI
// flags override individual fields after Load.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default location
	// under the data directory.
	DBPath string `env:"LISTENQUEST_DB"`

	// User is the learner id analytics are recorded under.
	User string `env:"LISTENQUEST_USER" envDefault:"learner"`

	// LogMode is "dev", "prod" or "off".
	LogMode string `env:"LISTENQUEST_LOG_MODE" envDefault:"dev"`

	// LogFile receives log output. Empty means <data dir>/listenquest.log.
	LogFile string `env:"LISTENQUEST_LOG_FILE"`

	// OTelEndpoint enables OTLP/HTTP trace export when set, e.g.
	// http://localhost:4318.
	OTelEndpoint string `env:"LISTENQUEST_OTEL_ENDPOINT"`

	// Speed is the initial narration speed: normal, slow or slower.
	Speed string `env:"LISTENQUEST_SPEED" envDefault:"normal"`

	// EnforceReplays caps replays at each step's maxReplays.
	EnforceReplays bool `env:"LISTENQUEST_ENFORCE_REPLAYS" envDefault:"false"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
