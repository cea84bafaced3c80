package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Configuration holds the SDK settings. Every field has a default; hosts
// normally only override the user agent pieces.
type Configuration struct {
	// Endpoint is the availability-check URL.
	Endpoint string `mapstructure:"endpoint"`
	// RequestTimeout bounds the availability request/response cycle.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// ConnectivityPollPeriod is the presentation connectivity poll interval.
	ConnectivityPollPeriod time.Duration `mapstructure:"connectivity_poll_period"`
	// UserAgent identifies the client on availability requests.
	UserAgent string    `mapstructure:"user_agent"`
	Geo       Geo       `mapstructure:"geo"`
	DataCache DataCache `mapstructure:"datacache"`
}

// Geo configures postal code resolution.
type Geo struct {
	// Country is the ISO country code a reverse-geocoded address must match.
	Country string `mapstructure:"country"`
	// Freshness is how long a cached postal code stays valid.
	Freshness time.Duration `mapstructure:"freshness"`
}

// DataCache configures the durable cache area.
type DataCache struct {
	// Directory is the cache directory under the host's cache area.
	Directory string `mapstructure:"directory"`
}

func (cfg *Configuration) validate() error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("config: endpoint must not be empty")
	}
	if cfg.ConnectivityPollPeriod <= 0 {
		return fmt.Errorf("config: connectivity_poll_period must be positive")
	}
	return nil
}

// New unmarshals and validates a Configuration from v.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetupViper establishes the SDK defaults on v.
func SetupViper(v *viper.Viper) {
	v.SetDefault("endpoint", "https://surveywall-api.survata.com/rest/interview-check/create")
	v.SetDefault("request_timeout", 20*time.Second)
	v.SetDefault("connectivity_poll_period", 2*time.Second)
	v.SetDefault("user_agent", "Survata/Go")
	v.SetDefault("geo.country", "US")
	v.SetDefault("geo.freshness", 24*time.Hour)
	v.SetDefault("datacache.directory", "survata")
	v.SetEnvPrefix("SURVATA")
	v.AutomaticEnv()
}

// NewDefault returns the default Configuration.
func NewDefault() *Configuration {
	v := viper.New()
	SetupViper(v)
	cfg, err := New(v)
	if err != nil {
		// defaults always validate
		panic(err)
	}
	return cfg
}
