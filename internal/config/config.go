// Package config loads the server and client run configuration: the port,
// invocation semantics, loss-simulator rate, and PRNG seed named in the
// external CLI interface. Precedence follows the teacher's convention —
// flags, then FACILITYRESV_* environment variables, then defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/arvindgk/facilityresv/internal/codec"
)

// ServerConfig is the server's run configuration.
type ServerConfig struct {
	Port      int     `mapstructure:"port" validate:"gte=1,lte=65535"`
	Semantics uint8   `mapstructure:"-"`
	LossRate  float64 `mapstructure:"loss_rate" validate:"gte=0,lte=1"`
	Seed      int64   `mapstructure:"seed"`
}

// ClientConfig is the client's run configuration.
type ClientConfig struct {
	Host      string
	Port      int     `mapstructure:"port" validate:"gte=1,lte=65535"`
	Semantics uint8   `mapstructure:"-"`
	LossRate  float64 `mapstructure:"loss_rate" validate:"gte=0,lte=1"`
	Seed      int64   `mapstructure:"seed"`
}

// ParseSemantics maps a case-insensitive semantics token to its wire
// value, per §6: `semantics ∈ {AMO,ALO}`, default AMO.
func ParseSemantics(token string) (uint8, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "", "AMO":
		return codec.SemanticsAMO, nil
	case "ALO":
		return codec.SemanticsALO, nil
	default:
		return 0, fmt.Errorf("unrecognized semantics %q, want AMO or ALO", token)
	}
}

// SemanticsName renders a semantics byte back to its token, for logging.
func SemanticsName(s uint8) string {
	if s == codec.SemanticsALO {
		return "ALO"
	}
	return "AMO"
}

// newViper builds the viper instance backing LoadServer and LoadClient;
// each call re-derives it from the process environment so tests can run with
// independent configuration.
func newViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	return v
}

// LoadServer builds a ServerConfig from explicit CLI values (already
// parsed by the cobra command), falling back to FACILITYRESV_* environment
// overrides and finally the §6 defaults (`5000 AMO 0.0 42`) for any flag
// the caller didn't explicitly set. The *Set flags come from
// cmd.Flags().Changed(...): a flag's zero value (seed=0, loss-rate=0.0) is
// a legitimate explicit override and must not be confused with "left
// unset", so precedence is decided by whether the flag was changed, not
// by comparing against its zero value.
func LoadServer(port int, portSet bool, semanticsToken string, lossRate float64, lossRateSet bool, seed int64, seedSet bool) (ServerConfig, error) {
	v := newViper("FACILITYRESV_SERVER")
	v.SetDefault("port", 5000)
	v.SetDefault("loss_rate", 0.0)
	v.SetDefault("seed", int64(42))

	if portSet {
		v.Set("port", port)
	}
	if lossRateSet {
		v.Set("loss_rate", lossRate)
	}
	if seedSet {
		v.Set("seed", seed)
	}

	if semanticsToken == "" {
		semanticsToken = v.GetString("semantics")
	}
	semantics, err := ParseSemantics(semanticsToken)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Port:      v.GetInt("port"),
		Semantics: semantics,
		LossRate:  v.GetFloat64("loss_rate"),
		Seed:      v.GetInt64("seed"),
	}, nil
}

// LoadClient builds a ClientConfig, following the same precedence as
// LoadServer but with the client's defaults (`127.0.0.1 5000 AMO 0.0 777`).
func LoadClient(host string, port int, portSet bool, semanticsToken string, lossRate float64, lossRateSet bool, seed int64, seedSet bool) (ClientConfig, error) {
	v := newViper("FACILITYRESV_CLIENT")
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 5000)
	v.SetDefault("loss_rate", 0.0)
	v.SetDefault("seed", int64(777))

	if host != "" {
		v.Set("host", host)
	}
	if portSet {
		v.Set("port", port)
	}
	if lossRateSet {
		v.Set("loss_rate", lossRate)
	}
	if seedSet {
		v.Set("seed", seed)
	}

	if semanticsToken == "" {
		semanticsToken = v.GetString("semantics")
	}
	semantics, err := ParseSemantics(semanticsToken)
	if err != nil {
		return ClientConfig{}, err
	}

	return ClientConfig{
		Host:      v.GetString("host"),
		Port:      v.GetInt("port"),
		Semantics: semantics,
		LossRate:  v.GetFloat64("loss_rate"),
		Seed:      v.GetInt64("seed"),
	}, nil
}
