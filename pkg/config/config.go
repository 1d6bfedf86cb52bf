// Package config loads the simulator configuration from a JSON file through
// viper, with environment variable overrides under the BROKERSIM prefix.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/quantlab-fx/brokersim/pkg/datasource"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

type Config struct {
	Symbols   []string
	Timeframe string
	From      time.Time
	To        time.Time

	Deposit  fixed.Point
	Currency string
	Leverage int64

	Modelling datasource.Modelling

	DataDir     string
	JournalPath string

	PushoverUser   string
	PushoverToken  string
	PushoverDevice string

	LogDir      string
	Development bool
}

// Load reads the configuration file at path. Environment variables of the
// form BROKERSIM_SECTION_KEY override file values, e.g. BROKERSIM_ACCOUNT_DEPOSIT.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("BROKERSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("simulation.timeframe", "1m")
	v.SetDefault("simulation.modelling", datasource.RealTicks.String())
	v.SetDefault("account.currency", "USD")
	v.SetDefault("account.leverage", "1:100")
	v.SetDefault("log.dir", "logs")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		Symbols:        v.GetStringSlice("simulation.symbols"),
		Timeframe:      v.GetString("simulation.timeframe"),
		Currency:       v.GetString("account.currency"),
		DataDir:        v.GetString("data.dir"),
		JournalPath:    v.GetString("data.journal"),
		PushoverUser:   v.GetString("notify.pushover_user"),
		PushoverToken:  v.GetString("notify.pushover_token"),
		PushoverDevice: v.GetString("notify.pushover_device"),
		LogDir:         v.GetString("log.dir"),
		Development:    v.GetBool("log.development"),
	}

	var err error
	if cfg.From, err = parseDate(v.GetString("simulation.from")); err != nil {
		return Config{}, fmt.Errorf("simulation.from: %w", err)
	}
	if cfg.To, err = parseDate(v.GetString("simulation.to")); err != nil {
		return Config{}, fmt.Errorf("simulation.to: %w", err)
	}
	if cfg.Modelling, err = datasource.ParseModelling(v.GetString("simulation.modelling")); err != nil {
		return Config{}, fmt.Errorf("simulation.modelling: %w", err)
	}
	if cfg.Deposit, err = fixed.FromString(v.GetString("account.deposit")); err != nil {
		return Config{}, fmt.Errorf("account.deposit: %w", err)
	}
	if cfg.Leverage, err = parseLeverage(v.GetString("account.leverage")); err != nil {
		return Config{}, fmt.Errorf("account.leverage: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("simulation.symbols must not be empty")
	}
	if !c.From.Before(c.To) {
		return errors.New("simulation.from must precede simulation.to")
	}
	if !c.Deposit.IsPos() {
		return errors.New("account.deposit must be positive")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing value")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseLeverage accepts the broker notation "1:N".
func parseLeverage(s string) (int64, error) {
	ratio, ok := strings.CutPrefix(s, "1:")
	if !ok {
		return 0, fmt.Errorf("leverage %q must use the form 1:N", s)
	}
	n, err := strconv.ParseInt(ratio, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("leverage %q must use the form 1:N", s)
	}
	return n, nil
}
