package dispatch

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/config"
	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/scoring"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/window"
)

type SampleMode = config.SampleMode

const (
	defaultWorkers         = 4
	defaultProviderTimeout = 10 * time.Second
	defaultDeliveryTimeout = 10 * time.Second
)

// Config is the per-process dispatch configuration. One scoring and one
// window policy apply to every location of a cycle.
type Config struct {
	Scoring         scoring.Policy
	Window          window.Policy
	SampleMode      SampleMode
	Workers         int
	ProviderTimeout time.Duration
	DeliveryTimeout time.Duration
	Dedupe          bool
	KeyPrefixes     []string
}

func DefaultConfig() Config {
	return Config{
		Scoring:         scoring.DefaultPolicy(),
		Window:          window.DefaultPolicy(),
		SampleMode:      config.SampleModeHourly,
		Workers:         defaultWorkers,
		ProviderTimeout: defaultProviderTimeout,
		DeliveryTimeout: defaultDeliveryTimeout,
		Dedupe:          true,
		KeyPrefixes:     []string{domain.EmailKeyPrefix, domain.PushKeyPrefix},
	}
}

// ConfigFromSettings translates the environment settings into policies.
func ConfigFromSettings(cfg *config.DispatchConfig) (Config, error) {
	c := DefaultConfig()
	c.Scoring = scoring.Policy{
		Fourth:   domain.ComponentKind(cfg.FourthComponent),
		Fifth:    domain.ComponentKind(cfg.FifthComponent),
		Aerosol:  scoring.AerosolPolicy(cfg.AerosolPolicy),
		Rounding: scoring.Rounding(cfg.Rounding),
	}
	c.Window = window.Policy{
		Threshold: cfg.Threshold,
		Lead:      cfg.NotifyWindow(),
		Offsets:   window.OffsetPolicy(cfg.OffsetPolicy),
	}
	c.SampleMode = cfg.SampleMode
	c.Workers = cfg.Workers
	c.ProviderTimeout = cfg.ProviderTimeout
	c.DeliveryTimeout = cfg.DeliveryTimeout
	c.Dedupe = cfg.Dedupe

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	if err := c.Window.Validate(); err != nil {
		return err
	}
	if c.SampleMode != config.SampleModeHourly && c.SampleMode != config.SampleModeCurrent {
		return fmt.Errorf("%w: unknown sample mode %q", domain.ErrInvalidInput, c.SampleMode)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidInput)
	}
	if c.ProviderTimeout <= 0 || c.DeliveryTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", domain.ErrInvalidInput)
	}
	if len(c.KeyPrefixes) == 0 {
		return fmt.Errorf("%w: no subscriber key prefixes", domain.ErrInvalidInput)
	}
	return nil
}
