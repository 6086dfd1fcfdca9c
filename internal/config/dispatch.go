package config

import (
	"os"
	"strconv"
	"time"
)

const (
	scoreThresholdEnv         = "SCORE_THRESHOLD"
	notifyWindowMinutesEnv    = "NOTIFY_WINDOW_MINUTES"
	scoreRoundingEnv          = "SCORE_ROUNDING"
	scoreSampleModeEnv        = "SCORE_SAMPLE_MODE"
	scoreFourthComponentEnv   = "SCORE_FOURTH_COMPONENT"
	scoreFifthComponentEnv    = "SCORE_FIFTH_COMPONENT"
	aerosolPolicyEnv          = "AEROSOL_POLICY"
	dispatchWorkersEnv        = "DISPATCH_WORKERS"
	providerTimeoutEnv        = "PROVIDER_TIMEOUT"
	deliveryTimeoutEnv        = "DELIVERY_TIMEOUT"
	notifyDedupeEnv           = "NOTIFY_DEDUPE"
	fractionalOffsetPolicyEnv = "FRACTIONAL_OFFSET_POLICY"

	defaultScoreThreshold      = 80.0
	defaultNotifyWindowMinutes = 15
	defaultScoreRounding       = "fractional"
	defaultScoreSampleMode     = "hourly"
	defaultFourthComponent     = "pressure"
	defaultFifthComponent      = "aerosol"
	defaultAerosolPolicy       = "piecewise"
	defaultDispatchWorkers     = 4
	defaultProviderTimeout     = 10 * time.Second
	defaultDeliveryTimeout     = 10 * time.Second
	defaultOffsetPolicy        = "exact"
)

type SampleMode string

const (
	SampleModeHourly  SampleMode = "hourly"
	SampleModeCurrent SampleMode = "current"
)

type DispatchConfig struct {
	Threshold           float64
	NotifyWindowMinutes int
	Rounding            string
	SampleMode          SampleMode
	FourthComponent     string
	FifthComponent      string
	AerosolPolicy       string
	Workers             int
	ProviderTimeout     time.Duration
	DeliveryTimeout     time.Duration
	Dedupe              bool
	OffsetPolicy        string
}

func LoadDispatchConfig() *DispatchConfig {
	threshold := defaultScoreThreshold
	if raw := os.Getenv(scoreThresholdEnv); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = parsed
		}
	}

	sampleMode := SampleMode(getEnvOrDefault(scoreSampleModeEnv, defaultScoreSampleMode))
	if sampleMode != SampleModeHourly && sampleMode != SampleModeCurrent {
		sampleMode = defaultScoreSampleMode
	}

	return &DispatchConfig{
		Threshold:           threshold,
		NotifyWindowMinutes: positiveInt(notifyWindowMinutesEnv, defaultNotifyWindowMinutes),
		Rounding:            getEnvOrDefault(scoreRoundingEnv, defaultScoreRounding),
		SampleMode:          sampleMode,
		FourthComponent:     getEnvOrDefault(scoreFourthComponentEnv, defaultFourthComponent),
		FifthComponent:      getEnvOrDefault(scoreFifthComponentEnv, defaultFifthComponent),
		AerosolPolicy:       getEnvOrDefault(aerosolPolicyEnv, defaultAerosolPolicy),
		Workers:             positiveInt(dispatchWorkersEnv, defaultDispatchWorkers),
		ProviderTimeout:     positiveDuration(providerTimeoutEnv, defaultProviderTimeout),
		DeliveryTimeout:     positiveDuration(deliveryTimeoutEnv, defaultDeliveryTimeout),
		Dedupe:              boolOrDefault(notifyDedupeEnv, true),
		OffsetPolicy:        getEnvOrDefault(fractionalOffsetPolicyEnv, defaultOffsetPolicy),
	}
}

func (c *DispatchConfig) NotifyWindow() time.Duration {
	return time.Duration(c.NotifyWindowMinutes) * time.Minute
}
