package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "REDIS_ADDR", "REDIS_DB", "SCORE_THRESHOLD", "NOTIFY_WINDOW_MINUTES",
		"SCORE_SAMPLE_MODE", "DISPATCH_WORKERS", "PROVIDER_TIMEOUT", "NOTIFY_DEDUPE", "DISPATCH_SCHEDULE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Redis.Addr != defaultRedisAddr {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, defaultRedisAddr)
	}
	if cfg.Dispatch.Threshold != 80 {
		t.Errorf("Threshold = %v, want 80", cfg.Dispatch.Threshold)
	}
	if cfg.Dispatch.NotifyWindow() != 15*time.Minute {
		t.Errorf("NotifyWindow = %v, want 15m", cfg.Dispatch.NotifyWindow())
	}
	if cfg.Dispatch.SampleMode != SampleModeHourly {
		t.Errorf("SampleMode = %q, want hourly", cfg.Dispatch.SampleMode)
	}
	if !cfg.Dispatch.Dedupe {
		t.Error("Dedupe should default to true")
	}
	if cfg.Schedule.Spec != defaultDispatchSchedule {
		t.Errorf("Schedule.Spec = %q, want %q", cfg.Schedule.Spec, defaultDispatchSchedule)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCORE_THRESHOLD", "85")
	t.Setenv("DISPATCH_WORKERS", "not-a-number")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("SCORE_SAMPLE_MODE", "current")
	t.Setenv("NOTIFY_DEDUPE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Dispatch.Threshold != 85 {
		t.Errorf("Threshold = %v, want 85", cfg.Dispatch.Threshold)
	}
	if cfg.Dispatch.Workers != defaultDispatchWorkers {
		t.Errorf("Workers = %d, want fallback %d", cfg.Dispatch.Workers, defaultDispatchWorkers)
	}
	if cfg.Dispatch.ProviderTimeout != 3*time.Second {
		t.Errorf("ProviderTimeout = %v, want 3s", cfg.Dispatch.ProviderTimeout)
	}
	if cfg.Dispatch.SampleMode != SampleModeCurrent {
		t.Errorf("SampleMode = %q, want current", cfg.Dispatch.SampleMode)
	}
	if cfg.Dispatch.Dedupe {
		t.Error("Dedupe should be disabled")
	}
}

func TestLoadRedisConfig_InvalidDB(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")

	if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidRedisDB) {
		t.Fatalf("LoadRedisConfig() error = %v, want ErrInvalidRedisDB", err)
	}
}

func TestValidateForRun(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Redis:    &RedisConfig{Addr: "localhost:6379"},
			Dispatch: &DispatchConfig{Threshold: 80},
			Delivery: &DeliveryConfig{
				VAPIDPublicKey:  "pub",
				VAPIDPrivateKey: "priv",
				VAPIDSubject:    "mailto:ops@example.com",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing redis addr", mutate: func(c *Config) { c.Redis.Addr = "" }, wantErr: ErrRedisAddrMissing},
		{name: "threshold too high", mutate: func(c *Config) { c.Dispatch.Threshold = 120 }, wantErr: ErrInvalidThreshold},
		{name: "half vapid pair", mutate: func(c *Config) { c.Delivery.VAPIDPrivateKey = "" }, wantErr: ErrVAPIDKeysMissing},
		{name: "vapid without subject", mutate: func(c *Config) { c.Delivery.VAPIDSubject = "" }, wantErr: ErrVAPIDSubjectMissing},
		{
			name: "mailjet without sender",
			mutate: func(c *Config) {
				c.Delivery.MailjetPublicKey = "k"
				c.Delivery.MailjetPrivateKey = "s"
			},
			wantErr: ErrEmailSenderMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateForRun(cfg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateForRun() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateForRun() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
