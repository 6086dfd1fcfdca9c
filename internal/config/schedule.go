package config

import (
	"os"
	"time"
)

const (
	dispatchScheduleEnv = "DISPATCH_SCHEDULE"
	scheduleTimezoneEnv = "SCHEDULE_TIMEZONE"
	schedulerEnabledEnv = "SCHEDULER_ENABLED"
	cycleTimeoutEnv     = "CYCLE_TIMEOUT"

	defaultDispatchSchedule = "*/15 * * * *"
	defaultScheduleTimezone = "UTC"
	defaultCycleTimeout     = 10 * time.Minute
)

type ScheduleConfig struct {
	Spec         string
	Timezone     string
	Enabled      bool
	CycleTimeout time.Duration
}

func LoadScheduleConfig() *ScheduleConfig {
	spec := os.Getenv(dispatchScheduleEnv)
	if spec == "" {
		spec = defaultDispatchSchedule
	}

	return &ScheduleConfig{
		Spec:         spec,
		Timezone:     getEnvOrDefault(scheduleTimezoneEnv, defaultScheduleTimezone),
		Enabled:      boolOrDefault(schedulerEnabledEnv, true),
		CycleTimeout: positiveDuration(cycleTimeoutEnv, defaultCycleTimeout),
	}
}
