package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-sunset-notification/internal/scheduler"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

// CheckResult is the health of a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	LastCycle *scheduler.CycleStatus `json:"last_cycle,omitempty"`
}

// CycleReporter exposes the outcome of the most recent dispatch cycle.
type CycleReporter interface {
	LastCycle() (scheduler.CycleStatus, bool)
}

type Checker struct {
	redisClient redis.UniversalClient
	cycles      CycleReporter
	version     string
}

func NewChecker(redisClient redis.UniversalClient, cycles CycleReporter, version string) *Checker {
	return &Checker{
		redisClient: redisClient,
		cycles:      cycles,
		version:     version,
	}
}

// Check pings redis and attaches the last cycle. A failed last cycle
// degrades the service without making it unready.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.redisClient != nil {
		start := time.Now()
		if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
			status.Status = StatusUnhealthy
			status.Checks["redis"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
		} else {
			status.Checks["redis"] = CheckResult{
				Status:    StatusHealthy,
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}
	}

	if c.cycles != nil {
		if last, ok := c.cycles.LastCycle(); ok {
			status.LastCycle = &last
			if last.Failed() {
				status.Checks["dispatch"] = CheckResult{
					Status: StatusDegraded,
					Error:  last.Error,
				}
				if status.Status == StatusHealthy {
					status.Status = StatusDegraded
				}
			} else {
				status.Checks["dispatch"] = CheckResult{Status: StatusHealthy}
			}
		}
	}

	return status
}

func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler fails only when a dependency is unreachable.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status == StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
