package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-sunset-notification/internal/scheduler"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/dispatch"
)

type CycleTrigger interface {
	RunOnce(ctx context.Context) (*dispatch.CycleResult, error)
}

type DispatchHandler struct {
	trigger CycleTrigger
}

func NewDispatchHandler(trigger CycleTrigger) *DispatchHandler {
	return &DispatchHandler{
		trigger: trigger,
	}
}

// HandleDispatch runs one dispatch cycle synchronously and returns its summary.
func (h *DispatchHandler) HandleDispatch(c *gin.Context) {
	ctx := c.Request.Context()

	slog.InfoContext(ctx, "manual dispatch requested",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	// The cycle outlives a disconnected caller and is bounded by the cycle timeout.
	result, err := h.trigger.RunOnce(context.WithoutCancel(ctx))
	if errors.Is(err, scheduler.ErrCycleInProgress) {
		respondError(c, http.StatusConflict, "cycle_in_progress", err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "manual dispatch failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "dispatch_error", "dispatch cycle failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
