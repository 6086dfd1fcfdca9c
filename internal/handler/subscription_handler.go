package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

type SubscriptionService interface {
	SubscribeEmail(ctx context.Context, email, city string) (*domain.Subscriber, error)
	SubscribePush(ctx context.Context, cred domain.PushCredential, city string) (*domain.Subscriber, error)
	UnsubscribeEmail(ctx context.Context, email string) error
	UnsubscribePush(ctx context.Context, endpoint string) error
}

type emailSubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	City  string `json:"city" validate:"required,max=100"`
}

type pushKeysRequest struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

type pushSubscriptionRequest struct {
	Endpoint       string          `json:"endpoint" validate:"required,url,startswith=https://"`
	ExpirationTime *int64          `json:"expirationTime"`
	Keys           pushKeysRequest `json:"keys" validate:"required"`
}

type pushSubscribeRequest struct {
	Subscription pushSubscriptionRequest `json:"subscription" validate:"required"`
	City         string                  `json:"city" validate:"required,max=100"`
}

type emailUnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type pushUnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

type SubscriptionHandler struct {
	service SubscriptionService
}

func NewSubscriptionHandler(service SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
	}
}

func (h *SubscriptionHandler) HandleSubscribeEmail(c *gin.Context) {
	var req emailSubscribeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sub, err := h.service.SubscribeEmail(c.Request.Context(), req.Email, req.City)
	h.respondSubscribe(c, req.City, sub, err)
}

func (h *SubscriptionHandler) HandleSubscribePush(c *gin.Context) {
	var req pushSubscribeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cred := domain.PushCredential{
		Endpoint:       req.Subscription.Endpoint,
		ExpirationTime: req.Subscription.ExpirationTime,
		Keys: domain.PushKeys{
			P256dh: req.Subscription.Keys.P256dh,
			Auth:   req.Subscription.Keys.Auth,
		},
	}

	sub, err := h.service.SubscribePush(c.Request.Context(), cred, req.City)
	h.respondSubscribe(c, req.City, sub, err)
}

func (h *SubscriptionHandler) HandleUnsubscribeEmail(c *gin.Context) {
	var req emailUnsubscribeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.service.UnsubscribeEmail(c.Request.Context(), req.Email); err != nil {
		logFailure(c, "email unsubscribe failed", err)
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubscriptionHandler) HandleUnsubscribePush(c *gin.Context) {
	var req pushUnsubscribeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.service.UnsubscribePush(c.Request.Context(), req.Endpoint); err != nil {
		logFailure(c, "push unsubscribe failed", err)
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondSubscribe answers 201 for a stored location and 200 when the
// location was already subscribed.
func (h *SubscriptionHandler) respondSubscribe(c *gin.Context, city string, sub *domain.Subscriber, err error) {
	if errors.Is(err, domain.ErrLocationAlreadySubscribed) {
		c.JSON(http.StatusOK, messageResponse{
			Message: fmt.Sprintf("already subscribed to %s", city),
		})
		return
	}
	if err != nil {
		logFailure(c, "subscribe failed", err)
		respondDomainError(c, err)
		return
	}

	added := city
	if n := len(sub.Locations); n > 0 {
		added = sub.Locations[n-1].City
	}
	c.JSON(http.StatusCreated, messageResponse{
		Message:    fmt.Sprintf("subscribed to sunset alerts for %s", added),
		Subscriber: newSubscriberResponse(sub),
	})
}

func bindAndValidate(c *gin.Context, req any) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", "malformed JSON body")
		return false
	}

	if err := validate.Struct(req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", validationMessage(err))
		return false
	}

	return true
}

func logFailure(c *gin.Context, msg string, err error) {
	level := slog.LevelWarn
	if errors.Is(err, domain.ErrStorage) {
		level = slog.LevelError
	}
	slog.Log(c.Request.Context(), level, msg,
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
}
