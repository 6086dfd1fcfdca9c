package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message    string              `json:"message"`
	Subscriber *subscriberResponse `json:"subscriber,omitempty"`
}

type locationResponse struct {
	ID       int64   `json:"id"`
	City     string  `json:"city"`
	Country  string  `json:"country,omitempty"`
	Lat      float64 `json:"latitude"`
	Lon      float64 `json:"longitude"`
	Timezone string  `json:"timezone"`
}

type subscriberResponse struct {
	Kind      string             `json:"kind"`
	Locations []locationResponse `json:"locations"`
}

func newSubscriberResponse(sub *domain.Subscriber) *subscriberResponse {
	locations := make([]locationResponse, 0, len(sub.Locations))
	for _, l := range sub.Locations {
		locations = append(locations, locationResponse{
			ID:       l.ID,
			City:     l.City,
			Country:  l.Country,
			Lat:      l.Latitude,
			Lon:      l.Longitude,
			Timezone: l.Timezone,
		})
	}
	return &subscriberResponse{
		Kind:      sub.Kind.String(),
		Locations: locations,
	}
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, errorResponse{
		Error:   errType,
		Message: message,
	})
}

// respondDomainError maps error kinds to HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrLocationNotFound):
		respondError(c, http.StatusBadRequest, "location_not_found", "city not found")
	case errors.Is(err, domain.ErrSubscriberNotFound):
		respondError(c, http.StatusNotFound, "not_found", "subscription not found")
	default:
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to process request")
	}
}

// validationMessage flattens validator errors into one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
