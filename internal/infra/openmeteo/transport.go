package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Transport executes provider requests with a rate limit, retries with
// exponential backoff and a circuit breaker.
type Transport struct {
	client  *http.Client
	backoff BackoffConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func NewTransport(name string, client *http.Client, backoff BackoffConfig, ratePerSecond float64, burst int) *Transport {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Transport{
		client:  client,
		backoff: backoff,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		breaker: breaker,
	}
}

// statusError is a non-2xx response that is not worth retrying.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus.Error(), e.code)
}

func (e *statusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

func (t *Transport) Do(ctx context.Context, buildRequest func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if t.backoff.MaxRetries < 0 || t.backoff.InitialInterval <= 0 {
		return nil, ErrInvalidBackoff
	}

	var attempt int

	for {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}

		req, err := buildRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := t.breaker.Execute(func() (interface{}, error) {
			resp, execErr := t.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				drain(resp)
				return nil, ErrRateLimited
			case resp.StatusCode >= 500:
				drain(resp)
				return nil, ErrServerError
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				drain(resp)
				return nil, &statusError{code: resp.StatusCode}
			}

			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if errors.Is(err, ErrUnexpectedStatus) || ctx.Err() != nil {
			return nil, err
		}
		if attempt >= t.backoff.MaxRetries {
			return nil, err
		}

		delay := t.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if t.backoff.MaxInterval > 0 && delay > t.backoff.MaxInterval {
			delay = t.backoff.MaxInterval
		}

		slog.DebugContext(ctx, "provider request failed, retrying",
			slog.String("provider", t.breaker.Name()),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
