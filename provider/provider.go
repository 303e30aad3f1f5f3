// ABOUTME: Profile and connection provider contract
// ABOUTME: Providers are ranked by priority and throttled by their declared rate limits
package provider

import (
	"context"
	"errors"

	"github.com/harperreed/sherpa/models"
)

var (
	// ErrNoProvider is returned when every registered provider failed or was skipped.
	ErrNoProvider = errors.New("no provider could serve the request")
	// ErrRateLimited marks a provider skipped because its limiter was exhausted.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrNotFound is returned by providers that do not know the requested identity.
	ErrNotFound = errors.New("not found")
)

// RateLimit declares how fast a provider may be called.
// RequestsPerHour of zero or less means unlimited.
type RateLimit struct {
	RequestsPerHour int `json:"requests_per_hour"`
	Burst           int `json:"burst"`
}

type Provider interface {
	Name() string
	// Priority orders providers; lower values are tried first.
	Priority() int
	IsAvailable(ctx context.Context) bool
	RateLimit() RateLimit
	GetProfile(ctx context.Context, identity string) (*models.ProfileRecord, error)
	GetConnections(ctx context.Context, profileID string) ([]models.ConnectionRecord, error)
}
