// ABOUTME: Provider registry with priority fallback, caching, rate limiting and circuit breaking
// ABOUTME: Serves the same lookup contract as a single provider
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultCacheTTL = 60 * time.Minute

	defaultTripAfter    = 3
	defaultOpenDuration = 30 * time.Second
)

type registered struct {
	provider Provider
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

type RegistryOption func(*Registry)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) RegistryOption {
	return func(r *Registry) { r.cache = c }
}

func WithTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = ttl }
}

// WithBreaker sets how many consecutive failures open a provider's
// circuit and how long it stays open.
func WithBreaker(consecutiveFailures uint32, openFor time.Duration) RegistryOption {
	return func(r *Registry) {
		if consecutiveFailures > 0 {
			r.tripAfter = consecutiveFailures
		}
		if openFor > 0 {
			r.openFor = openFor
		}
	}
}

type Registry struct {
	mu        sync.RWMutex
	providers []*registered
	cache     Cache
	ttl       time.Duration
	tripAfter uint32
	openFor   time.Duration
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		cache:     NewMemoryCache(),
		ttl:       DefaultCacheTTL,
		tripAfter: defaultTripAfter,
		openFor:   defaultOpenDuration,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a provider. Providers are consulted in ascending priority.
func (r *Registry) Register(p Provider) {
	rl := p.RateLimit()
	limit := rate.Inf
	if rl.RequestsPerHour > 0 {
		limit = rate.Every(time.Hour / time.Duration(rl.RequestsPerHour))
	}
	burst := rl.Burst
	if burst <= 0 {
		burst = 1
	}

	tripAfter := r.tripAfter
	entry := &registered{
		provider: p,
		limiter:  rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        p.Name(),
			MaxRequests: 1,
			Timeout:     r.openFor,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= tripAfter
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("provider: circuit state changed", "provider", name, "from", from.String(), "to", to.String())
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound)
			},
		}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, entry)
	sort.SliceStable(r.providers, func(i, j int) bool {
		return r.providers[i].provider.Priority() < r.providers[j].provider.Priority()
	})
}

// Providers lists registered provider names in lookup order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for _, e := range r.providers {
		names = append(names, e.provider.Name())
	}
	return names
}

func (r *Registry) GetProfile(ctx context.Context, identity string) (*models.ProfileRecord, error) {
	return lookup(ctx, r, "profile:"+identity, func(p Provider) (*models.ProfileRecord, error) {
		return p.GetProfile(ctx, identity)
	})
}

func (r *Registry) GetConnections(ctx context.Context, profileID string) ([]models.ConnectionRecord, error) {
	return lookup(ctx, r, "connections:"+profileID, func(p Provider) ([]models.ConnectionRecord, error) {
		return p.GetConnections(ctx, profileID)
	})
}

func lookup[T any](ctx context.Context, r *Registry, key string, call func(Provider) (T, error)) (T, error) {
	var zero T

	if raw, ok := r.cache.Get(key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.Warn("provider: dropping undecodable cache entry", "key", key)
	}

	r.mu.RLock()
	providers := append([]*registered(nil), r.providers...)
	r.mu.RUnlock()

	lastErr := errors.New("no providers registered")
	for _, e := range providers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		name := e.provider.Name()

		if !e.provider.IsAvailable(ctx) {
			lastErr = fmt.Errorf("%s: unavailable", name)
			continue
		}
		if !e.limiter.Allow() {
			lastErr = fmt.Errorf("%s: %w", name, ErrRateLimited)
			logger.Warn("provider: rate limited", "provider", name, "key", key)
			continue
		}

		out, err := e.breaker.Execute(func() (interface{}, error) {
			return call(e.provider)
		})
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			if !errors.Is(err, ErrNotFound) {
				logger.Warn("provider: lookup failed", "provider", name, "key", key, "error", err)
			}
			continue
		}

		result, _ := out.(T)
		if raw, err := json.Marshal(result); err == nil {
			r.cache.Set(key, raw, r.ttl)
		}
		return result, nil
	}

	return zero, fmt.Errorf("%w: %w", ErrNoProvider, lastErr)
}
