// ABOUTME: Functional options and collaborator interfaces for the relationship engine
// ABOUTME: Lets callers inject the scorer, connection source, text generator and clock
package network

import (
	"context"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/scoring"
	"github.com/harperreed/sherpa/textgen"
)

// ConnectionSource supplies profiles and connection lists. provider.Registry
// satisfies it.
type ConnectionSource interface {
	GetProfile(ctx context.Context, identity string) (*models.ProfileRecord, error)
	GetConnections(ctx context.Context, profileID string) ([]models.ConnectionRecord, error)
}

type Option func(*Engine)

func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

func WithConnectionSource(src ConnectionSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

func WithGenerator(g textgen.Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
